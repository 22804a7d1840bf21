package bitstream

import (
	"errors"
	"testing"

	"github.com/danmuck/bitstream/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterAlignPadsWithZeros(t *testing.T) {
	testlog.Start(t)
	w := NewWriter(WithLogger(testlog.Logger(t)))
	require.NoError(t, w.WriteBits(255, 5))
	require.NoError(t, w.AlignWrite())
	out, err := w.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF8}, out)
}

func TestWriterAlignIsIdempotent(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.WriteBits(0, 5))
	require.NoError(t, w.AlignWrite())
	assert.Equal(t, 8, w.BitLen())
	require.NoError(t, w.AlignWrite())
	assert.Equal(t, 8, w.BitLen())
}

func TestWriterFinalizeOnce(t *testing.T) {
	testlog.Start(t)
	w := NewWriter(WithLogger(testlog.Logger(t)))
	_, err := w.Finalize()
	require.NoError(t, err)

	_, err = w.Finalize()
	if !errors.Is(err, ErrAccessViolation) {
		t.Fatalf("expected ErrAccessViolation, got %v", err)
	}
}

func TestWriterFinalizePadsTrailingBits(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.WriteBits(0x5, 3))
	out, err := w.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xA0}, out)
}

func TestWriterRejectsWritesAfterFinalize(t *testing.T) {
	w := NewWriter()
	_, err := w.Finalize()
	require.NoError(t, err)

	assert.ErrorIs(t, w.WriteBits(1, 1), ErrAccessViolation)
	assert.ErrorIs(t, w.WriteBytes([]byte{1}), ErrAccessViolation)
	assert.ErrorIs(t, w.AlignWrite(), ErrAccessViolation)
	assert.ErrorIs(t, w.WriteCompactUint(1, Width32), ErrAccessViolation)
	assert.ErrorIs(t, w.WriteString("x", AllocatedField(Narrow, 4)), ErrAccessViolation)
}

func TestWriterBitCountRange(t *testing.T) {
	w := NewWriter()
	assert.ErrorIs(t, w.WriteBits(0, -1), ErrInvalidWidth)
	assert.ErrorIs(t, w.WriteBits(0, 65), ErrInvalidWidth)
	assert.NoError(t, w.WriteBits(0, 0))
	assert.NoError(t, w.WriteBits(^uint64(0), 64))
	assert.Equal(t, 64, w.BitLen())
}

func TestWriterBytesUnaligned(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.WriteBits(1, 1))
	require.NoError(t, w.WriteBytes([]byte{0xFF}))
	out, err := w.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0x80}, out)
}

func TestWriterFixedWidthBigEndian(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.WriteUint16(0x0102))
	require.NoError(t, w.WriteInt8(-1))
	require.NoError(t, w.WriteUint32(0x03040506))
	out, err := w.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0xFF, 0x03, 0x04, 0x05, 0x06}, out)
}
