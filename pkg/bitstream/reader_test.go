package bitstream

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/danmuck/bitstream/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderLockedDeniesOffset(t *testing.T) {
	testlog.Start(t)
	r := NewReader([]byte("test"), Locked)

	_, err := r.ReadOffset()
	if !errors.Is(err, ErrAccessViolation) {
		t.Fatalf("expected ErrAccessViolation, got %v", err)
	}
	if err := r.SetReadOffset(1); !errors.Is(err, ErrAccessViolation) {
		t.Fatalf("expected ErrAccessViolation, got %v", err)
	}
}

func TestReaderUnlockedOffset(t *testing.T) {
	r := NewReader([]byte("test"), Unlocked)
	off, err := r.ReadOffset()
	require.NoError(t, err)
	assert.Equal(t, 0, off)

	require.NoError(t, r.SetReadOffset(1))
	off, err = r.ReadOffset()
	require.NoError(t, err)
	assert.Equal(t, 1, off)

	assert.ErrorIs(t, r.SetReadOffset(33), ErrOffsetRange)
	assert.ErrorIs(t, r.SetReadOffset(-1), ErrOffsetRange)
	off, _ = r.ReadOffset()
	assert.Equal(t, 1, off)
}

func TestReaderAlignRead(t *testing.T) {
	r := NewReader([]byte("test"), Unlocked)
	require.NoError(t, r.SetReadOffset(5))
	require.NoError(t, r.AlignRead())
	off, _ := r.ReadOffset()
	assert.Equal(t, 8, off)

	require.NoError(t, r.AlignRead())
	off, _ = r.ReadOffset()
	assert.Equal(t, 8, off)
}

func TestReaderSkipRead(t *testing.T) {
	r := NewReader([]byte("test"), Unlocked)
	require.NoError(t, r.SkipRead(4))
	off, _ := r.ReadOffset()
	assert.Equal(t, 32, off)
	assert.True(t, r.AllRead())

	assert.ErrorIs(t, r.SkipRead(1), ErrEndOfData)
	off, _ = r.ReadOffset()
	assert.Equal(t, 32, off)
}

func TestReaderAllRead(t *testing.T) {
	r := NewReader([]byte("test"), Locked)
	assert.False(t, r.AllRead())
	require.NoError(t, r.SkipRead(4))
	assert.True(t, r.AllRead())
}

func TestReaderReadRemaining(t *testing.T) {
	r := NewReader([]byte("test"), Locked)
	out, err := r.ReadRemaining()
	require.NoError(t, err)
	assert.Equal(t, []byte("test"), out)
	assert.True(t, r.AllRead())

	out, err = r.ReadRemaining()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestReaderReadRemainingUnaligned(t *testing.T) {
	r := NewReader([]byte{0x0F, 0xF0}, Locked)
	_, err := r.ReadBits(4)
	require.NoError(t, err)

	out, err := r.ReadRemaining()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0x00}, out)
	assert.True(t, r.AllRead())
}

func TestReaderReadRemainingDoesNotAlias(t *testing.T) {
	data := []byte{1, 2, 3}
	r := NewReader(data, Locked)
	out, err := r.ReadRemaining()
	require.NoError(t, err)
	out[0] = 9
	assert.Equal(t, byte(1), data[0])
}

func TestReaderEndOfDataLeavesCursor(t *testing.T) {
	r := NewReader([]byte{0xAB, 0xCD, 0xEF, 0x01}, Unlocked)
	_, err := r.ReadBits(1)
	require.NoError(t, err)

	_, err = r.ReadBytes(4)
	if !errors.Is(err, ErrEndOfData) {
		t.Fatalf("expected ErrEndOfData, got %v", err)
	}
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	off, _ := r.ReadOffset()
	assert.Equal(t, 1, off)

	_, err = r.ReadBits(32)
	assert.ErrorIs(t, err, ErrEndOfData)
	v, err := r.ReadBits(31)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x2BCDEF01), v)
}

func TestReaderHugeByteCounts(t *testing.T) {
	r := NewReader([]byte("test"), Unlocked)
	for _, n := range []int{1 << 61, 1<<61 + 1, math.MaxInt / 8, math.MaxInt} {
		assert.ErrorIs(t, r.SkipRead(n), ErrEndOfData, "skip %d", n)
		_, err := r.ReadBytes(n)
		assert.ErrorIs(t, err, ErrEndOfData, "read %d", n)
		off, _ := r.ReadOffset()
		assert.Equal(t, 0, off)
	}
}

func TestStringAllocatedHugeLength(t *testing.T) {
	r := NewReader([]byte("test"), Unlocked, WithLimits(Limits{}))
	_, err := r.ReadString(AllocatedField(Wide, math.MaxInt/2+1))
	assert.ErrorIs(t, err, ErrEndOfData)
	off, _ := r.ReadOffset()
	assert.Equal(t, 0, off)
}

func TestReaderBitCountRange(t *testing.T) {
	r := NewReader([]byte{0}, Locked)
	_, err := r.ReadBits(65)
	assert.ErrorIs(t, err, ErrInvalidWidth)
	_, err = r.ReadBits(-1)
	assert.ErrorIs(t, err, ErrInvalidWidth)
	_, err = r.ReadBytes(-1)
	assert.ErrorIs(t, err, ErrInvalidWidth)
}

func TestReaderNeverMutatesInput(t *testing.T) {
	data := []byte{0xFF, 0x00, 0x7F}
	r := NewReader(data, Locked)
	_, _ = r.ReadBits(3)
	_, _ = r.ReadBytes(2)
	_, _ = r.ReadRemaining()
	assert.Equal(t, []byte{0xFF, 0x00, 0x7F}, data)
}

func TestFixedWidthRoundTrip(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.WriteBool(true))
	require.NoError(t, w.WriteInt16(-12345))
	require.NoError(t, w.WriteUint64(1<<63|5))
	require.NoError(t, w.WriteInt32(-7))
	require.NoError(t, w.WriteInt64(-1<<40))
	require.NoError(t, w.WriteFloat32(1.5))
	require.NoError(t, w.WriteFloat64(-2.25))
	require.NoError(t, w.WriteUint8(0x7E))
	out, err := w.Finalize()
	require.NoError(t, err)

	r := NewReader(out, Locked)
	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)
	i16, err := r.ReadInt16()
	require.NoError(t, err)
	assert.Equal(t, int16(-12345), i16)
	u64, err := r.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<63|5), u64)
	i32, err := r.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-7), i32)
	i64, err := r.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(-1<<40), i64)
	f32, err := r.ReadFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)
	f64, err := r.ReadFloat64()
	require.NoError(t, err)
	assert.Equal(t, -2.25, f64)
	u8, err := r.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7E), u8)
}
