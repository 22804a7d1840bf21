package tlv

import (
	"errors"
	"testing"

	"github.com/danmuck/bitstream/internal/testutil/testlog"
	"github.com/danmuck/bitstream/pkg/bitstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeFieldsRoundTrip(t *testing.T) {
	testlog.Start(t)
	in := []Field{
		NewText(1, "intent-1"),
		NewUint(2, 99, bitstream.Width16),
		NewInt(3, -12, bitstream.Width32),
		NewBool(4, true),
		NewBits(5, 0x2A, 6),
		NewFixedText(6, "fixed", 12),
		NewWideText(9999, "wïde"),
	}
	b, err := EncodeFields(in)
	require.NoError(t, err)

	out, err := DecodeFields(b, DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncodeFieldsEmpty(t *testing.T) {
	b, err := EncodeFields(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00}, b)

	out, err := DecodeFields(b, DefaultLimits())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDecodeFieldsTruncatedIsDeterministic(t *testing.T) {
	b, err := EncodeFields([]Field{NewText(1, "abcdef")})
	require.NoError(t, err)

	_, err = DecodeFields(b[:len(b)-2], DefaultLimits())
	if !errors.Is(err, bitstream.ErrEndOfData) {
		t.Fatalf("expected ErrEndOfData, got %v", err)
	}
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, uint16(1), fe.ID)
}

func TestDecodeFieldsTrailingData(t *testing.T) {
	b, err := EncodeFields([]Field{NewBool(1, false)})
	require.NoError(t, err)
	b = append(b, 0xFF)
	_, err = DecodeFields(b, DefaultLimits())
	assert.ErrorIs(t, err, ErrTrailingData)
}

func TestDecodeFieldsLimits(t *testing.T) {
	b, err := EncodeFields([]Field{NewBool(1, false), NewBool(2, true)})
	require.NoError(t, err)
	_, err = DecodeFields(b, Limits{MaxFields: 1})
	assert.ErrorIs(t, err, ErrTooManyFields)

	b, err = EncodeFields([]Field{NewText(1, "too long")})
	require.NoError(t, err)
	_, err = DecodeFields(b, Limits{Codec: bitstream.Limits{MaxPrefixedLength: 4}})
	assert.ErrorIs(t, err, bitstream.ErrLimitExceeded)
}

func TestWriteFieldKindMismatch(t *testing.T) {
	f := NewText(7, "x")
	f.Value.Kind = bitstream.KindRawBits
	_, err := EncodeFields([]Field{f})
	assert.ErrorIs(t, err, ErrFieldTypeMismatch)
}

func TestFieldAccessors(t *testing.T) {
	fields := []Field{
		NewUint(1, 5, bitstream.Width8),
		NewInt(2, -5, bitstream.Width8),
		NewBool(3, true),
		NewText(4, "hi"),
	}
	f, ok := GetField(fields, 1)
	require.True(t, ok)
	u, err := f.Uint()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), u)
	_, err = f.Int()
	assert.ErrorIs(t, err, ErrFieldTypeMismatch)

	f, _ = GetField(fields, 2)
	i, err := f.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(-5), i)
	_, err = f.Uint()
	assert.ErrorIs(t, err, ErrFieldTypeMismatch)

	f, _ = GetField(fields, 3)
	b, err := f.Bool()
	require.NoError(t, err)
	assert.True(t, b)

	f, _ = GetField(fields, 4)
	s, err := f.Text()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)
	_, err = f.Bool()
	assert.ErrorIs(t, err, ErrFieldTypeMismatch)

	_, ok = GetField(fields, 42)
	assert.False(t, ok)
}
