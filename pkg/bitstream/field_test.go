package bitstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldKindsRoundTrip(t *testing.T) {
	specs := []FieldSpec{
		RawBitsSpec(3),
		CompactSpec(Width16, false),
		CompactSpec(Width32, true),
		StringSpec(AllocatedField(Narrow, 8)),
		StringSpec(PrefixedField(Wide, Width8)),
	}
	values := []Value{
		{Kind: KindRawBits, Uint: 5},
		{Kind: KindCompactInt, Uint: 300},
		{Kind: KindCompactInt, Int: -42},
		{Kind: KindAllocatedString, Text: "name"},
		{Kind: KindPrefixedString, Text: "wide text"},
	}

	s := newShiftedStream(t)
	for i, spec := range specs {
		require.NoError(t, s.WriteField(spec, values[i]), "field %d", i)
	}
	for i, spec := range specs {
		got, err := s.ReadField(spec)
		require.NoError(t, err, "field %d", i)
		assert.Equal(t, values[i], got)
	}
	assert.True(t, s.AllRead())
}

func TestStringSpecSelectsKind(t *testing.T) {
	assert.Equal(t, KindAllocatedString, StringSpec(AllocatedField(Narrow, 4)).Kind)
	assert.Equal(t, KindPrefixedString, StringSpec(PrefixedField(Narrow, Width8)).Kind)
}

func TestFieldUnknownKind(t *testing.T) {
	w := NewWriter()
	assert.ErrorIs(t, w.WriteField(FieldSpec{Kind: 9}, Value{}), ErrUnknownKind)
	r := NewReader([]byte{0}, Locked)
	_, err := r.ReadField(FieldSpec{Kind: 9})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestFieldKindString(t *testing.T) {
	assert.Equal(t, "raw_bits", KindRawBits.String())
	assert.Equal(t, "prefixed_string", KindPrefixedString.String())
	assert.Equal(t, "FieldKind(9)", FieldKind(9).String())
}

type point struct {
	X, Y int64
	Tag  string
}

func (p *point) Serialize(w *Writer) error {
	if err := w.WriteCompactInt(p.X, Width32); err != nil {
		return err
	}
	if err := w.WriteCompactInt(p.Y, Width32); err != nil {
		return err
	}
	return w.WriteString(p.Tag, PrefixedField(Narrow, Width8))
}

func (p *point) Deserialize(r *Reader) error {
	var err error
	if p.X, err = r.ReadCompactInt(Width32); err != nil {
		return err
	}
	if p.Y, err = r.ReadCompactInt(Width32); err != nil {
		return err
	}
	p.Tag, err = r.ReadString(PrefixedField(Narrow, Width8))
	return err
}

func TestSerializerRoundTrip(t *testing.T) {
	in := &point{X: -3, Y: 70000, Tag: "origin"}
	w := NewWriter()
	require.NoError(t, w.WriteValue(in))
	out, err := w.Finalize()
	require.NoError(t, err)

	var got point
	r := NewReader(out, Locked)
	require.NoError(t, r.ReadValue(&got))
	assert.Equal(t, *in, got)
}

func TestDeserializerFailureRewinds(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.WriteCompactInt(1, Width32))
	require.NoError(t, w.WriteCompactInt(2, Width32))
	out, err := w.Finalize()
	require.NoError(t, err)

	r := NewReader(out, Unlocked)
	var got point
	assert.ErrorIs(t, r.ReadValue(&got), ErrEndOfData)
	off, _ := r.ReadOffset()
	assert.Equal(t, 0, off)
}
