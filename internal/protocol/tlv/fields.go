package tlv

import "github.com/danmuck/bitstream/pkg/bitstream"

// NewUint creates an unsigned compact integer field.
func NewUint(id uint16, v uint64, width bitstream.Width) Field {
	return Field{
		ID:    id,
		Spec:  bitstream.CompactSpec(width, false),
		Value: bitstream.Value{Kind: bitstream.KindCompactInt, Uint: v},
	}
}

// NewInt creates a signed compact integer field.
func NewInt(id uint16, v int64, width bitstream.Width) Field {
	return Field{
		ID:    id,
		Spec:  bitstream.CompactSpec(width, true),
		Value: bitstream.Value{Kind: bitstream.KindCompactInt, Int: v},
	}
}

// NewBits creates a raw field holding the n low-order bits of v.
func NewBits(id uint16, v uint64, n int) Field {
	return Field{
		ID:    id,
		Spec:  bitstream.RawBitsSpec(n),
		Value: bitstream.Value{Kind: bitstream.KindRawBits, Uint: v},
	}
}

// NewBool creates a single-bit field.
func NewBool(id uint16, b bool) Field {
	var v uint64
	if b {
		v = 1
	}
	return NewBits(id, v, 1)
}

// NewText creates a narrow length-prefixed string field.
func NewText(id uint16, s string) Field {
	return newString(id, s, bitstream.PrefixedField(bitstream.Narrow, bitstream.Width32))
}

// NewWideText creates a wide length-prefixed string field.
func NewWideText(id uint16, s string) Field {
	return newString(id, s, bitstream.PrefixedField(bitstream.Wide, bitstream.Width32))
}

// NewFixedText creates a narrow allocated string field of length characters.
func NewFixedText(id uint16, s string, length int) Field {
	return newString(id, s, bitstream.AllocatedField(bitstream.Narrow, length))
}

func newString(id uint16, s string, field bitstream.StringField) Field {
	spec := bitstream.StringSpec(field)
	return Field{
		ID:    id,
		Spec:  spec,
		Value: bitstream.Value{Kind: spec.Kind, Text: s},
	}
}

// Uint returns an unsigned compact integer or raw bits value.
func (f Field) Uint() (uint64, error) {
	switch {
	case f.Spec.Kind == bitstream.KindRawBits:
	case f.Spec.Kind == bitstream.KindCompactInt && !f.Spec.Signed:
	default:
		return 0, &FieldError{ID: f.ID, Err: ErrFieldTypeMismatch}
	}
	return f.Value.Uint, nil
}

// Int returns a signed compact integer value.
func (f Field) Int() (int64, error) {
	if f.Spec.Kind != bitstream.KindCompactInt || !f.Spec.Signed {
		return 0, &FieldError{ID: f.ID, Err: ErrFieldTypeMismatch}
	}
	return f.Value.Int, nil
}

// Bool returns a single-bit value.
func (f Field) Bool() (bool, error) {
	if f.Spec.Kind != bitstream.KindRawBits || f.Spec.Bits != 1 {
		return false, &FieldError{ID: f.ID, Err: ErrFieldTypeMismatch}
	}
	return f.Value.Uint == 1, nil
}

// Text returns either string kind.
func (f Field) Text() (string, error) {
	switch f.Spec.Kind {
	case bitstream.KindAllocatedString, bitstream.KindPrefixedString:
		return f.Value.Text, nil
	default:
		return "", &FieldError{ID: f.ID, Err: ErrFieldTypeMismatch}
	}
}
