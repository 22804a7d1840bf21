package tlv

import (
	"errors"
	"fmt"

	"github.com/danmuck/bitstream/pkg/bitstream"
)

// Each field is a compact16 id, a 2-bit kind, kind parameters and the value:
//
//	raw bits:         7-bit count, value
//	compact int:      2-bit width code, 1-bit signed, value
//	allocated string: 1-bit wide, compact32 length, value
//	prefixed string:  1-bit wide, 2-bit width code, value
//
// A list is a compact32 field count followed by the fields, zero padded to a
// byte boundary.

const (
	kindBits      = 2
	rawCountBits  = 7
	widthCodeBits = 2
)

var (
	ErrFieldTypeMismatch = errors.New("tlv: field type mismatch")
	ErrMalformedField    = errors.New("tlv: malformed field")
	ErrTooManyFields     = errors.New("tlv: too many fields")
	ErrTrailingData      = errors.New("tlv: trailing data after fields")
)

// FieldError ties a failure to the field that caused it.
type FieldError struct {
	ID  uint16
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("tlv: field %d: %v", e.ID, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Field is one self-describing field.
type Field struct {
	ID    uint16
	Spec  bitstream.FieldSpec
	Value bitstream.Value
}

// Limits bounds decoding of untrusted field lists.
type Limits struct {
	MaxFields int
	Codec     bitstream.Limits
}

func DefaultLimits() Limits {
	return Limits{
		MaxFields: 1024,
		Codec:     bitstream.DefaultLimits(),
	}
}

var widthCodes = []bitstream.Width{
	bitstream.Width8, bitstream.Width16, bitstream.Width32, bitstream.Width64,
}

func widthCode(w bitstream.Width) (uint64, error) {
	for i, c := range widthCodes {
		if c == w {
			return uint64(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %d", bitstream.ErrInvalidWidth, w)
}

func charFlag(c bitstream.CharWidth) bool {
	return c == bitstream.Wide
}

func charWidth(wide bool) bitstream.CharWidth {
	if wide {
		return bitstream.Wide
	}
	return bitstream.Narrow
}

// WriteField appends f to w.
func WriteField(w *bitstream.Writer, f Field) error {
	if f.Value.Kind != f.Spec.Kind {
		return &FieldError{ID: f.ID, Err: ErrFieldTypeMismatch}
	}
	if err := writeField(w, f); err != nil {
		return &FieldError{ID: f.ID, Err: err}
	}
	return nil
}

func writeField(w *bitstream.Writer, f Field) error {
	spec := f.Spec
	if err := w.WriteCompactUint(uint64(f.ID), bitstream.Width16); err != nil {
		return err
	}
	if err := w.WriteBits(uint64(spec.Kind), kindBits); err != nil {
		return err
	}
	switch spec.Kind {
	case bitstream.KindRawBits:
		if spec.Bits < 0 || spec.Bits > 64 {
			return fmt.Errorf("%w: bit count %d", bitstream.ErrInvalidWidth, spec.Bits)
		}
		if err := w.WriteBits(uint64(spec.Bits), rawCountBits); err != nil {
			return err
		}
	case bitstream.KindCompactInt:
		code, err := widthCode(spec.Width)
		if err != nil {
			return err
		}
		if err := w.WriteBits(code, widthCodeBits); err != nil {
			return err
		}
		if err := w.WriteBool(spec.Signed); err != nil {
			return err
		}
	case bitstream.KindAllocatedString:
		if err := w.WriteBool(charFlag(spec.String.Char)); err != nil {
			return err
		}
		if err := w.WriteCompactUint(uint64(spec.String.AllocatedLength), bitstream.Width32); err != nil {
			return err
		}
	case bitstream.KindPrefixedString:
		code, err := widthCode(spec.String.LengthWidth)
		if err != nil {
			return err
		}
		if err := w.WriteBool(charFlag(spec.String.Char)); err != nil {
			return err
		}
		if err := w.WriteBits(code, widthCodeBits); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %s", bitstream.ErrUnknownKind, spec.Kind)
	}
	return w.WriteField(spec, f.Value)
}

// ReadField reads one field from r.
func ReadField(r *bitstream.Reader) (Field, error) {
	var f Field
	err := r.ReadValue(fieldReader{f: &f})
	return f, err
}

type fieldReader struct {
	f *Field
}

func (fr fieldReader) Deserialize(r *bitstream.Reader) error {
	id, err := r.ReadCompactUint(bitstream.Width16)
	if err != nil {
		return err
	}
	fr.f.ID = uint16(id)
	spec, err := readSpec(r)
	if err != nil {
		return &FieldError{ID: fr.f.ID, Err: err}
	}
	v, err := r.ReadField(spec)
	if err != nil {
		return &FieldError{ID: fr.f.ID, Err: err}
	}
	fr.f.Spec = spec
	fr.f.Value = v
	return nil
}

func readSpec(r *bitstream.Reader) (bitstream.FieldSpec, error) {
	kind, err := r.ReadBits(kindBits)
	if err != nil {
		return bitstream.FieldSpec{}, err
	}
	switch bitstream.FieldKind(kind) {
	case bitstream.KindRawBits:
		n, err := r.ReadBits(rawCountBits)
		if err != nil {
			return bitstream.FieldSpec{}, err
		}
		if n > 64 {
			return bitstream.FieldSpec{}, fmt.Errorf("%w: raw bit count %d", ErrMalformedField, n)
		}
		return bitstream.RawBitsSpec(int(n)), nil
	case bitstream.KindCompactInt:
		code, err := r.ReadBits(widthCodeBits)
		if err != nil {
			return bitstream.FieldSpec{}, err
		}
		signed, err := r.ReadBool()
		if err != nil {
			return bitstream.FieldSpec{}, err
		}
		return bitstream.CompactSpec(widthCodes[code], signed), nil
	case bitstream.KindAllocatedString:
		wide, err := r.ReadBool()
		if err != nil {
			return bitstream.FieldSpec{}, err
		}
		n, err := r.ReadCompactUint(bitstream.Width32)
		if err != nil {
			return bitstream.FieldSpec{}, err
		}
		return bitstream.StringSpec(bitstream.AllocatedField(charWidth(wide), int(n))), nil
	default:
		wide, err := r.ReadBool()
		if err != nil {
			return bitstream.FieldSpec{}, err
		}
		code, err := r.ReadBits(widthCodeBits)
		if err != nil {
			return bitstream.FieldSpec{}, err
		}
		return bitstream.StringSpec(bitstream.PrefixedField(charWidth(wide), widthCodes[code])), nil
	}
}

// EncodeFields packs fields into a byte-aligned payload.
func EncodeFields(fields []Field) ([]byte, error) {
	w := bitstream.NewWriter()
	if err := w.WriteCompactUint(uint64(len(fields)), bitstream.Width32); err != nil {
		return nil, err
	}
	for _, f := range fields {
		if err := WriteField(w, f); err != nil {
			return nil, err
		}
	}
	return w.Finalize()
}

// DecodeFields unpacks a payload produced by EncodeFields.
func DecodeFields(payload []byte, limits Limits) ([]Field, error) {
	r := bitstream.NewReader(payload, bitstream.Locked, bitstream.WithLimits(limits.Codec))
	count, err := r.ReadCompactUint(bitstream.Width32)
	if err != nil {
		return nil, err
	}
	if limits.MaxFields > 0 && count > uint64(limits.MaxFields) {
		return nil, fmt.Errorf("%w: %d above %d", ErrTooManyFields, count, limits.MaxFields)
	}
	fields := make([]Field, 0, min(count, 64))
	for i := uint64(0); i < count; i++ {
		f, err := ReadField(r)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	if err := r.AlignRead(); err != nil {
		return nil, err
	}
	if !r.AllRead() {
		return nil, fmt.Errorf("%w: %d bits", ErrTrailingData, r.Remaining())
	}
	return fields, nil
}

func GetField(fields []Field, id uint16) (Field, bool) {
	for _, f := range fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}
