package bitstream

import "fmt"

// FieldKind is the closed set of value encodings a field can use.
type FieldKind uint8

const (
	KindRawBits FieldKind = iota
	KindCompactInt
	KindAllocatedString
	KindPrefixedString
)

func (k FieldKind) String() string {
	switch k {
	case KindRawBits:
		return "raw_bits"
	case KindCompactInt:
		return "compact_int"
	case KindAllocatedString:
		return "allocated_string"
	case KindPrefixedString:
		return "prefixed_string"
	default:
		return fmt.Sprintf("FieldKind(%d)", uint8(k))
	}
}

// FieldSpec carries the parameters of one field encoding. Only the members
// relevant to Kind are consulted.
type FieldSpec struct {
	Kind   FieldKind
	Bits   int         // KindRawBits
	Width  Width       // KindCompactInt
	Signed bool        // KindCompactInt
	String StringField // KindAllocatedString, KindPrefixedString
}

func RawBitsSpec(bits int) FieldSpec {
	return FieldSpec{Kind: KindRawBits, Bits: bits}
}

func CompactSpec(width Width, signed bool) FieldSpec {
	return FieldSpec{Kind: KindCompactInt, Width: width, Signed: signed}
}

// StringSpec picks the string kind matching field.Mode.
func StringSpec(field StringField) FieldSpec {
	kind := KindAllocatedString
	if field.Mode == LengthPrefixed {
		kind = KindPrefixedString
	}
	return FieldSpec{Kind: kind, String: field}
}

// Value is a decoded field. Uint holds raw bits and unsigned compact
// integers, Int signed compact integers, Text both string kinds.
type Value struct {
	Kind FieldKind
	Uint uint64
	Int  int64
	Text string
}

func (v Value) String() string {
	switch v.Kind {
	case KindRawBits:
		return fmt.Sprintf("%#x", v.Uint)
	case KindCompactInt:
		if v.Int != 0 {
			return fmt.Sprintf("%d", v.Int)
		}
		return fmt.Sprintf("%d", v.Uint)
	default:
		return v.Text
	}
}

func (s FieldSpec) stringField() StringField {
	f := s.String
	if s.Kind == KindAllocatedString {
		f.Mode = Allocated
	} else {
		f.Mode = LengthPrefixed
	}
	return f
}

// WriteField writes v using the encoding spec names.
func (w *Writer) WriteField(spec FieldSpec, v Value) error {
	switch spec.Kind {
	case KindRawBits:
		return w.WriteBits(v.Uint, spec.Bits)
	case KindCompactInt:
		if spec.Signed {
			return w.WriteCompactInt(v.Int, spec.Width)
		}
		return w.WriteCompactUint(v.Uint, spec.Width)
	case KindAllocatedString, KindPrefixedString:
		return w.WriteString(v.Text, spec.stringField())
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, spec.Kind)
	}
}

// ReadField reads one field using the encoding spec names.
func (r *Reader) ReadField(spec FieldSpec) (Value, error) {
	out := Value{Kind: spec.Kind}
	var err error
	switch spec.Kind {
	case KindRawBits:
		out.Uint, err = r.ReadBits(spec.Bits)
	case KindCompactInt:
		if spec.Signed {
			out.Int, err = r.ReadCompactInt(spec.Width)
		} else {
			out.Uint, err = r.ReadCompactUint(spec.Width)
		}
	case KindAllocatedString, KindPrefixedString:
		out.Text, err = r.ReadString(spec.stringField())
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownKind, spec.Kind)
	}
	if err != nil {
		return Value{}, err
	}
	return out, nil
}
