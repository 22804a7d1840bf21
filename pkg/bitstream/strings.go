package bitstream

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// CharWidth is the size in bytes of one text code unit.
type CharWidth uint8

const (
	// Narrow text uses one byte per character, taken verbatim from the Go string.
	Narrow CharWidth = 1
	// Wide text uses UTF-16 little-endian code units.
	Wide CharWidth = 2
)

// StringMode selects how a text field is framed.
type StringMode uint8

const (
	// Allocated fields reserve a fixed number of characters, NUL terminated
	// and zero padded.
	Allocated StringMode = iota
	// LengthPrefixed fields carry a compact character count and no terminator.
	LengthPrefixed
)

func (m StringMode) String() string {
	switch m {
	case Allocated:
		return "allocated"
	case LengthPrefixed:
		return "prefixed"
	default:
		return fmt.Sprintf("StringMode(%d)", uint8(m))
	}
}

// StringField describes the encoding of one text field.
type StringField struct {
	Char            CharWidth
	Mode            StringMode
	AllocatedLength int   // characters reserved, Allocated only
	LengthWidth     Width // count width, LengthPrefixed only
}

// AllocatedField describes a fixed-capacity field of length characters.
func AllocatedField(char CharWidth, length int) StringField {
	return StringField{Char: char, Mode: Allocated, AllocatedLength: length}
}

// PrefixedField describes a field preceded by a compact count of the given width.
func PrefixedField(char CharWidth, width Width) StringField {
	return StringField{Char: char, Mode: LengthPrefixed, LengthWidth: width}
}

func (f StringField) validate() error {
	if f.Char != Narrow && f.Char != Wide {
		return fmt.Errorf("%w: character width %d", ErrInvalidWidth, f.Char)
	}
	switch f.Mode {
	case Allocated:
		if f.AllocatedLength < 0 {
			return fmt.Errorf("%w: allocated length %d", ErrFieldTooSmall, f.AllocatedLength)
		}
		return nil
	case LengthPrefixed:
		return f.LengthWidth.check()
	default:
		return fmt.Errorf("%w: string mode %d", ErrUnknownKind, f.Mode)
	}
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func encodeText(text string, char CharWidth) ([]byte, error) {
	if char == Narrow {
		return []byte(text), nil
	}
	return utf16le.NewEncoder().Bytes([]byte(text))
}

func decodeText(units []byte, char CharWidth) (string, error) {
	if char == Narrow {
		return string(units), nil
	}
	out, err := utf16le.NewDecoder().Bytes(units)
	return string(out), err
}

// terminatorAt returns the index of the first all-zero character in units.
func terminatorAt(units []byte, char CharWidth) int {
	step := int(char)
	for i := 0; i+step <= len(units); i += step {
		zero := true
		for _, b := range units[i : i+step] {
			if b != 0 {
				zero = false
				break
			}
		}
		if zero {
			return i / step
		}
	}
	return -1
}

// WriteString writes text using field. Nothing is written when it fails.
func (w *Writer) WriteString(text string, field StringField) error {
	if err := w.writable("write string"); err != nil {
		return err
	}
	if err := field.validate(); err != nil {
		return err
	}
	units, err := encodeText(text, field.Char)
	if err != nil {
		return fmt.Errorf("bitstream: encode text: %w", err)
	}
	count := len(units) / int(field.Char)

	switch field.Mode {
	case Allocated:
		if count+1 > field.AllocatedLength {
			return fmt.Errorf("%w: %d characters plus terminator exceed allocated %d",
				ErrFieldTooSmall, count, field.AllocatedLength)
		}
		if terminatorAt(units, field.Char) >= 0 {
			return ErrEmbeddedTerminator
		}
		w.buf.appendBytes(units)
		w.buf.appendBytes(make([]byte, (field.AllocatedLength-count)*int(field.Char)))
	case LengthPrefixed:
		if uint64(count)&^field.LengthWidth.mask() != 0 {
			return fmt.Errorf("%w: %d characters overflow %d-bit length",
				ErrFieldTooSmall, count, field.LengthWidth)
		}
		w.encodeCompact(uint64(count), field.LengthWidth)
		w.buf.appendBytes(units)
	}
	return nil
}

// ReadString reads a text field written with the same descriptor.
func (r *Reader) ReadString(field StringField) (string, error) {
	if err := field.validate(); err != nil {
		return "", err
	}
	var text string
	err := r.atomic("read string", func() error {
		var err error
		switch field.Mode {
		case Allocated:
			text, err = r.readAllocated(field)
		default:
			text, err = r.readPrefixed(field)
		}
		return err
	})
	return text, err
}

func (r *Reader) readAllocated(field StringField) (string, error) {
	n := field.AllocatedLength
	if limit := r.limits.MaxAllocatedLength; limit > 0 && n > limit {
		return "", fmt.Errorf("%w: allocated length %d above %d", ErrLimitExceeded, n, limit)
	}
	if avail := r.Remaining() / 8 / int(field.Char); n > avail {
		return "", fmt.Errorf("%w: read string needs %d characters, %d bits remain",
			ErrEndOfData, n, r.Remaining())
	}
	units, err := r.ReadBytes(n * int(field.Char))
	if err != nil {
		return "", err
	}
	end := terminatorAt(units, field.Char)
	if end < 0 {
		return "", fmt.Errorf("%w: none within %d characters", ErrMissingTerminator, n)
	}
	return decodeText(units[:end*int(field.Char)], field.Char)
}

func (r *Reader) readPrefixed(field StringField) (string, error) {
	count, err := r.decodeCompact(field.LengthWidth)
	if err != nil {
		return "", err
	}
	if limit := r.limits.MaxPrefixedLength; limit > 0 && count > uint64(limit) {
		return "", fmt.Errorf("%w: prefixed length %d above %d", ErrLimitExceeded, count, limit)
	}
	if avail := uint64(r.Remaining()) / 8 / uint64(field.Char); count > avail {
		return "", fmt.Errorf("%w: read string needs %d characters, %d bits remain",
			ErrEndOfData, count, r.Remaining())
	}
	units, err := r.ReadBytes(int(count) * int(field.Char))
	if err != nil {
		return "", err
	}
	return decodeText(units, field.Char)
}
