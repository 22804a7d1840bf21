package bitstream

import "fmt"

// Width is the declared size in bits of an integer container.
type Width uint8

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// ParseWidth maps a bit count to a supported Width.
func ParseWidth(bits int) (Width, error) {
	w := Width(bits)
	if bits < 0 || bits > 64 || !w.Valid() {
		return 0, fmt.Errorf("%w: %d-bit integers are not supported", ErrInvalidWidth, bits)
	}
	return w, nil
}

func (w Width) Valid() bool {
	switch w {
	case Width8, Width16, Width32, Width64:
		return true
	default:
		return false
	}
}

// Bytes returns the container size in bytes.
func (w Width) Bytes() int {
	return int(w) / 8
}

func (w Width) mask() uint64 {
	if w == Width64 {
		return ^uint64(0)
	}
	return 1<<uint(w) - 1
}

func (w Width) check() error {
	if !w.Valid() {
		return fmt.Errorf("%w: %d-bit integers are not supported", ErrInvalidWidth, w)
	}
	return nil
}
