package bitstream

import "fmt"

// Compact integers drop leading zero bytes. For a k-byte width, each of the
// first k-1 bytes (most significant first) costs one flag bit: 0 means the
// byte is zero and omitted, 1 means this byte and all lower bytes follow
// literally. The lowest byte is always literal.
//
//	width 32, value 42     -> 0 0 0 00101010
//	width 32, value 65536  -> 0 1 00000001 00000000 00000000

// WriteCompactUint writes v as a compact integer of the given width.
func (w *Writer) WriteCompactUint(v uint64, width Width) error {
	if err := w.writable("write compact"); err != nil {
		return err
	}
	if err := width.check(); err != nil {
		return err
	}
	if v&^width.mask() != 0 {
		return fmt.Errorf("%w: %d overflows %d-bit compact integer", ErrInvalidWidth, v, width)
	}
	w.encodeCompact(v, width)
	return nil
}

// WriteCompactInt writes the two's-complement pattern of v at the given width.
func (w *Writer) WriteCompactInt(v int64, width Width) error {
	if err := w.writable("write compact"); err != nil {
		return err
	}
	if err := width.check(); err != nil {
		return err
	}
	if width < Width64 {
		lo, hi := -int64(1)<<(width-1), int64(1)<<(width-1)-1
		if v < lo || v > hi {
			return fmt.Errorf("%w: %d overflows %d-bit compact integer", ErrInvalidWidth, v, width)
		}
	}
	w.encodeCompact(uint64(v)&width.mask(), width)
	return nil
}

func (w *Writer) encodeCompact(v uint64, width Width) {
	for i := width.Bytes() - 1; i > 0; i-- {
		if (v>>(8*uint(i)))&0xff == 0 {
			w.buf.appendBits(0, 1)
			continue
		}
		w.buf.appendBits(1, 1)
		w.buf.appendBits(v, 8*(i+1))
		return
	}
	w.buf.appendBits(v, 8)
}

// ReadCompactUint reads a compact integer written with the same width.
func (r *Reader) ReadCompactUint(width Width) (uint64, error) {
	if err := width.check(); err != nil {
		return 0, err
	}
	var v uint64
	err := r.atomic("read compact", func() error {
		var err error
		v, err = r.decodeCompact(width)
		return err
	})
	return v, err
}

// ReadCompactInt reads a compact integer and sign-extends it from width.
func (r *Reader) ReadCompactInt(width Width) (int64, error) {
	v, err := r.ReadCompactUint(width)
	if err != nil {
		return 0, err
	}
	if width < Width64 && v&(1<<(width-1)) != 0 {
		v |= ^width.mask()
	}
	return int64(v), nil
}

func (r *Reader) decodeCompact(width Width) (uint64, error) {
	for i := width.Bytes() - 1; i > 0; i-- {
		flag, err := r.ReadBits(1)
		if err != nil {
			return 0, err
		}
		if flag == 1 {
			return r.ReadBits(8 * (i + 1))
		}
	}
	return r.ReadBits(8)
}
