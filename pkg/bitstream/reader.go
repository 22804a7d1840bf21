package bitstream

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// Reader consumes bits from a byte sequence it never modifies. A failed
// read leaves the cursor where it was.
type Reader struct {
	cur    cursor
	mode   LockMode
	limits Limits
	log    zerolog.Logger
}

func NewReader(data []byte, mode LockMode, opts ...Option) *Reader {
	return newReader(wrapBitBuffer(data), mode, buildOptions(opts))
}

func newReader(buf *bitBuffer, mode LockMode, o options) *Reader {
	return &Reader{
		cur:    cursor{buf: buf},
		mode:   mode,
		limits: o.limits,
		log:    o.logger,
	}
}

func (r *Reader) Mode() LockMode {
	return r.mode
}

// ReadOffset returns the cursor in bits. Unlocked readers only.
func (r *Reader) ReadOffset() (int, error) {
	if err := r.mode.guard("get read offset"); err != nil {
		return 0, err
	}
	return r.cur.off, nil
}

// SetReadOffset moves the cursor to off bits. Unlocked readers only.
func (r *Reader) SetReadOffset(off int) error {
	if err := r.mode.guard("set read offset"); err != nil {
		return err
	}
	if off < 0 || off > r.cur.buf.Len() {
		return fmt.Errorf("%w: %d not in 0..%d", ErrOffsetRange, off, r.cur.buf.Len())
	}
	r.cur.off = off
	return nil
}

// Remaining reports the unread bit count.
func (r *Reader) Remaining() int {
	return r.cur.remaining()
}

// AllRead reports whether the cursor sits at the end of the data.
func (r *Reader) AllRead() bool {
	return r.cur.remaining() == 0
}

func (r *Reader) SkipRead(nBytes int) error {
	if nBytes < 0 {
		return fmt.Errorf("%w: cannot skip %d bytes", ErrOffsetRange, nBytes)
	}
	_, err := r.cur.takeBytes("skip read", nBytes)
	return err
}

// AlignRead advances to the next byte boundary.
func (r *Reader) AlignRead() error {
	_, err := r.cur.take("align read", alignment(r.cur.off))
	return err
}

// ReadRemaining returns everything after the cursor and leaves the reader
// fully read. From an unaligned cursor the bits are repacked from the
// cursor onward and the final partial byte is zero padded.
func (r *Reader) ReadRemaining() ([]byte, error) {
	start := r.cur.off
	rem := r.cur.remaining()
	r.cur.off = r.cur.buf.Len()
	out := make([]byte, (rem+7)/8)
	r.cur.buf.copyAt(start, out[:rem/8])
	if tail := rem & 7; tail > 0 {
		v := r.cur.buf.bitsAt(start+rem-tail, tail)
		out[len(out)-1] = byte(v << uint(8-tail))
	}
	return out, nil
}

// ReadBits reads n bits, most significant first.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if n < 0 || n > 64 {
		return 0, fmt.Errorf("%w: bit count %d outside 0..64", ErrInvalidWidth, n)
	}
	start, err := r.cur.take("read bits", n)
	if err != nil {
		return 0, err
	}
	return r.cur.buf.bitsAt(start, n), nil
}

func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadBits(1)
	return v == 1, err
}

// ReadBytes reads n raw bytes from the current bit offset.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: byte count %d", ErrInvalidWidth, n)
	}
	start, err := r.cur.takeBytes("read bytes", n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	r.cur.buf.copyAt(start, out)
	return out, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	v, err := r.ReadBits(8)
	return uint8(v), err
}

func (r *Reader) ReadUint16() (uint16, error) {
	v, err := r.ReadBits(16)
	return uint16(v), err
}

func (r *Reader) ReadUint32() (uint32, error) {
	v, err := r.ReadBits(32)
	return uint32(v), err
}

func (r *Reader) ReadUint64() (uint64, error) {
	return r.ReadBits(64)
}

func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadBits(8)
	return int8(uint8(v)), err
}

func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadBits(16)
	return int16(uint16(v)), err
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadBits(32)
	return int32(uint32(v)), err
}

func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadBits(64)
	return int64(v), err
}

func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadBits(32)
	return math.Float32frombits(uint32(v)), err
}

func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadBits(64)
	return math.Float64frombits(v), err
}

// Deserializer is the reading counterpart of Serializer.
type Deserializer interface {
	Deserialize(r *Reader) error
}

// ReadValue runs d against the reader and rewinds on failure.
func (r *Reader) ReadValue(d Deserializer) error {
	return r.atomic("read value", func() error {
		return d.Deserialize(r)
	})
}

// atomic restores the cursor when fn fails part way through a composite read.
func (r *Reader) atomic(op string, fn func() error) error {
	start := r.cur.off
	if err := fn(); err != nil {
		r.cur.off = start
		r.log.Debug().Err(err).Str("op", op).Int("offset", start).Msg("bitstream: read failed")
		return err
	}
	return nil
}
