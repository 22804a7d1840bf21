package bitstream

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// Writer accumulates a message bit by bit. Finalize hands out the bytes
// exactly once; every call after that fails with ErrAccessViolation.
type Writer struct {
	buf       *bitBuffer
	finalized bool
	log       zerolog.Logger
}

func NewWriter(opts ...Option) *Writer {
	o := buildOptions(opts)
	return newWriter(newBitBuffer(o.capacity), o)
}

func newWriter(buf *bitBuffer, o options) *Writer {
	return &Writer{buf: buf, log: o.logger}
}

// BitLen reports the number of bits written so far.
func (w *Writer) BitLen() int {
	return w.buf.Len()
}

func (w *Writer) writable(op string) error {
	if w.finalized {
		return fmt.Errorf("%w: %s on finalized writer", ErrAccessViolation, op)
	}
	return nil
}

// WriteBits writes the n low-order bits of v, most significant first.
func (w *Writer) WriteBits(v uint64, n int) error {
	if err := w.writable("write bits"); err != nil {
		return err
	}
	if n < 0 || n > 64 {
		return fmt.Errorf("%w: bit count %d outside 0..64", ErrInvalidWidth, n)
	}
	w.buf.appendBits(v, n)
	return nil
}

func (w *Writer) WriteBool(b bool) error {
	var v uint64
	if b {
		v = 1
	}
	return w.WriteBits(v, 1)
}

// AlignWrite pads with zero bits up to the next byte boundary.
func (w *Writer) AlignWrite() error {
	if err := w.writable("align write"); err != nil {
		return err
	}
	w.buf.appendBits(0, alignment(w.buf.Len()))
	return nil
}

// WriteBytes appends p at the current bit offset, aligned or not.
func (w *Writer) WriteBytes(p []byte) error {
	if err := w.writable("write bytes"); err != nil {
		return err
	}
	w.buf.appendBytes(p)
	return nil
}

func (w *Writer) WriteUint8(v uint8) error   { return w.WriteBits(uint64(v), 8) }
func (w *Writer) WriteUint16(v uint16) error { return w.WriteBits(uint64(v), 16) }
func (w *Writer) WriteUint32(v uint32) error { return w.WriteBits(uint64(v), 32) }
func (w *Writer) WriteUint64(v uint64) error { return w.WriteBits(v, 64) }

func (w *Writer) WriteInt8(v int8) error   { return w.WriteBits(uint64(uint8(v)), 8) }
func (w *Writer) WriteInt16(v int16) error { return w.WriteBits(uint64(uint16(v)), 16) }
func (w *Writer) WriteInt32(v int32) error { return w.WriteBits(uint64(uint32(v)), 32) }
func (w *Writer) WriteInt64(v int64) error { return w.WriteBits(uint64(v), 64) }

func (w *Writer) WriteFloat32(f float32) error {
	return w.WriteBits(uint64(math.Float32bits(f)), 32)
}

func (w *Writer) WriteFloat64(f float64) error {
	return w.WriteBits(math.Float64bits(f), 64)
}

// Serializer is implemented by message types that know their own layout.
type Serializer interface {
	Serialize(w *Writer) error
}

func (w *Writer) WriteValue(s Serializer) error {
	if err := w.writable("write value"); err != nil {
		return err
	}
	return s.Serialize(w)
}

// Finalize zero-pads the trailing partial byte and returns the message.
func (w *Writer) Finalize() ([]byte, error) {
	if w.finalized {
		w.log.Debug().Msg("bitstream: finalize called twice")
		return nil, fmt.Errorf("%w: writer already finalized", ErrAccessViolation)
	}
	w.finalized = true
	pad := w.buf.padToByte()
	out := w.buf.data
	w.log.Trace().Int("bytes", len(out)).Int("pad_bits", pad).Msg("bitstream: writer finalized")
	return out, nil
}
