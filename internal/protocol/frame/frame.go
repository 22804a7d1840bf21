package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/danmuck/bitstream/pkg/bitstream"
)

// Wire layout, MSB-first:
//
//	magic        32 raw bits
//	version      compact16
//	message id   compact64
//	message type compact32
//	flags        3 raw bits, then zero padding to a byte boundary
//	auth         compact32 length + bytes, present only with FlagHasAuth
//	payload      compact64 length + bytes
//
// WriteFrame and ReadFrame put a 4-byte big-endian length in front of that.

const (
	FlagHasAuth    uint8 = 0x01
	FlagIsResponse uint8 = 0x02
	FlagIsError    uint8 = 0x04

	flagBits  = 3
	prefixLen = 4
	// maxHeaderBytes covers magic, the three compact integers, flags and both
	// length prefixes at their widest.
	maxHeaderBytes = 4 + 3 + 9 + 5 + 1 + 5 + 9
)

var (
	ErrShortPrefix       = errors.New("frame: short length prefix")
	ErrFrameTooLarge     = errors.New("frame: frame too large")
	ErrPayloadTooLarge   = errors.New("frame: payload too large")
	ErrAuthTooLarge      = errors.New("frame: auth too large")
	ErrHeaderLenMismatch = errors.New("frame: auth flag and auth bytes disagree")
	ErrTrailingData      = errors.New("frame: trailing data after payload")
)

// Header is the frame header.
type Header struct {
	Magic       uint32
	Version     uint16
	MessageID   uint64
	MessageType uint32
	Flags       uint8
}

// Frame is one complete wire message.
type Frame struct {
	Header  Header
	Auth    []byte
	Payload []byte
}

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxAuthBytes    uint64
	MaxPayloadBytes uint64
}

func DefaultLimits() Limits {
	return Limits{
		MaxAuthBytes:    64 * 1024,
		MaxPayloadBytes: 8 * 1024 * 1024,
	}
}

// MaxFrameBytes is the largest encoded frame the limits allow.
// It saturates at math.MaxUint64.
func (l Limits) MaxFrameBytes() uint64 {
	total := uint64(maxHeaderBytes)
	for _, n := range []uint64{l.MaxAuthBytes, l.MaxPayloadBytes} {
		if n > math.MaxUint64-total {
			return math.MaxUint64
		}
		total += n
	}
	return total
}

func (l Limits) check(authLen, payloadLen uint64) error {
	if authLen > l.MaxAuthBytes {
		return fmt.Errorf("%w: %d bytes", ErrAuthTooLarge, authLen)
	}
	if payloadLen > l.MaxPayloadBytes {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, payloadLen)
	}
	return nil
}

// Serialize writes the header fields. The writer is left byte aligned.
func (h Header) Serialize(w *bitstream.Writer) error {
	if err := w.WriteUint32(h.Magic); err != nil {
		return err
	}
	if err := w.WriteCompactUint(uint64(h.Version), bitstream.Width16); err != nil {
		return err
	}
	if err := w.WriteCompactUint(h.MessageID, bitstream.Width64); err != nil {
		return err
	}
	if err := w.WriteCompactUint(uint64(h.MessageType), bitstream.Width32); err != nil {
		return err
	}
	if err := w.WriteBits(uint64(h.Flags), flagBits); err != nil {
		return err
	}
	return w.AlignWrite()
}

func (h *Header) Deserialize(r *bitstream.Reader) error {
	magic, err := r.ReadUint32()
	if err != nil {
		return err
	}
	version, err := r.ReadCompactUint(bitstream.Width16)
	if err != nil {
		return err
	}
	id, err := r.ReadCompactUint(bitstream.Width64)
	if err != nil {
		return err
	}
	typ, err := r.ReadCompactUint(bitstream.Width32)
	if err != nil {
		return err
	}
	flags, err := r.ReadBits(flagBits)
	if err != nil {
		return err
	}
	if err := r.AlignRead(); err != nil {
		return err
	}
	*h = Header{
		Magic:       magic,
		Version:     uint16(version),
		MessageID:   id,
		MessageType: uint32(typ),
		Flags:       uint8(flags),
	}
	return nil
}

// EncodeFrame packs f. FlagHasAuth is derived from the presence of auth bytes.
func EncodeFrame(f Frame, limits Limits) ([]byte, error) {
	authLen := uint64(len(f.Auth))
	payloadLen := uint64(len(f.Payload))
	if err := limits.check(authLen, payloadLen); err != nil {
		return nil, err
	}

	h := f.Header
	if authLen > 0 {
		h.Flags |= FlagHasAuth
	} else {
		h.Flags &^= FlagHasAuth
	}

	w := bitstream.NewWriter(bitstream.WithCapacity(maxHeaderBytes + len(f.Auth) + len(f.Payload)))
	if err := w.WriteValue(h); err != nil {
		return nil, err
	}
	if authLen > 0 {
		if err := w.WriteCompactUint(authLen, bitstream.Width32); err != nil {
			return nil, err
		}
		if err := w.WriteBytes(f.Auth); err != nil {
			return nil, err
		}
	}
	if err := w.WriteCompactUint(payloadLen, bitstream.Width64); err != nil {
		return nil, err
	}
	if err := w.WriteBytes(f.Payload); err != nil {
		return nil, err
	}
	return w.Finalize()
}

// DecodeFrame unpacks exactly one frame from b.
func DecodeFrame(b []byte, limits Limits) (Frame, error) {
	r := bitstream.NewReader(b, bitstream.Locked)

	var h Header
	if err := r.ReadValue(&h); err != nil {
		return Frame{}, err
	}

	var auth []byte
	if h.Flags&FlagHasAuth != 0 {
		authLen, err := r.ReadCompactUint(bitstream.Width32)
		if err != nil {
			return Frame{}, err
		}
		if authLen == 0 {
			return Frame{}, ErrHeaderLenMismatch
		}
		if err := limits.check(authLen, 0); err != nil {
			return Frame{}, err
		}
		if auth, err = readBlock(r, authLen); err != nil {
			return Frame{}, err
		}
	}

	payloadLen, err := r.ReadCompactUint(bitstream.Width64)
	if err != nil {
		return Frame{}, err
	}
	if err := limits.check(0, payloadLen); err != nil {
		return Frame{}, err
	}
	payload, err := readBlock(r, payloadLen)
	if err != nil {
		return Frame{}, err
	}
	if err := r.AlignRead(); err != nil {
		return Frame{}, err
	}
	if !r.AllRead() {
		return Frame{}, fmt.Errorf("%w: %d bits", ErrTrailingData, r.Remaining())
	}
	return Frame{Header: h, Auth: auth, Payload: payload}, nil
}

// readBlock reads a length-declared block, failing before allocation when
// fewer than n bytes remain.
func readBlock(r *bitstream.Reader, n uint64) ([]byte, error) {
	if have := uint64(r.Remaining() / 8); n > have {
		return nil, fmt.Errorf("%w: frame block of %d bytes, %d remain", bitstream.ErrEndOfData, n, have)
	}
	return r.ReadBytes(int(n))
}

// WriteFrame writes f to w behind a 4-byte length prefix.
func WriteFrame(w io.Writer, f Frame, limits Limits) error {
	body, err := EncodeFrame(f, limits)
	if err != nil {
		return err
	}
	return WriteFrameBytes(w, body)
}

// WriteFrameBytes writes an already encoded frame behind its length prefix.
func WriteFrameBytes(w io.Writer, body []byte) error {
	if uint64(len(body)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(body))
	}
	var prefix [prefixLen]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(body)))
	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

// ReadFrame reads one length-prefixed frame from r.
func ReadFrame(r io.Reader, limits Limits) (Frame, error) {
	body, err := ReadFrameBytes(r, limits)
	if err != nil {
		return Frame{}, err
	}
	return DecodeFrame(body, limits)
}

// ReadFrameBytes reads one length-prefixed frame body from r without
// decoding it.
func ReadFrameBytes(r io.Reader, limits Limits) ([]byte, error) {
	var prefix [prefixLen]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, ErrShortPrefix
		}
		return nil, err
	}
	size := uint64(binary.BigEndian.Uint32(prefix[:]))
	if size > limits.MaxFrameBytes() {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %v", bitstream.ErrEndOfData, err)
		}
		return nil, err
	}
	return body, nil
}
