package protocol

import (
	"errors"
	"io"

	"github.com/danmuck/bitstream/internal/observability"
	"github.com/danmuck/bitstream/internal/protocol/frame"
	"github.com/danmuck/bitstream/internal/protocol/tlv"
	"github.com/danmuck/bitstream/pkg/bitstream"
)

// Decode unpacks a frame body produced by Encode.
func (c Codec) Decode(b []byte) (*Message, error) {
	f, err := frame.DecodeFrame(b, c.FrameLimits)
	if err != nil {
		return nil, c.failed(err)
	}
	return c.fromFrame(f, len(b))
}

// Read reads one length-prefixed message from r.
func (c Codec) Read(r io.Reader) (*Message, error) {
	b, err := frame.ReadFrameBytes(r, c.FrameLimits)
	if err != nil {
		return nil, c.failed(err)
	}
	return c.Decode(b)
}

func (c Codec) fromFrame(f frame.Frame, size int) (*Message, error) {
	h := f.Header
	if h.Magic != c.Magic {
		return nil, c.failed(ErrInvalidMagic)
	}
	if h.Version != c.Version {
		return nil, c.failed(ErrUnsupportedVersion)
	}
	fields, err := tlv.DecodeFields(f.Payload, c.FieldLimits)
	if err != nil {
		return nil, c.failed(err)
	}
	for _, fld := range fields {
		observability.RecordField(observability.DirectionDecode, fld.Spec.Kind.String())
	}
	observability.RecordFrame(observability.DirectionDecode, "ok", size)
	return &Message{
		ID:        h.MessageID,
		Type:      MessageType(h.MessageType),
		Response:  h.Flags&frame.FlagIsResponse != 0,
		Error:     h.Flags&frame.FlagIsError != 0,
		AuthBlock: f.Auth,
		Fields:    fields,
	}, nil
}

func (c Codec) failed(err error) error {
	r := reason(err)
	logger := observability.Logger("protocol")
	logger.Debug().Err(err).Str("reason", r).Msg("decode failed")
	observability.RecordFrame(observability.DirectionDecode, r, 0)
	return err
}

// reason maps an error to a low-cardinality metric label.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidMagic):
		return "magic"
	case errors.Is(err, ErrUnsupportedVersion):
		return "version"
	case errors.Is(err, bitstream.ErrEndOfData), errors.Is(err, frame.ErrShortPrefix):
		return "end_of_data"
	case errors.Is(err, bitstream.ErrLimitExceeded),
		errors.Is(err, frame.ErrFrameTooLarge),
		errors.Is(err, frame.ErrPayloadTooLarge),
		errors.Is(err, frame.ErrAuthTooLarge),
		errors.Is(err, tlv.ErrTooManyFields):
		return "limit"
	case errors.Is(err, bitstream.ErrMissingTerminator),
		errors.Is(err, tlv.ErrMalformedField),
		errors.Is(err, tlv.ErrTrailingData),
		errors.Is(err, frame.ErrTrailingData),
		errors.Is(err, frame.ErrHeaderLenMismatch):
		return "malformed"
	default:
		return "error"
	}
}
