package protocol

import (
	"io"

	"github.com/danmuck/bitstream/internal/observability"
	"github.com/danmuck/bitstream/internal/protocol/frame"
	"github.com/danmuck/bitstream/internal/protocol/tlv"
)

// Encode packs msg into a frame body.
func (c Codec) Encode(msg *Message) ([]byte, error) {
	b, err := c.encode(msg)
	if err != nil {
		observability.RecordFrame(observability.DirectionEncode, reason(err), 0)
		return nil, err
	}
	observability.RecordFrame(observability.DirectionEncode, "ok", len(b))
	return b, nil
}

func (c Codec) encode(msg *Message) ([]byte, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}
	payload, err := tlv.EncodeFields(msg.Fields)
	if err != nil {
		return nil, err
	}
	for _, f := range msg.Fields {
		observability.RecordField(observability.DirectionEncode, f.Spec.Kind.String())
	}
	return frame.EncodeFrame(c.toFrame(msg, payload), c.FrameLimits)
}

// Write encodes msg to w behind a length prefix.
func (c Codec) Write(w io.Writer, msg *Message) error {
	b, err := c.encode(msg)
	if err == nil {
		err = frame.WriteFrameBytes(w, b)
	}
	if err != nil {
		observability.RecordFrame(observability.DirectionEncode, reason(err), 0)
		return err
	}
	observability.RecordFrame(observability.DirectionEncode, "ok", len(b))
	return nil
}

func (c Codec) toFrame(msg *Message, payload []byte) frame.Frame {
	var flags uint8
	if msg.Response {
		flags |= frame.FlagIsResponse
	}
	if msg.Error {
		flags |= frame.FlagIsError
	}
	return frame.Frame{
		Header: frame.Header{
			Magic:       c.Magic,
			Version:     c.Version,
			MessageID:   msg.ID,
			MessageType: uint32(msg.Type),
			Flags:       flags,
		},
		Auth:    msg.AuthBlock,
		Payload: payload,
	}
}
