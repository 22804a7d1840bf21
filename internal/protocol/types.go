package protocol

import (
	"github.com/danmuck/bitstream/internal/protocol/frame"
	"github.com/danmuck/bitstream/internal/protocol/tlv"
)

const (
	Magic   uint32 = 0xB175C0DE
	Version uint16 = 1
)

// MessageType identifies a message body.
type MessageType uint32

const (
	MessageCommand MessageType = 1
	MessageEvent   MessageType = 2
	MessageReport  MessageType = 3
	MessageError   MessageType = 4
)

// Message is a decoded frame whose payload is a tlv field list.
type Message struct {
	ID        uint64
	Type      MessageType
	Response  bool
	Error     bool
	AuthBlock []byte
	Fields    []tlv.Field
}

// Codec holds the expected frame identity and decode limits.
type Codec struct {
	Magic       uint32
	Version     uint16
	FrameLimits frame.Limits
	FieldLimits tlv.Limits
}

func DefaultCodec() Codec {
	return Codec{
		Magic:       Magic,
		Version:     Version,
		FrameLimits: frame.DefaultLimits(),
		FieldLimits: tlv.DefaultLimits(),
	}
}
