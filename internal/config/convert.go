package config

import (
	"github.com/danmuck/bitstream/internal/logging"
	"github.com/danmuck/bitstream/internal/protocol"
	"github.com/danmuck/bitstream/internal/protocol/frame"
	"github.com/danmuck/bitstream/internal/protocol/tlv"
	"github.com/danmuck/bitstream/pkg/bitstream"
)

// The converters assume a config that passed Validate.

func (c Config) CodecLimits() bitstream.Limits {
	return bitstream.Limits{
		MaxAllocatedLength: c.Codec.MaxAllocatedLength,
		MaxPrefixedLength:  c.Codec.MaxPrefixedLength,
	}
}

func (c Config) LengthWidth() bitstream.Width {
	return bitstream.Width(c.Codec.LengthWidth)
}

func (c Config) CharWidth() bitstream.CharWidth {
	return bitstream.CharWidth(c.Codec.CharWidth)
}

func (c Config) FrameLimits() frame.Limits {
	return frame.Limits{
		MaxAuthBytes:    c.Frame.MaxAuthBytes,
		MaxPayloadBytes: c.Frame.MaxPayloadBytes,
	}
}

func (c Config) FieldLimits() tlv.Limits {
	return tlv.Limits{
		MaxFields: c.Codec.MaxFields,
		Codec:     c.CodecLimits(),
	}
}

func (c Config) ProtocolCodec() protocol.Codec {
	return protocol.Codec{
		Magic:       c.Frame.Magic,
		Version:     c.Frame.Version,
		FrameLimits: c.FrameLimits(),
		FieldLimits: c.FieldLimits(),
	}
}

func (c Config) Logging() logging.Config {
	level, _ := logging.ParseLevel(c.Log.Level)
	return logging.Config{
		Level:     level,
		Timestamp: c.Log.Timestamp,
		NoColor:   c.Log.NoColor,
	}
}
