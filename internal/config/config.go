package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/bitstream/internal/logging"
	"github.com/danmuck/bitstream/internal/protocol"
	"github.com/danmuck/bitstream/internal/protocol/frame"
	"github.com/danmuck/bitstream/internal/protocol/tlv"
	"github.com/danmuck/bitstream/pkg/bitstream"
)

// maxBlockBytes caps frame blocks at what a 4-byte length prefix can carry.
const maxBlockBytes = math.MaxUint32

type Config struct {
	Log   LogConfig   `toml:"log"`
	Codec CodecConfig `toml:"codec"`
	Frame FrameConfig `toml:"frame"`
}

type LogConfig struct {
	Level     string `toml:"level"`
	Timestamp bool   `toml:"timestamp"`
	NoColor   bool   `toml:"no_color"`
}

type CodecConfig struct {
	MaxAllocatedLength int `toml:"max_allocated_length"`
	MaxPrefixedLength  int `toml:"max_prefixed_length"`
	MaxFields          int `toml:"max_fields"`
	LengthWidth        int `toml:"length_width"`
	CharWidth          int `toml:"char_width"`
}

type FrameConfig struct {
	Magic           uint32 `toml:"magic"`
	Version         uint16 `toml:"version"`
	MaxAuthBytes    uint64 `toml:"max_auth_bytes"`
	MaxPayloadBytes uint64 `toml:"max_payload_bytes"`
}

func Default() Config {
	codecLimits := bitstream.DefaultLimits()
	frameLimits := frame.DefaultLimits()
	return Config{
		Log: LogConfig{
			Level:     "info",
			Timestamp: true,
		},
		Codec: CodecConfig{
			MaxAllocatedLength: codecLimits.MaxAllocatedLength,
			MaxPrefixedLength:  codecLimits.MaxPrefixedLength,
			MaxFields:          tlv.DefaultLimits().MaxFields,
			LengthWidth:        int(bitstream.Width32),
			CharWidth:          int(bitstream.Narrow),
		},
		Frame: FrameConfig{
			Magic:           protocol.Magic,
			Version:         protocol.Version,
			MaxAuthBytes:    frameLimits.MaxAuthBytes,
			MaxPayloadBytes: frameLimits.MaxPayloadBytes,
		},
	}
}

// Load reads path and overrides only the keys it defines onto Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %s", path, undecoded[0])
	}

	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("log", "timestamp") {
		cfg.Log.Timestamp = raw.Log.Timestamp
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}

	if meta.IsDefined("codec", "max_allocated_length") {
		cfg.Codec.MaxAllocatedLength = raw.Codec.MaxAllocatedLength
	}
	if meta.IsDefined("codec", "max_prefixed_length") {
		cfg.Codec.MaxPrefixedLength = raw.Codec.MaxPrefixedLength
	}
	if meta.IsDefined("codec", "max_fields") {
		cfg.Codec.MaxFields = raw.Codec.MaxFields
	}
	if meta.IsDefined("codec", "length_width") {
		cfg.Codec.LengthWidth = raw.Codec.LengthWidth
	}
	if meta.IsDefined("codec", "char_width") {
		cfg.Codec.CharWidth = raw.Codec.CharWidth
	}

	if meta.IsDefined("frame", "magic") {
		cfg.Frame.Magic = raw.Frame.Magic
	}
	if meta.IsDefined("frame", "version") {
		cfg.Frame.Version = raw.Frame.Version
	}
	if meta.IsDefined("frame", "max_auth_bytes") {
		cfg.Frame.MaxAuthBytes = raw.Frame.MaxAuthBytes
	}
	if meta.IsDefined("frame", "max_payload_bytes") {
		cfg.Frame.MaxPayloadBytes = raw.Frame.MaxPayloadBytes
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		return fmt.Errorf("log.level %q is not a known level", cfg.Log.Level)
	}
	if cfg.Codec.MaxAllocatedLength < 0 {
		return fmt.Errorf("codec.max_allocated_length must not be negative")
	}
	if cfg.Codec.MaxPrefixedLength < 0 {
		return fmt.Errorf("codec.max_prefixed_length must not be negative")
	}
	if cfg.Codec.MaxFields < 0 {
		return fmt.Errorf("codec.max_fields must not be negative")
	}
	if _, err := bitstream.ParseWidth(cfg.Codec.LengthWidth); err != nil {
		return fmt.Errorf("codec.length_width: %w", err)
	}
	if cfg.Codec.CharWidth != int(bitstream.Narrow) && cfg.Codec.CharWidth != int(bitstream.Wide) {
		return fmt.Errorf("codec.char_width must be 1 or 2, got %d", cfg.Codec.CharWidth)
	}
	if cfg.Frame.MaxPayloadBytes == 0 {
		return fmt.Errorf("frame.max_payload_bytes must be positive")
	}
	if cfg.Frame.MaxPayloadBytes > maxBlockBytes {
		return fmt.Errorf("frame.max_payload_bytes must not exceed %d", uint64(maxBlockBytes))
	}
	if cfg.Frame.MaxAuthBytes > maxBlockBytes {
		return fmt.Errorf("frame.max_auth_bytes must not exceed %d", uint64(maxBlockBytes))
	}
	return nil
}
