package cli

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/danmuck/bitstream/internal/protocol"
	"github.com/danmuck/bitstream/internal/protocol/tlv"
	"github.com/danmuck/bitstream/pkg/bitstream"
	"github.com/spf13/cobra"
)

type frameResult struct {
	ID       uint64     `json:"id" yaml:"id"`
	Type     string     `json:"type" yaml:"type"`
	Response bool       `json:"response" yaml:"response"`
	Error    bool       `json:"error" yaml:"error"`
	Auth     string     `json:"auth,omitempty" yaml:"auth,omitempty"`
	Bytes    int        `json:"bytes" yaml:"bytes"`
	Hex      string     `json:"hex" yaml:"hex"`
	Fields   []fieldRow `json:"fields" yaml:"fields"`
}

type fieldRow struct {
	ID    uint16 `json:"id" yaml:"id"`
	Kind  string `json:"kind" yaml:"kind"`
	Value string `json:"value" yaml:"value"`
}

var messageTypes = map[string]protocol.MessageType{
	"command": protocol.MessageCommand,
	"event":   protocol.MessageEvent,
	"report":  protocol.MessageReport,
	"error":   protocol.MessageError,
}

func (a *app) frameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Encode and decode framed messages",
	}

	var (
		id       uint64
		msgType  string
		response bool
		isError  bool
		auth     string
		fields   []string
	)
	encode := &cobra.Command{
		Use:   "encode",
		Short: "Encode a message frame from flags",
		Long: `Encode a message frame. Fields are given as id=kind:value where kind is
one of uint, int, bool, text or wide, for example --field 1=uint:42 --field 2=text:hello.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := parseMessageType(msgType)
			if err != nil {
				return err
			}
			msg := &protocol.Message{
				ID:       id,
				Type:     typ,
				Response: response,
				Error:    isError,
			}
			if auth != "" {
				if msg.AuthBlock, err = decodeHex(auth); err != nil {
					return err
				}
			}
			for _, raw := range fields {
				f, err := parseField(raw)
				if err != nil {
					return err
				}
				msg.Fields = append(msg.Fields, f)
			}

			b, err := a.cfg.ProtocolCodec().Encode(msg)
			if err != nil {
				return err
			}
			return a.print(cmd, describeMessage(msg, b))
		},
	}
	encode.Flags().Uint64Var(&id, "id", 0, "message id")
	encode.Flags().StringVarP(&msgType, "type", "t", "command", "message type: command, event, report, error or a number")
	encode.Flags().BoolVar(&response, "response", false, "mark the message as a response")
	encode.Flags().BoolVar(&isError, "error", false, "mark the message as an error")
	encode.Flags().StringVar(&auth, "auth", "", "auth block as hex")
	encode.Flags().StringArrayVarP(&fields, "field", "f", nil, "field as id=kind:value (repeatable)")
	cmd.AddCommand(encode)

	cmd.AddCommand(&cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode a message frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := decodeHex(args[0])
			if err != nil {
				return err
			}
			msg, err := a.cfg.ProtocolCodec().Decode(b)
			if err != nil {
				return err
			}
			return a.print(cmd, describeMessage(msg, b))
		},
	})
	return cmd
}

func describeMessage(msg *protocol.Message, b []byte) frameResult {
	res := frameResult{
		ID:       msg.ID,
		Type:     messageTypeName(msg.Type),
		Response: msg.Response,
		Error:    msg.Error,
		Auth:     hex.EncodeToString(msg.AuthBlock),
		Bytes:    len(b),
		Hex:      hex.EncodeToString(b),
		Fields:   make([]fieldRow, 0, len(msg.Fields)),
	}
	for _, f := range msg.Fields {
		res.Fields = append(res.Fields, fieldRow{
			ID:    f.ID,
			Kind:  f.Spec.Kind.String(),
			Value: f.Value.String(),
		})
	}
	return res
}

func parseMessageType(raw string) (protocol.MessageType, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if typ, ok := messageTypes[raw]; ok {
		return typ, nil
	}
	n, err := strconv.ParseUint(raw, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown message type %q", raw)
	}
	return protocol.MessageType(n), nil
}

func messageTypeName(t protocol.MessageType) string {
	for name, typ := range messageTypes {
		if typ == t {
			return name
		}
	}
	return strconv.FormatUint(uint64(t), 10)
}

// parseField reads one id=kind:value flag.
func parseField(raw string) (tlv.Field, error) {
	idPart, rest, ok := strings.Cut(raw, "=")
	if !ok {
		return tlv.Field{}, fmt.Errorf("field %q: want id=kind:value", raw)
	}
	kind, value, ok := strings.Cut(rest, ":")
	if !ok {
		return tlv.Field{}, fmt.Errorf("field %q: want id=kind:value", raw)
	}
	id, err := strconv.ParseUint(strings.TrimSpace(idPart), 0, 16)
	if err != nil {
		return tlv.Field{}, fmt.Errorf("field %q: invalid id: %w", raw, err)
	}
	fid := uint16(id)

	switch strings.ToLower(kind) {
	case "uint":
		v, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			return tlv.Field{}, fmt.Errorf("field %q: %w", raw, err)
		}
		return tlv.NewUint(fid, v, bitstream.Width64), nil
	case "int":
		v, err := strconv.ParseInt(value, 0, 64)
		if err != nil {
			return tlv.Field{}, fmt.Errorf("field %q: %w", raw, err)
		}
		return tlv.NewInt(fid, v, bitstream.Width64), nil
	case "bool":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return tlv.Field{}, fmt.Errorf("field %q: %w", raw, err)
		}
		return tlv.NewBool(fid, v), nil
	case "text":
		return tlv.NewText(fid, value), nil
	case "wide":
		return tlv.NewWideText(fid, value), nil
	default:
		return tlv.Field{}, fmt.Errorf("field %q: unknown kind %q", raw, kind)
	}
}
