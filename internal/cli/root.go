package cli

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/danmuck/bitstream/internal/config"
	"github.com/danmuck/bitstream/internal/logging"
	"github.com/danmuck/bitstream/internal/observability"
	"github.com/danmuck/bitstream/pkg/bitstream"
	"github.com/spf13/cobra"
)

// app is the state shared by one command tree.
type app struct {
	configPath   string
	outputFormat string

	cfg       config.Config
	formatter Formatter
}

// NewRootCmd builds a fresh bitctl command tree.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}
	root := &cobra.Command{
		Use:   "bitctl",
		Short: "Encode and inspect bit-packed values and frames",
		Long: `bitctl drives the bitstream codec from the command line. It encodes
compact integers, string fields and framed messages to hex and decodes them back.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (built-in defaults when empty)")
	root.PersistentFlags().StringVarP(&a.outputFormat, "output", "o", "text", "output format: text, json, yaml")

	root.AddCommand(a.compactCmd(), a.stringCmd(), a.frameCmd(), a.configCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
		logging.Apply(cfg.Logging())
	}
	f, err := NewFormatter(a.outputFormat)
	if err != nil {
		return err
	}
	a.formatter = f
	return nil
}

func (a *app) print(cmd *cobra.Command, data any) error {
	out, err := a.formatter.Format(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func (a *app) codecOptions() []bitstream.Option {
	return []bitstream.Option{
		bitstream.WithLogger(observability.Logger("bitctl")),
		bitstream.WithLimits(a.cfg.CodecLimits()),
	}
}

func decodeHex(raw string) ([]byte, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	raw = strings.ReplaceAll(raw, " ", "")
	b, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return b, nil
}
