package main

import (
	"fmt"
	"os"

	"github.com/danmuck/bitstream/internal/cli"
	"github.com/danmuck/bitstream/internal/logging"
	"github.com/danmuck/bitstream/internal/observability"
)

func main() {
	logging.ConfigureRuntime()
	observability.RegisterMetrics()
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bitctl: %v\n", err)
		os.Exit(1)
	}
}
