// Command cigol runs the resonance lattice engine.
package main

import (
	"log/slog"
	"os"

	"github.com/talgya/cigol/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
