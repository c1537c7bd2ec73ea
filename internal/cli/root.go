// Package cli implements the cigol command tree.
package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/talgya/cigol/internal/config"
	"github.com/talgya/cigol/internal/resonance"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	LogFormat string // "json" | "text"
	Config    string

	cfg config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the cigol CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cigol",
		Short: "CIGOL resonance lattice engine",
		Long: `Map data onto a golden-ratio torus lattice.

Sequences are smashed onto their most resonant node, point streams are
collapsed to one scalar per point, and packets are pinched through
one-time keyed lattices.`,
		SilenceErrors: true, // main logs the error
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if !slices.Contains(ValidFormats, opts.LogFormat) {
				return fmt.Errorf("invalid log format %q: must be one of %v", opts.LogFormat, ValidFormats)
			}
			installLogger(cmd, opts)

			cfg, err := config.Load(opts.Config)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log engine events")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "text", "log format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "YAML config file")

	cmd.AddCommand(NewSmashCommand(opts))
	cmd.AddCommand(NewCollapseCommand(opts))
	cmd.AddCommand(NewPinchCommand(opts))
	cmd.AddCommand(NewKeyCommand(opts))
	cmd.AddCommand(NewPatchCommand(opts))
	cmd.AddCommand(NewCureCommand(opts))
	cmd.AddCommand(NewCategorizeCommand(opts))
	cmd.AddCommand(NewSiphonCommand(opts))
	cmd.AddCommand(NewSlootCommand(opts))
	cmd.AddCommand(NewOrchestrateCommand(opts))
	cmd.AddCommand(NewPulseCommand(opts))
	cmd.AddCommand(NewFirewallCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// installLogger sets the default slog logger. Logs go to stderr so JSON
// output on stdout stays parseable.
func installLogger(cmd *cobra.Command, opts *RootOptions) {
	hopts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if opts.Verbose {
		hopts.Level = slog.LevelDebug
	}

	var h slog.Handler = slog.NewTextHandler(cmd.ErrOrStderr(), hopts)
	if opts.LogFormat == "json" {
		h = slog.NewJSONHandler(cmd.ErrOrStderr(), hopts)
	}
	slog.SetDefault(slog.New(h))
}

// newEngine builds an engine from the loaded config. Verbose runs log every
// engine event.
func (o *RootOptions) newEngine(extra ...resonance.Observer) (*resonance.Engine, error) {
	obs := o.observers(extra...)
	return resonance.NewEngine(o.cfg.Lattice,
		resonance.WithKernel(o.cfg.Kernel()),
		resonance.WithPinchParams(o.cfg.Pinch),
		resonance.WithObserver(obs),
	)
}

// observers returns extra, preceded by a log observer on verbose runs.
func (o *RootOptions) observers(extra ...resonance.Observer) resonance.Observers {
	var obs resonance.Observers
	if o.Verbose {
		obs = append(obs, resonance.LogObserver{Logger: slog.Default()})
	}
	return append(obs, extra...)
}
