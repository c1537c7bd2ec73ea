package cli

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/talgya/cigol/internal/pulse"
)

// NewPulseCommand creates the pulse command.
func NewPulseCommand(opts *RootOptions) *cobra.Command {
	var (
		discovery string
		beats     int
		interval  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "pulse",
		Short: "Transfer a discovery to every sector and run the heartbeat",
		Long: `Set the global state to the discovery's signature, copy it to Science,
Health, Industry and Entertainment, then beat every interval. Odd beats
inhale, even beats exhale. --beats 0 runs until interrupted.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			core := pulse.NewCore(opts.observers())
			if discovery != "" {
				core.ProcessDiscovery(discovery)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p := opts.printer(cmd)
			return core.Heartbeat(ctx, interval, beats, func(b pulse.Beat) {
				err := p.print(b, func(w io.Writer) {
					fmt.Fprintf(w, "pulse %d %-6s brightness %.2f scale %.2f\n", b.N, b.Breath.Pulse, b.Breath.Brightness, b.Breath.Scale)
				})
				if err != nil {
					stop()
				}
			})
		},
	}

	cmd.Flags().StringVar(&discovery, "discovery", "", "discovery whose signature becomes the global state")
	cmd.Flags().IntVar(&beats, "beats", 5, "number of beats (0 = until interrupted)")
	cmd.Flags().DurationVar(&interval, "interval", pulse.DefaultInterval, "time between beats")

	return cmd
}
