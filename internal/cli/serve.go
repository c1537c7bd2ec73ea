package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/talgya/cigol/internal/api"
	"github.com/talgya/cigol/internal/bands"
	"github.com/talgya/cigol/internal/catalog"
	"github.com/talgya/cigol/internal/conscience"
	"github.com/talgya/cigol/internal/firewall"
	"github.com/talgya/cigol/internal/journal"
	"github.com/talgya/cigol/internal/pulse"
)

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	var (
		port      int
		heartbeat bool
	)

	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Serve the engine over HTTP",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			proxies, err := cfg.Server.Proxies()
			if err != nil {
				return err
			}

			j, err := journal.Open(cfg.Journal, journal.WithRetention(cfg.JournalRetention))
			if err != nil {
				return err
			}
			defer j.Close()

			e, err := opts.newEngine(j)
			if err != nil {
				return err
			}
			p, err := bands.NewPalace(e, cfg.Bands())
			if err != nil {
				return err
			}
			p.SetLimit(cfg.PalaceLimit)

			orch := bands.NewOrchestrator(opts.observers(j))
			orch.SetLimit(cfg.PalaceLimit)
			core := pulse.NewCore(opts.observers(j))

			srv := &api.Server{
				Engine:      e,
				Palace:      p,
				Catalog:     catalog.New(catalog.DefaultProducts()),
				Conscience:  conscience.New(),
				Journal:     j,
				Port:        cfg.Server.Port,
				CORSOrigins: cfg.Server.CORSOrigins,
				RateLimit:   cfg.Server.RateLimit,
				RateWindow:  cfg.Server.RateWindow,

				TrustedProxies: proxies,

				Orchestrator: orch,
				Core:         core,
				Firewall:     firewall.New(nil, opts.observers(j)),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.Serve(ctx) })
			if heartbeat {
				g.Go(func() error {
					err := core.Heartbeat(ctx, pulse.DefaultInterval, 0, nil)
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	cmd.Flags().BoolVar(&heartbeat, "heartbeat", false, "journal a pulse every 1/Φ seconds")

	return cmd
}
