package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talgya/cigol/internal/bands"
)

// OrchestrateResult is the output of the orchestrate command.
type OrchestrateResult struct {
	Relics []bands.Relic  `json:"relics"`
	Counts map[string]int `json:"counts"`
}

// NewOrchestrateCommand creates the orchestrate command.
func NewOrchestrateCommand(opts *RootOptions) *cobra.Command {
	var base float64

	cmd := &cobra.Command{
		Use:   "orchestrate <file>...",
		Short: "Siphon files into the four-sector memory palace",
		Long: `Ingest each file by the SHA-256 signature of its content, reduced modulo
⌊base·Φ⁴⌋, into Science, Health, Industry or Entertainment. Frequencies
below every band land in Core. Health and Industry relics link back to
the sectors they descend from.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := bands.NewOrchestratorTable(bands.SectorTable(base), opts.observers())
			if err != nil {
				return err
			}

			sources := make([]bands.Source, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read relic: %w", err)
				}
				sources = append(sources, bands.Source{Name: filepath.Base(path), Content: string(data)})
			}

			res := OrchestrateResult{Relics: o.Siphon(sources), Counts: o.Counts()}
			return opts.printer(cmd).print(res, func(w io.Writer) {
				for _, r := range res.Relics {
					fmt.Fprintf(w, "%-30s %8.2f Hz  [%s]", r.Name, r.Frequency, r.Sector)
					if len(r.Links) > 0 {
						fmt.Fprintf(w, "  -> %s", strings.Join(r.Links, ", "))
					}
					fmt.Fprintln(w)
				}
			})
		},
	}

	cmd.Flags().Float64Var(&base, "base", bands.OrchestratorBase, "low edge of the Science band")

	return cmd
}
