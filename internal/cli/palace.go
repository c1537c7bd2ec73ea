package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/talgya/cigol/internal/bands"
	"github.com/talgya/cigol/internal/catalog"
	"github.com/talgya/cigol/internal/phi"
	"github.com/talgya/cigol/internal/siphon"
)

// CategorizeResult is the output of the categorize command.
type CategorizeResult struct {
	Placement bands.Placement   `json:"placement"`
	Manifest  *catalog.Manifest `json:"manifest,omitempty"`
}

// NewCategorizeCommand creates the categorize command.
func NewCategorizeCommand(opts *RootOptions) *cobra.Command {
	var stability float64

	cmd := &cobra.Command{
		Use:   "categorize <data>",
		Short: "File data into a frequency band",
		Long: `Compute the intrinsic frequency of data against the lattice and file it
under Science, Industry or Entertainment. A Science item at the Φ⁻¹
stability peak crosses into Industry as a product manifest.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newEngine()
			if err != nil {
				return err
			}
			p, err := bands.NewPalace(e, opts.cfg.Bands())
			if err != nil {
				return err
			}

			res := CategorizeResult{Placement: p.Categorize(args[0], stability)}
			if res.Placement.Bridged {
				m, err := catalog.New(catalog.DefaultProducts()).Process(args[0], stability)
				if err != nil {
					return err
				}
				res.Manifest = &m
			}

			return opts.printer(cmd).print(res, func(w io.Writer) {
				fmt.Fprintf(w, "%s  frequency %.4f\n", res.Placement.Theme.Label, res.Placement.Frequency)
				if res.Manifest != nil {
					fmt.Fprintf(w, "bridged -> %s (%s)\n", res.Manifest.Product, res.Manifest.Formatted)
				}
			})
		},
	}

	cmd.Flags().Float64Var(&stability, "stability", phi.Matter, "stability factor of the item")

	return cmd
}

// NewSiphonCommand creates the siphon command.
func NewSiphonCommand(opts *RootOptions) *cobra.Command {
	var tolerance float64

	cmd := &cobra.Command{
		Use:          "siphon <candidate>...",
		Short:        "Absorb the first candidate aligned with Φ",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := siphon.New(tolerance)
			idx := s.Absorb(args)

			type candidate struct {
				Data      string  `json:"data"`
				Alignment float64 `json:"alignment"`
			}
			res := struct {
				Absorbed   int         `json:"absorbed"`
				Candidates []candidate `json:"candidates"`
			}{Absorbed: idx}
			for _, c := range args {
				res.Candidates = append(res.Candidates, candidate{Data: c, Alignment: siphon.Alignment([]byte(c))})
			}

			return opts.printer(cmd).print(res, func(w io.Writer) {
				for i, c := range res.Candidates {
					mark := " "
					if i == idx {
						mark = "*"
					}
					fmt.Fprintf(w, "%s %-20q %.6f\n", mark, c.Data, c.Alignment)
				}
				if idx < 0 {
					fmt.Fprintln(w, "no candidate aligned")
				}
			})
		},
	}

	cmd.Flags().Float64Var(&tolerance, "tolerance", siphon.DefaultTolerance, "snap radius around Φ")

	return cmd
}
