package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/talgya/cigol/internal/resonance"
	"github.com/talgya/cigol/internal/signature"
)

// SmashResult is the output of the smash command.
type SmashResult struct {
	Input    string          `json:"input"`
	Match    resonance.Match `json:"match"`
	Slot     int             `json:"slot"`
	Distance float64         `json:"distance"`
}

// NewSmashCommand creates the smash command.
func NewSmashCommand(opts *RootOptions) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "smash <sequence>",
		Short: "Find the most resonant lattice node for a sequence",
		Long: `Fold a nucleotide sequence (A, C, G, T; other letters skipped) into a
signature and search the lattice for its most resonant node.

With --raw the argument is hashed with SHA-256 instead of folded.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newEngine()
			if err != nil {
				return err
			}

			input := args[0]
			res := SmashResult{Input: input}
			if raw {
				res.Match = e.SmashBytes([]byte(input))
				res.Slot = e.IndexLookup(signature.OfString(input))
			} else {
				res.Match = e.SequenceSmash(input)
				res.Slot = e.Slot(input)
			}
			if res.Match.Index < 0 {
				return fmt.Errorf("no resonant node for %q", input)
			}
			res.Distance = res.Match.Node.Distance(e.Lattice().Origin())

			return opts.printer(cmd).print(res, func(w io.Writer) {
				fmt.Fprintf(w, "node      %d %s\n", res.Match.Index, res.Match.Node)
				fmt.Fprintf(w, "score     %.6f\n", res.Match.Score)
				fmt.Fprintf(w, "distance  %.4f\n", res.Distance)
				fmt.Fprintf(w, "slot      %d\n", res.Slot)
			})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "hash the input instead of folding nucleotides")

	return cmd
}
