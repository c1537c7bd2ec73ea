package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/talgya/cigol/internal/entropy"
	"github.com/talgya/cigol/internal/resonance"
)

// PinchResult is the output of the pinch command.
type PinchResult struct {
	Key      string             `json:"key,omitempty"` // Only when generated
	Metadata resonance.Metadata `json:"metadata"`
	Stream   []float64          `json:"stream"`
}

// NewPinchCommand creates the pinch command.
func NewPinchCommand(opts *RootOptions) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "pinch <packet>",
		Short: "Project a packet through a one-time keyed lattice",
		Long: `Pinch a packet through a lattice seeded by the key's SHA-256 signature.
Without --key a random one-time key is generated and printed.

The output is a deterministic keyed transform. It cannot be reversed and
offers no confidentiality.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newEngine()
			if err != nil {
				return err
			}

			res := PinchResult{}
			if key == "" {
				key = entropy.OneTimeKey()
				res.Key = key
			}

			res.Stream, res.Metadata, err = e.PinchProtocol(cmd.Context(), []byte(args[0]), key)
			if err != nil {
				return err
			}

			return opts.printer(cmd).print(res, func(w io.Writer) {
				if res.Key != "" {
					fmt.Fprintf(w, "one-time key  %s\n", res.Key)
				}
				m := res.Metadata
				fmt.Fprintf(w, "%s  seed %d  nodes %d  %d B -> %d B (%s)\n",
					m.Label, m.Seed, m.Nodes, m.InputBytes, m.OutputBytes, m.Precision)
				for _, v := range res.Stream {
					fmt.Fprintf(w, "%.6f\n", v)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "pinch key (random when empty)")

	return cmd
}
