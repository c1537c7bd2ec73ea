package cli

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/talgya/cigol/internal/firewall"
)

// NewFirewallCommand creates the firewall command group.
func NewFirewallCommand(opts *RootOptions) *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "firewall",
		Short: "Check the unlock key, mask Φ, or trigger the dead-man handshake",
	}
	cmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed for mask and breach (0 = clock)")

	newFirewall := func() *firewall.Firewall {
		var src rand.Source
		if seed != 0 {
			src = rand.NewSource(seed)
		}
		return firewall.New(src, opts.observers())
	}

	cmd.AddCommand(&cobra.Command{
		Use:          "check <key>",
		Short:        "Report whether key unlocks the firewall",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := struct {
				Access  bool              `json:"access"`
				Sensory *firewall.Sensory `json:"sensory,omitempty"`
			}{Access: newFirewall().CheckAccess(args[0])}
			if !res.Access {
				s := firewall.ActiveSensory()
				res.Sensory = &s
			}
			return opts.printer(cmd).print(res, func(w io.Writer) {
				if res.Access {
					fmt.Fprintln(w, "access granted")
					return
				}
				fmt.Fprintf(w, "access denied: %s\n", res.Sensory.Label)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:          "mask",
		Short:        "Print a masked equivalent of Φ",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := struct {
				Masked float64 `json:"masked"`
			}{Masked: newFirewall().Mask()}
			return opts.printer(cmd).print(res, func(w io.Writer) {
				fmt.Fprintf(w, "%.11f\n", res.Masked)
			})
		},
	})

	var length int
	breach := &cobra.Command{
		Use:          "breach <target>",
		Short:        "Collapse target into high-entropy noise",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := struct {
				Target string `json:"target"`
				Noise  string `json:"noise"`
			}{Target: args[0], Noise: newFirewall().DeadMan(args[0], length)}
			return opts.printer(cmd).print(res, func(w io.Writer) {
				fmt.Fprintln(w, res.Noise)
			})
		},
	}
	breach.Flags().IntVar(&length, "length", firewall.NoiseLength, "noise length")
	cmd.AddCommand(breach)

	return cmd
}
