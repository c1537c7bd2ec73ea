package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/talgya/cigol/internal/mirror"
)

// NewPatchCommand creates the patch command.
func NewPatchCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "patch <distortion>",
		Short: "Mirror a distortion and compress its healing patch",
		Long: `Run the remastering pipeline: sign the distortion, mirror the signature
through Φ, map it to glome coordinates, generate a noise patch and compress
it against a latent lattice at float32 precision.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := mirror.Remaster(cmd.Context(), opts.cfg.Kernel(), args[0])
			if err != nil {
				return err
			}

			return opts.printer(cmd).print(r, func(w io.Writer) {
				fmt.Fprintf(w, "before     %s (resistance %.1f)\n", r.Before.State, r.Before.Resistance)
				fmt.Fprintf(w, "glome      %v\n", r.Glome)
				fmt.Fprintf(w, "patch      %d values\n", r.PatchSize)
				fmt.Fprintf(w, "compressed %s (raw %d B, ratio %.1f, fits block %t)\n",
					r.CompressedHuman, r.RawBytes, r.Ratio, r.Compressed.FitsBlock)
				fmt.Fprintf(w, "stability  %.4f\n", r.Compressed.Stability)
				fmt.Fprintf(w, "after      %s\n", r.After.State)
			})
		},
	}
}

// NewCureCommand creates the cure command.
func NewCureCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "cure <sequence>...",
		Short:        "Untangle disease sequences into their healthy mirrors",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newEngine()
			if err != nil {
				return err
			}
			m := mirror.NewManifold(e)

			out := make([]mirror.HealthMemory, 0, len(args))
			for _, d := range args {
				out = append(out, m.AddDisease(d))
			}

			return opts.printer(cmd).print(out, func(w io.Writer) {
				for _, h := range out {
					fmt.Fprintf(w, "%s -> %s  slot %d  knots %d -> %d\n",
						h.Disease, h.Cure, h.Slot, h.KnotDensity(), h.UnknottedDensity())
				}
			})
		},
	}
}
