package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/talgya/cigol/internal/sloot"
)

// NewSlootCommand creates the sloot command group.
func NewSlootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sloot",
		Short: "Encode text as Φ-ratio coordinates and back",
	}

	cmd.AddCommand(&cobra.Command{
		Use:          "encode <text>",
		Short:        "Encode text to an (x, y, z) coordinate",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, z := sloot.Encode(args[0]).Text()
			res := map[string]string{"x": x, "y": y, "z": z}
			return opts.printer(cmd).print(res, func(w io.Writer) {
				fmt.Fprintln(w, x)
				fmt.Fprintln(w, y)
				fmt.Fprintln(w, z)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:          "decode <x> <y> <z>",
		Short:        "Verify a coordinate and decode its text",
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sloot.Parse(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			text, err := sloot.Decode(c)
			if err != nil {
				return err
			}
			return opts.printer(cmd).print(map[string]string{"text": text}, func(w io.Writer) {
				fmt.Fprintln(w, text)
			})
		},
	})

	return cmd
}
