package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/talgya/cigol/internal/omega"
)

// NewKeyCommand creates the key command.
func NewKeyCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "key <identity> <password>",
		Short:        "Derive the permanent 15-digit key for an identity",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			k := omega.DeriveKey(args[0], args[1])
			return opts.printer(cmd).print(map[string]string{"key": k}, func(w io.Writer) {
				fmt.Fprintln(w, k)
			})
		},
	}
}
