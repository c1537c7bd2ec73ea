package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

// printer writes a result as indented JSON or through a text renderer.
type printer struct {
	format string
	w      io.Writer
}

func (o *RootOptions) printer(cmd *cobra.Command) printer {
	return printer{format: o.Format, w: cmd.OutOrStdout()}
}

func (p printer) print(data any, text func(w io.Writer)) error {
	if p.format == "json" {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	text(p.w)
	return nil
}
