package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talgya/cigol/internal/lattice"
	"github.com/talgya/cigol/internal/resonance"
)

// CollapseResult is the output of the collapse command.
type CollapseResult struct {
	Points      int       `json:"points"`
	Precision   string    `json:"precision"`
	OutputBytes int       `json:"output_bytes"`
	Stream      []float64 `json:"stream"`
}

// NewCollapseCommand creates the collapse command.
func NewCollapseCommand(opts *RootOptions) *cobra.Command {
	var points string
	var compact bool

	cmd := &cobra.Command{
		Use:   "collapse [data]",
		Short: "Collapse a point stream to one scalar per point",
		Long: `Collapse points against the lattice. Each point becomes the sum of its
resonance with every node.

Points come from --points ("x,y,z;x,y,z") or from the bytes of data, each
byte b unfolded to (b, 1.1b, 0.9b).`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var pts []lattice.Point
			switch {
			case points != "":
				var err error
				if pts, err = parsePoints(points); err != nil {
					return err
				}
			case len(args) == 1:
				pts = lattice.UnfoldBytes([]byte(args[0]))
			default:
				return fmt.Errorf("collapse needs data or --points")
			}

			e, err := opts.newEngine()
			if err != nil {
				return err
			}

			res := CollapseResult{Points: len(pts), Precision: resonance.Full.String()}
			if compact {
				res.Precision = resonance.Compact.String()
				s32, err := e.Kernel().Collapse32(cmd.Context(), pts, e.Lattice())
				if err != nil {
					return err
				}
				res.Stream = make([]float64, len(s32))
				for i, v := range s32 {
					res.Stream[i] = float64(v)
				}
				res.OutputBytes = resonance.Compact.Size(len(s32))
			} else {
				if res.Stream, err = e.Collapse(cmd.Context(), pts); err != nil {
					return err
				}
				res.OutputBytes = resonance.Full.Size(len(res.Stream))
			}

			return opts.printer(cmd).print(res, func(w io.Writer) {
				fmt.Fprintf(w, "collapsed %d points to %d bytes (%s)\n", res.Points, res.OutputBytes, res.Precision)
				for _, v := range res.Stream {
					fmt.Fprintf(w, "%.6f\n", v)
				}
			})
		},
	}

	cmd.Flags().StringVar(&points, "points", "", `explicit points, "x,y,z;x,y,z"`)
	cmd.Flags().BoolVar(&compact, "compact", false, "emit float32 precision")

	return cmd
}

func parsePoints(s string) ([]lattice.Point, error) {
	var out []lattice.Point
	for i, triple := range strings.Split(s, ";") {
		triple = strings.TrimSpace(triple)
		if triple == "" {
			continue
		}
		parts := strings.Split(triple, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("point %d: want 3 coordinates, got %d", i, len(parts))
		}
		var c [3]float64
		for j, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("point %d: %w", i, err)
			}
			c[j] = v
		}
		out = append(out, lattice.Point{X: c[0], Y: c[1], Z: c[2]})
	}
	return out, nil
}
