package lattice

import (
	"fmt"
	"math"
)

// Point is a coordinate in lattice space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Finite reports whether every component is a finite number.
func (p Point) Finite() bool {
	for _, v := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (p Point) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", p.X, p.Y, p.Z)
}

// Unfold lifts a scalar into a point by the fixed (1, 1.1, 0.9) weighting.
// Byte packets and patch vectors are both mapped this way before a collapse.
func Unfold(v float64) Point {
	return Point{X: v, Y: v * 1.1, Z: v * 0.9}
}

// UnfoldBytes maps each byte of data to a point with Unfold.
func UnfoldBytes(data []byte) []Point {
	pts := make([]Point, len(data))
	for i, b := range data {
		pts[i] = Unfold(float64(b))
	}
	return pts
}

// UnfoldFloats maps each value to a point with Unfold.
func UnfoldFloats(vals []float64) []Point {
	pts := make([]Point, len(vals))
	for i, v := range vals {
		pts[i] = Unfold(v)
	}
	return pts
}
