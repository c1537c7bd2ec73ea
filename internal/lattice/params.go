package lattice

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/cigol/internal/phi"
)

// ErrInvalidParams is returned when lattice parameters cannot produce a lattice.
var ErrInvalidParams = errors.New("invalid lattice parameters")

// Params holds torus sampling parameters.
type Params struct {
	ThetaSteps  int     `yaml:"theta_steps" json:"theta_steps"`   // Samples of the tube angle
	PhiSteps    int     `yaml:"phi_steps" json:"phi_steps"`       // Samples of the ring angle
	MajorRadius float64 `yaml:"major_radius" json:"major_radius"` // R
	MinorRadius float64 `yaml:"minor_radius" json:"minor_radius"` // r
}

// DefaultParams returns the 101×10 lattice with the 21:13 radii.
func DefaultParams() Params {
	return Params{
		ThetaSteps:  101,
		PhiSteps:    10,
		MajorRadius: 21,
		MinorRadius: 13,
	}
}

// PinchedParams returns the self-intersecting horn torus (R=1, r=Φ) used for
// keyed lattices. r > R makes the tube pass through the axis.
func PinchedParams() Params {
	return Params{
		ThetaSteps:  101,
		PhiSteps:    10,
		MajorRadius: 1,
		MinorRadius: phi.Phi,
	}
}

// NodeCount returns the number of points the params produce.
func (p Params) NodeCount() int {
	return p.ThetaSteps * p.PhiSteps
}

// Validate rejects step counts below 2 and non-finite radii.
func (p Params) Validate() error {
	if p.ThetaSteps < 2 {
		return fmt.Errorf("%w: theta_steps %d < 2", ErrInvalidParams, p.ThetaSteps)
	}
	if p.PhiSteps < 2 {
		return fmt.Errorf("%w: phi_steps %d < 2", ErrInvalidParams, p.PhiSteps)
	}
	if math.IsNaN(p.MajorRadius) || math.IsInf(p.MajorRadius, 0) {
		return fmt.Errorf("%w: major_radius %v is not finite", ErrInvalidParams, p.MajorRadius)
	}
	if math.IsNaN(p.MinorRadius) || math.IsInf(p.MinorRadius, 0) {
		return fmt.Errorf("%w: minor_radius %v is not finite", ErrInvalidParams, p.MinorRadius)
	}
	return nil
}

// surface maps torus angles to a point.
func (p Params) surface(theta, ring float64) Point {
	tube := p.MajorRadius + p.MinorRadius*math.Cos(theta)
	return Point{
		X: tube * math.Cos(ring),
		Y: tube * math.Sin(ring),
		Z: p.MinorRadius * math.Sin(theta),
	}
}
