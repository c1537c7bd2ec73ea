// Package phi provides the golden-ratio constants shared by the resonance engine.
// Everything that looks like a tuning knob traces back to Φ.
package phi

import "math"

// Phi is the golden ratio.
const Phi = 1.6180339887498948

// SaltText is the decimal text of Φ as it appears in salted digests.
// It is shorter than the float64 constant on purpose; keys derived from it
// must stay stable.
const SaltText = "1.61803398875"

// Epsilon keeps the inverse-distance kernel finite when a point sits on a node.
const Epsilon = 1e-9

// Powers of Φ used for band edges and tolerances.
var (
	// Agnosis (Φ⁻³): the base rate of imperfection.
	Agnosis = math.Pow(Phi, -3) // 0.23606...

	// Psyche (Φ⁻²).
	Psyche = math.Pow(Phi, -2) // 0.38197...

	// Matter (Φ⁻¹): the stability threshold. A discovery whose stability lies
	// within StabilityBand of Matter is a stability peak.
	Matter = math.Pow(Phi, -1) // 0.61803...

	// Being (Φ¹).
	Being = Phi

	// Nous (Φ²).
	Nous = math.Pow(Phi, 2) // 2.61803...

	// Totality (Φ³): upper edge of the widest frequency band.
	Totality = math.Pow(Phi, 3) // 4.23606...
)

// StabilityBand is the half-width around Matter that counts as a peak.
const StabilityBand = 0.05

// IsStabilityPeak reports whether s falls inside the band around Φ⁻¹.
func IsStabilityPeak(s float64) bool {
	return math.Abs(s-Matter) < StabilityBand
}
