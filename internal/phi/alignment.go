package phi

import "math"

// Alignment returns 0.0–1.0 indicating how close v is to Φ.
// 1.0 at v == Φ, falling linearly to 0 at distance Φ.
func Alignment(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	a := 1 - math.Abs(v-Phi)/Phi
	if a < 0 {
		return 0
	}
	return a
}

// Fold scales a positive value by powers of Φ until it lies in the golden
// band [1, 2]. Non-positive and non-finite values fold to 0.
func Fold(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	for v > 2.0 {
		v /= Phi
	}
	for v < 1.0 {
		v *= Phi
	}
	return v
}
