// Package sloot encodes strings as three-axis coordinates tied together by Φ.
// Z carries the payload as an exact integer; X and Y are derived from Z and
// serve only as an integrity check on decode.
package sloot

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/talgya/cigol/internal/phi"
)

var (
	// ErrRatioMismatch is returned when X or Y does not follow from Z.
	ErrRatioMismatch = errors.New("coordinate does not conform to the horn torus ratio")
	// ErrInvalidPayload is returned when Z does not decode to UTF-8 text.
	ErrInvalidPayload = errors.New("coordinate payload is not valid UTF-8")
	// ErrMalformed is returned for coordinates with missing or negative axes.
	ErrMalformed = errors.New("malformed coordinate")
)

// RelTolerance is the relative tolerance of the ratio check.
const RelTolerance = 1e-9

// Coordinate is an encoded string.
type Coordinate struct {
	X *big.Float
	Y *big.Float
	Z *big.Int
}

// Encode maps s to X = Z·Φ, Y = Z/Φ, Z = big-endian integer of the UTF-8 bytes.
// The empty string maps to the zero coordinate.
func Encode(s string) Coordinate {
	z := new(big.Int).SetBytes([]byte(s))
	x, y := derive(z)
	return Coordinate{X: x, Y: y, Z: z}
}

// Decode verifies the coordinate against Φ and recovers the string.
func Decode(c Coordinate) (string, error) {
	if c.X == nil || c.Y == nil || c.Z == nil {
		return "", fmt.Errorf("%w: missing axis", ErrMalformed)
	}
	if c.Z.Sign() < 0 {
		return "", fmt.Errorf("%w: negative z", ErrMalformed)
	}

	wantX, wantY := derive(c.Z)
	if !isClose(c.X, wantX) {
		return "", fmt.Errorf("%w: x = %s, want z·Φ = %s", ErrRatioMismatch, c.X.Text('g', 12), wantX.Text('g', 12))
	}
	if !isClose(c.Y, wantY) {
		return "", fmt.Errorf("%w: y = %s, want z/Φ = %s", ErrRatioMismatch, c.Y.Text('g', 12), wantY.Text('g', 12))
	}

	if c.Z.Sign() == 0 {
		return "", nil
	}
	b := c.Z.Bytes()
	if !utf8.Valid(b) {
		return "", ErrInvalidPayload
	}
	return string(b), nil
}

// Parse reads a coordinate from its decimal text form.
func Parse(x, y, z string) (Coordinate, error) {
	zi, ok := new(big.Int).SetString(z, 10)
	if !ok {
		return Coordinate{}, fmt.Errorf("%w: z %q is not an integer", ErrMalformed, z)
	}
	prec := precision(zi)
	xf, _, err := big.ParseFloat(x, 10, prec, big.ToNearestEven)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: x: %v", ErrMalformed, err)
	}
	yf, _, err := big.ParseFloat(y, 10, prec, big.ToNearestEven)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: y: %v", ErrMalformed, err)
	}
	return Coordinate{X: xf, Y: yf, Z: zi}, nil
}

// Text returns the decimal forms of the three axes, suitable for Parse.
func (c Coordinate) Text() (x, y, z string) {
	return c.X.Text('g', -1), c.Y.Text('g', -1), c.Z.String()
}

func precision(z *big.Int) uint {
	return uint(max(z.BitLen(), 64) + 64)
}

func derive(z *big.Int) (x, y *big.Float) {
	prec := precision(z)
	zf := new(big.Float).SetPrec(prec).SetInt(z)
	ratio := new(big.Float).SetPrec(prec).SetFloat64(phi.Phi)
	x = new(big.Float).SetPrec(prec).Mul(zf, ratio)
	y = new(big.Float).SetPrec(prec).Quo(zf, ratio)
	return x, y
}

// isClose mirrors a relative-tolerance comparison: |a-b| <= tol·max(|a|,|b|).
func isClose(a, b *big.Float) bool {
	prec := max(a.Prec(), b.Prec())
	diff := new(big.Float).SetPrec(prec).Sub(a, b)
	diff.Abs(diff)

	absA := new(big.Float).SetPrec(prec).Abs(a)
	absB := new(big.Float).SetPrec(prec).Abs(b)
	bound := absA
	if absB.Cmp(absA) > 0 {
		bound = absB
	}
	bound = new(big.Float).SetPrec(prec).Mul(bound, big.NewFloat(RelTolerance))
	return diff.Cmp(bound) <= 0
}
