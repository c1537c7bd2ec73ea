// Package catalog matches discoveries to products by signature distance and
// prices the match.
package catalog

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/dustin/go-humanize"

	"github.com/talgya/cigol/internal/phi"
	"github.com/talgya/cigol/internal/signature"
)

// ErrNoPeak is returned when a discovery's stability is not at a peak.
var ErrNoPeak = errors.New("stability peak not detected")

// ErrEmpty is returned when matching against an empty catalog.
var ErrEmpty = errors.New("catalog is empty")

// Product is a catalog entry. Seed is the string its signature is taken from.
type Product struct {
	Name        string  `yaml:"name" json:"name"`
	Seed        string  `yaml:"seed" json:"seed"`
	MarketValue float64 `yaml:"market_value" json:"market_value"`
}

// DefaultProducts returns the built-in catalog.
func DefaultProducts() []Product {
	return []Product{
		{Name: "Axiomatic Encryption SDK", Seed: "secure_channel_protocol_v1.0_axiomatic", MarketValue: 1_000_000},
		{Name: "Torus Pinch Compression", Seed: "torus_pinch_data_compression_manifold", MarketValue: 5_000_000},
		{Name: "Resonant Database Engine", Seed: "categorical_resonance_database_sync", MarketValue: 3_500_000},
	}
}

// Catalog holds products with their precomputed signatures.
type Catalog struct {
	products []Product
	sigs     []*big.Int
}

// New signs every product once.
func New(products []Product) *Catalog {
	c := &Catalog{
		products: append([]Product(nil), products...),
		sigs:     make([]*big.Int, len(products)),
	}
	for i, p := range products {
		c.sigs[i] = signature.OfString(p.Seed)
	}
	return c
}

// Products returns a copy of the catalog entries.
func (c *Catalog) Products() []Product {
	return append([]Product(nil), c.products...)
}

// BestMatch returns the product whose signature is closest to sig. Ties keep
// the earlier product.
func (c *Catalog) BestMatch(sig *big.Int) (Product, error) {
	if len(c.products) == 0 {
		return Product{}, ErrEmpty
	}

	best := -1
	var bestDiff *big.Int
	diff := new(big.Int)
	for i, s := range c.sigs {
		diff.Sub(sig, s)
		diff.Abs(diff)
		if best < 0 || diff.Cmp(bestDiff) < 0 {
			best = i
			bestDiff = new(big.Int).Set(diff)
		}
	}
	return c.products[best], nil
}

// Manifest describes the product a discovery turned into.
type Manifest struct {
	Product         string  `json:"product"`
	MarketPotential float64 `json:"market_potential"`
	Formatted       string  `json:"formatted"`
	ProofOfConcept  string  `json:"proof_of_concept"`
}

// Process gates a discovery on its stability, matches it to a product and
// returns the manifest. Discoveries off the Φ⁻¹ peak return ErrNoPeak.
func (c *Catalog) Process(discovery string, stability float64) (Manifest, error) {
	if !phi.IsStabilityPeak(stability) {
		return Manifest{}, fmt.Errorf("%w: stability %.3f", ErrNoPeak, stability)
	}

	p, err := c.BestMatch(signature.OfString(discovery))
	if err != nil {
		return Manifest{}, err
	}

	potential := p.MarketValue * (1 + stability)
	return Manifest{
		Product:         p.Name,
		MarketPotential: potential,
		Formatted:       "$" + humanize.CommafWithDigits(potential, 2),
		ProofOfConcept: fmt.Sprintf("A new '%s' has been deterministically derived from a "+
			"[Science] manifold discovery with a stability factor of %.3f.", p.Name, stability),
	}, nil
}
