package catalog

import (
	"math"

	"wahret-zmen/internal/domain"
)

// NumericPrice reads the first present price field (newPrice, price,
// pricing, prices.current). A field that does not parse counts as 0.
func NumericPrice(p *domain.Product) float64 {
	var raw *domain.FlexNumber
	switch {
	case p.NewPrice != nil:
		raw = p.NewPrice
	case p.Price != nil:
		raw = p.Price
	case p.Pricing != nil:
		raw = p.Pricing
	case p.Prices != nil && p.Prices.Current != nil:
		raw = domain.NewFlexNumber(*p.Prices.Current)
	default:
		return 0
	}

	v, ok := raw.Value()
	if !ok || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}
