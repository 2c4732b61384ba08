package catalog

import (
	"math"

	"wahret-zmen/internal/domain"
)

// Prepare returns a copy of products with colour images normalised and
// ratings clamped, ready to be served.
func Prepare(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	for i, p := range products {
		p.Colors = NormalizeColors(p.Colors, p.CoverImage)
		p.Rating = ClampRating(p.Rating)
		out[i] = p
	}
	return out
}

// NormalizeColors makes sure each colour has an images list and a primary
// image, falling back to the product cover.
func NormalizeColors(colors []domain.Color, coverImage string) []domain.Color {
	out := make([]domain.Color, 0, len(colors))
	for _, c := range colors {
		images := c.Images
		if len(images) == 0 {
			images = []string{}
			if c.Image != "" {
				images = []string{c.Image}
			}
		}
		c.Images = images

		switch {
		case len(images) > 0:
			c.Image = images[0]
		case c.Image == "":
			c.Image = coverImage
		}
		if c.Stock < 0 {
			c.Stock = 0
		}
		out = append(out, c)
	}
	return out
}

// ClampRating bounds a rating to [0, 5].
func ClampRating(r float64) float64 {
	if math.IsNaN(r) {
		return 0
	}
	return math.Max(0, math.Min(5, r))
}

// PrepareForWrite applies the admin write invariants: colour images
// normalised, rating clamped, and total stock recomputed from the colours.
func PrepareForWrite(p *domain.Product) {
	p.Colors = NormalizeColors(p.Colors, p.CoverImage)
	p.Rating = ClampRating(p.Rating)
	p.StockQuantity = p.TotalStock()
}
