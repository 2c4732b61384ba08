// Package catalog filters, orders and paginates the product list served to
// the storefront.
package catalog

import (
	"math"
	"slices"
	"strings"

	"wahret-zmen/internal/domain"
	"wahret-zmen/internal/labels"
)

// Spec is a filter selection. Category, Color and Embroidery accept the
// "All" sentinel in any language, or blank.
type Spec struct {
	Category   string
	Color      string
	Embroidery string
	PriceMin   float64
	PriceMax   float64
	Search     string
}

// NewSpec returns a selection that matches every product.
func NewSpec() Spec {
	return Spec{
		Category:   labels.CategoryAll,
		Color:      labels.CategoryAll,
		Embroidery: labels.CategoryAll,
		PriceMin:   0,
		PriceMax:   math.Inf(1),
	}
}

// Filter returns the products passing every predicate of spec. Input order
// is preserved, except that an "All" category selection groups the result
// by category precedence (stable).
func Filter(products []domain.Product, spec Spec) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for i := range products {
		if Matches(&products[i], spec) {
			out = append(out, products[i])
		}
	}

	if labels.IsAll(spec.Category) {
		SortByCategory(out)
	}
	return out
}

// Matches is the conjunction of the five predicates.
func Matches(p *domain.Product, spec Spec) bool {
	return CategoryMatches(p, spec.Category) &&
		ColorMatches(p, spec.Color) &&
		PriceMatches(p, spec.PriceMin, spec.PriceMax) &&
		SearchMatches(p, spec.Search) &&
		EmbroideryMatches(p, spec.Embroidery)
}

// CategoryMatches compares canonical categories.
func CategoryMatches(p *domain.Product, sel string) bool {
	if labels.IsAll(sel) {
		return true
	}
	return labels.CategoryOf(p.Category) == labels.NormalizeCategory(sel)
}

// ColorMatches passes when some colour of p carries sel in any language.
func ColorMatches(p *domain.Product, sel string) bool {
	if labels.IsAll(sel) {
		return true
	}
	target := labels.Fold(sel)
	for _, c := range p.Colors {
		for _, k := range labels.ColorKeys(c.ColorName) {
			if k == target {
				return true
			}
		}
	}
	return false
}

// PriceMatches checks the numeric price against the inclusive range.
func PriceMatches(p *domain.Product, lo, hi float64) bool {
	pr := NumericPrice(p)
	return pr >= lo && pr <= hi
}

// SearchMatches is a case-insensitive substring match over every title and
// the embroidery text. A blank term matches everything.
func SearchMatches(p *domain.Product, term string) bool {
	q := labels.Lower(term)
	if q == "" {
		return true
	}

	pool := append(p.TitleVariants(), labels.EmbroideryText(p.EmbroideryCategory))
	for _, candidate := range pool {
		if candidate != "" && strings.Contains(labels.Lower(candidate), q) {
			return true
		}
	}
	return false
}

// EmbroideryMatches is a case-insensitive substring match on the embroidery
// text in any language.
func EmbroideryMatches(p *domain.Product, sel string) bool {
	if labels.IsAll(sel) {
		return true
	}
	text := labels.Lower(labels.EmbroideryText(p.EmbroideryCategory))
	return strings.Contains(text, labels.Lower(sel))
}

var categoryRank = map[string]int{
	labels.CategoryMen:      0,
	labels.CategoryWomen:    1,
	labels.CategoryChildren: 2,
}

// SortByCategory orders products Men, Women, Children, then the rest,
// keeping input order within a group.
func SortByCategory(products []domain.Product) {
	rank := func(p *domain.Product) int {
		if r, ok := categoryRank[labels.CategoryOf(p.Category)]; ok {
			return r
		}
		return len(categoryRank)
	}
	slices.SortStableFunc(products, func(a, b domain.Product) int {
		return rank(&a) - rank(&b)
	})
}
