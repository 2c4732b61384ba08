package catalog

import (
	"math"
	"strings"

	"wahret-zmen/internal/domain"
	"wahret-zmen/internal/labels"
)

// EmbroideryOption is one entry of the embroidery filter.
type EmbroideryOption struct {
	Value string `json:"value"`
	EN    string `json:"en"`
	FR    string `json:"fr"`
	AR    string `json:"ar"`
}

// Label prefers the requested language, then Arabic, French and English.
func (o EmbroideryOption) Label(lang domain.Lang) string {
	return domain.Localize(o.EN, o.FR, o.AR).First(lang, domain.LangAR, domain.LangFR, domain.LangEN)
}

// Facets are the filter options and price bounds derived from a product list.
type Facets struct {
	Categories []string           `json:"categories"`
	Colors     []string           `json:"colors"`
	Embroidery []EmbroideryOption `json:"embroideryTypes"`
	MinPrice   float64            `json:"minPrice"`
	MaxPrice   float64            `json:"maxPrice"`
}

// BuildFacets derives the filter options of products.
func BuildFacets(products []domain.Product) Facets {
	categories := newOrderedSet(labels.CategoryAll, labels.CategoryMen, labels.CategoryWomen, labels.CategoryChildren)
	colors := newOrderedSet(labels.CategoryAll)
	embroidery := []EmbroideryOption{{Value: labels.CategoryAll, EN: "All", FR: "Tous", AR: "الكل"}}
	seenEmbroidery := map[string]struct{}{labels.CategoryAll: {}}

	minP, maxP := math.Inf(1), 0.0

	for i := range products {
		p := &products[i]

		if canon := labels.CategoryOf(p.Category); canon != "" {
			categories.add(canon)
		}

		for _, c := range p.Colors {
			name := c.ColorName.Plain
			if c.ColorName.IsLocalized() {
				name = c.ColorName.First(domain.LangEN, domain.LangFR, domain.LangAR)
			}
			if n := labels.Lower(name); n != "" {
				colors.add(labels.Capitalize(n))
			}
		}

		if opt, ok := embroideryOption(p.EmbroideryCategory); ok {
			if _, dup := seenEmbroidery[opt.Value]; !dup {
				seenEmbroidery[opt.Value] = struct{}{}
				embroidery = append(embroidery, opt)
			}
		}

		if pr := NumericPrice(p); pr > 0 {
			minP = math.Min(minP, pr)
			maxP = math.Max(maxP, pr)
		}
	}

	if math.IsInf(minP, 1) {
		minP = 0
	}
	if maxP < minP {
		maxP = minP + 500
	}

	return Facets{
		Categories: categories.items,
		Colors:     colors.items,
		Embroidery: embroidery,
		MinPrice:   math.Floor(minP),
		MaxPrice:   math.Ceil(maxP),
	}
}

// ResolveCategory maps a category selection to one of the facet categories.
// A selection that names none of them falls back to "All".
func ResolveCategory(sel string, f Facets) string {
	if labels.IsAll(sel) {
		return labels.CategoryAll
	}
	key := labels.NormalizeCategory(sel)
	for _, c := range f.Categories {
		if c == key {
			return key
		}
	}
	return labels.CategoryAll
}

// ClampPriceRange keeps a selected range inside the facet bounds. A zero
// bound selects the facet bound; an inverted result resets to the full range.
func ClampPriceRange(lo, hi float64, f Facets) (float64, float64) {
	if lo == 0 {
		lo = f.MinPrice
	}
	if hi == 0 {
		hi = f.MaxPrice
	}
	lo = math.Max(f.MinPrice, lo)
	hi = math.Min(f.MaxPrice, hi)
	if lo > hi {
		return f.MinPrice, f.MaxPrice
	}
	return lo, hi
}

func embroideryOption(v domain.LocalizedText) (EmbroideryOption, bool) {
	if !v.IsLocalized() {
		s := strings.TrimSpace(v.Plain)
		if s == "" {
			return EmbroideryOption{}, false
		}
		return EmbroideryOption{Value: s, EN: s, FR: s, AR: s}, true
	}

	en := v.First(domain.LangEN, domain.LangFR, domain.LangAR)
	fr := firstNonEmpty(v.FR, en, v.AR)
	ar := firstNonEmpty(v.AR, v.FR, en)
	key := firstNonEmpty(en, fr, ar)
	if key == "" {
		return EmbroideryOption{}, false
	}
	return EmbroideryOption{Value: key, EN: key, FR: firstNonEmpty(fr, key), AR: firstNonEmpty(ar, key)}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet(initial ...string) *orderedSet {
	s := &orderedSet{seen: make(map[string]struct{})}
	for _, v := range initial {
		s.add(v)
	}
	return s
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
