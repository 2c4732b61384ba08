// Package cart holds the cart line reducers. Every function returns a new
// slice and leaves its input untouched; Store adds state and notifications
// on top of them.
package cart

import (
	"strings"

	"wahret-zmen/internal/catalog"
	"wahret-zmen/internal/domain"
	"wahret-zmen/internal/labels"
)

// MergePolicy controls what happens when quantities are summed into an
// existing line.
type MergePolicy struct {
	// CapAtStock bounds a line's quantity by the stock of its colour when
	// that stock is known (positive).
	CapAtStock bool
}

// Key identifies a cart line: one product in one colour.
type Key struct {
	ProductID string
	Color     domain.LocalizedText
}

// KeyOf returns the key of an existing line.
func KeyOf(line domain.CartLine) Key {
	return Key{ProductID: line.ProductID, Color: line.Color.ColorName}
}

// Matches reports whether line belongs to k. Colours match when they share a
// value in any language, compared case and accent insensitively.
func (k Key) Matches(line domain.CartLine) bool {
	return k.ProductID == line.ProductID && labels.SameColor(k.Color, line.Color.ColorName)
}

// NewLine builds a cart line for qty units of p in colour c. The colour name
// is converted to its localized shape here, so every stored line has one.
func NewLine(p *domain.Product, c domain.CartColor, qty int) domain.CartLine {
	c.ColorName = labels.CanonicalizeColorName(c.ColorName)
	if strings.TrimSpace(c.Image) == "" {
		c.Image = p.CoverImage
	}
	return domain.CartLine{
		ProductID:          p.ID,
		Title:              p.Title,
		CoverImage:         p.CoverImage,
		EmbroideryCategory: p.EmbroideryCategory,
		UnitPrice:          catalog.NumericPrice(p),
		Quantity:           max(qty, 1),
		Color:              c,
	}
}

// Add merges qty units of p in colour c into lines. Quantities of an
// existing line are summed; otherwise a new line is appended.
func Add(lines []domain.CartLine, p *domain.Product, c domain.CartColor, qty int, policy MergePolicy) []domain.CartLine {
	incoming := NewLine(p, c, qty)
	key := KeyOf(incoming)

	out := clone(lines)
	for i := range out {
		if key.Matches(out[i]) {
			out[i].Quantity = policy.apply(out[i].Quantity+incoming.Quantity, out[i].Color.Stock)
			return out
		}
	}

	incoming.Quantity = policy.apply(incoming.Quantity, incoming.Color.Stock)
	return append(out, incoming)
}

// Remove deletes every line matching the product and colour, whatever its
// quantity.
func Remove(lines []domain.CartLine, productID string, color domain.LocalizedText) []domain.CartLine {
	key := Key{ProductID: productID, Color: color}
	out := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		if !key.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}

// UpdateQuantity sets the quantity of the matching line. It is a no-op when
// no line matches.
func UpdateQuantity(lines []domain.CartLine, productID string, color domain.LocalizedText, qty int) []domain.CartLine {
	key := Key{ProductID: productID, Color: color}
	out := clone(lines)
	for i := range out {
		if key.Matches(out[i]) {
			out[i].Quantity = qty
			return out
		}
	}
	return out
}

// Clear empties the cart.
func Clear([]domain.CartLine) []domain.CartLine {
	return []domain.CartLine{}
}

// Find returns the line matching the product and colour.
func Find(lines []domain.CartLine, productID string, color domain.LocalizedText) (domain.CartLine, bool) {
	key := Key{ProductID: productID, Color: color}
	for _, l := range lines {
		if key.Matches(l) {
			return l, true
		}
	}
	return domain.CartLine{}, false
}

// Count is the total number of units in the cart.
func Count(lines []domain.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func (p MergePolicy) apply(qty, stock int) int {
	if p.CapAtStock && stock > 0 && qty > stock {
		return stock
	}
	return qty
}

func clone(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, len(lines), len(lines)+1)
	copy(out, lines)
	return out
}
