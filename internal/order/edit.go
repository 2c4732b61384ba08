package order

import (
	"errors"
	"strings"

	"wahret-zmen/internal/domain"
	"wahret-zmen/internal/labels"

	"github.com/shopspring/decimal"
)

var (
	ErrLineNotFound    = errors.New("order line not found")
	ErrInvalidQuantity = errors.New("invalid quantity to remove")
)

// ProductKey identifies an order line as "productID|colour", the colour
// being its English, French or Arabic name, or "Original".
func ProductKey(item domain.OrderItem) string {
	return item.ProductID + "|" + labels.PrimaryColorName(item.Color.ColorName)
}

// RemoveQuantity takes n units off the line identified by key, dropping the
// line when none remain. The returned bool is true when the order has no
// lines left and should be deleted.
func RemoveQuantity(o *domain.Order, key string, n int) (bool, error) {
	idx := -1
	for i, item := range o.Products {
		if ProductKey(item) == strings.TrimSpace(key) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, ErrLineNotFound
	}

	item := &o.Products[idx]
	if n < 1 || n > item.Quantity {
		return false, ErrInvalidQuantity
	}

	if item.UnitPrice > 0 {
		removed := decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(n)))
		total := decimal.NewFromFloat(o.TotalPrice).Sub(removed)
		if total.IsNegative() {
			total = decimal.Zero
		}
		o.TotalPrice = total.Round(2).InexactFloat64()
	}

	item.Quantity -= n
	if item.Quantity == 0 {
		o.Products = append(o.Products[:idx], o.Products[idx+1:]...)
	}
	return len(o.Products) == 0, nil
}
