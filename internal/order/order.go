// Package order turns a cart into an order request and edits placed orders.
package order

import (
	"errors"
	"fmt"
	"strings"

	"wahret-zmen/internal/domain"
	"wahret-zmen/internal/labels"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	DefaultCountry = "Tunisia"
	DefaultState   = "—"
	DefaultZipcode = "0000"
	DefaultImage   = "/assets/default-image.png"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidShipping = errors.New("invalid shipping information")
)

var validate = validator.New()

// Shipping is the checkout form.
type Shipping struct {
	Name    string `json:"name"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	Country string `json:"country"`
	State   string `json:"state"`
	Zipcode string `json:"zipcode"`
}

// Request is the order payload sent for creation.
type Request struct {
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	Phone         string             `json:"phone"`
	Address       domain.Address     `json:"address"`
	Products      []domain.OrderItem `json:"products"`
	TotalPrice    float64            `json:"totalPrice"`
	PaymentMethod string             `json:"paymentMethod"`
}

// BuildPayload maps cart lines and the shipping form to an order request. It
// fails before anything is sent when the cart is empty or street or city is
// blank, and never modifies lines.
func BuildPayload(lines []domain.CartLine, ship Shipping) (Request, error) {
	if len(lines) == 0 {
		return Request{}, ErrEmptyCart
	}

	ship = trimShipping(ship)
	if err := validate.Struct(ship); err != nil {
		return Request{}, fmt.Errorf("%w: %s", ErrInvalidShipping, describe(err))
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, Item(l))
	}

	return Request{
		Name:  ship.Name,
		Email: ship.Email,
		Phone: ship.Phone,
		Address: domain.Address{
			Street:  ship.Street,
			City:    ship.City,
			Country: orDefault(ship.Country, DefaultCountry),
			State:   orDefault(ship.State, DefaultState),
			Zipcode: orDefault(ship.Zipcode, DefaultZipcode),
		},
		Products:      items,
		TotalPrice:    Total(lines),
		PaymentMethod: domain.PaymentCashOnDelivery,
	}, nil
}

// Item maps one cart line to an order line.
func Item(l domain.CartLine) domain.OrderItem {
	image := l.Color.Image
	if strings.TrimSpace(image) == "" {
		image = l.CoverImage
	}
	if strings.TrimSpace(image) == "" {
		image = DefaultImage
	}
	return domain.OrderItem{
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
		Color: domain.OrderColor{
			ID:        l.Color.ID,
			ColorName: labels.CanonicalizeColorName(l.Color.ColorName),
			Image:     image,
		},
	}
}

// Total is the sum of quantity × unit price, rounded to cents.
func Total(lines []domain.CartLine) float64 {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum.Round(2).InexactFloat64()
}

func trimShipping(s Shipping) Shipping {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Street = strings.TrimSpace(s.Street)
	s.City = strings.TrimSpace(s.City)
	s.Country = strings.TrimSpace(s.Country)
	s.State = strings.TrimSpace(s.State)
	s.Zipcode = strings.TrimSpace(s.Zipcode)
	return s
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field())+" "+fe.Tag())
	}
	return strings.Join(fields, ", ")
}
