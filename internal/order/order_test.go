package order

import (
	"errors"
	"reflect"
	"testing"

	"wahret-zmen/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(id string, price float64, qty int) domain.CartLine {
	return domain.CartLine{
		ProductID:  id,
		CoverImage: "/" + id + ".jpg",
		UnitPrice:  price,
		Quantity:   qty,
		Color:      domain.CartColor{ColorName: domain.Localize("Red", "Rouge", "أحمر"), Image: "/" + id + "-red.jpg"},
	}
}

func TestBuildPayload(t *testing.T) {
	lines := []domain.CartLine{line("p1", 19.99, 3), line("p2", 0.1, 2)}
	lines[1].Color.Image = ""

	req, err := BuildPayload(lines, Shipping{Name: "Amel", Street: " 12 rue de Marseille ", City: "Tunis"})
	require.NoError(t, err)

	assert.Equal(t, 60.17, req.TotalPrice)
	assert.Equal(t, domain.PaymentCashOnDelivery, req.PaymentMethod)
	assert.Equal(t, domain.Address{Street: "12 rue de Marseille", City: "Tunis", Country: "Tunisia", State: "—", Zipcode: "0000"}, req.Address)
	require.Len(t, req.Products, 2)
	assert.Equal(t, "/p1-red.jpg", req.Products[0].Color.Image)
	assert.Equal(t, "/p2.jpg", req.Products[1].Color.Image)
	assert.Equal(t, 3, req.Products[0].Quantity)
}

func TestBuildPayload_KeepsProvidedAddress(t *testing.T) {
	req, err := BuildPayload([]domain.CartLine{line("p1", 10, 1)}, Shipping{
		Street: "Av. Habib Bourguiba", City: "Sousse", Country: "France", State: "Sahel", Zipcode: "4000",
	})
	require.NoError(t, err)
	assert.Equal(t, "France", req.Address.Country)
	assert.Equal(t, "Sahel", req.Address.State)
	assert.Equal(t, "4000", req.Address.Zipcode)
}

func TestBuildPayload_Rejects(t *testing.T) {
	lines := []domain.CartLine{line("p1", 10, 1)}

	tests := []struct {
		name  string
		lines []domain.CartLine
		ship  Shipping
		want  error
	}{
		{"empty cart", nil, Shipping{Street: "a", City: "b"}, ErrEmptyCart},
		{"blank street", lines, Shipping{Street: "   ", City: "Tunis"}, ErrInvalidShipping},
		{"missing city", lines, Shipping{Street: "rue"}, ErrInvalidShipping},
		{"bad email", lines, Shipping{Street: "rue", City: "Tunis", Email: "nope"}, ErrInvalidShipping},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildPayload(tt.lines, tt.ship)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestItem_DefaultImage(t *testing.T) {
	l := line("p1", 10, 1)
	l.Color.Image, l.CoverImage = "", ""
	assert.Equal(t, DefaultImage, Item(l).Color.Image)

	l.Color.ColorName = domain.PlainText("")
	assert.Equal(t, domain.Localize("Original", "Original", "أصلي"), Item(l).Color.ColorName)
}

// Feature: storefront, Property 9: Order assembly never mutates the cart
func TestProperty_BuildPayloadIsPure(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("total matches line sum and cart is untouched", prop.ForAll(
		func(qtys []int) bool {
			lines := make([]domain.CartLine, len(qtys))
			want := 0
			for i, q := range qtys {
				lines[i] = line("p", 5, q)
				want += 5 * q
			}
			snapshot := append([]domain.CartLine(nil), lines...)

			req, err := BuildPayload(lines, Shipping{Street: "rue", City: "Tunis"})
			if err != nil {
				return false
			}
			if !reflect.DeepEqual(lines, snapshot) {
				return false
			}
			return req.TotalPrice == float64(want) && len(req.Products) == len(lines)
		},
		gen.SliceOfN(5, gen.IntRange(1, 20)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func placed() *domain.Order {
	return &domain.Order{
		ID: "o1",
		Products: []domain.OrderItem{
			{ProductID: "p1", Quantity: 3, UnitPrice: 10, Color: domain.OrderColor{ColorName: domain.Localize("Red", "Rouge", "أحمر")}},
			{ProductID: "p2", Quantity: 1, UnitPrice: 25, Color: domain.OrderColor{ColorName: domain.PlainText("")}},
		},
		TotalPrice: 55,
	}
}

func TestProductKey(t *testing.T) {
	o := placed()
	assert.Equal(t, "p1|Red", ProductKey(o.Products[0]))
	assert.Equal(t, "p2|Original", ProductKey(o.Products[1]))
}

func TestRemoveQuantity(t *testing.T) {
	o := placed()

	empty, err := RemoveQuantity(o, "p1|Red", 2)
	require.NoError(t, err)
	assert.False(t, empty)
	assert.Equal(t, 1, o.Products[0].Quantity)
	assert.Equal(t, 35.0, o.TotalPrice)

	empty, err = RemoveQuantity(o, "p1|Red", 1)
	require.NoError(t, err)
	assert.False(t, empty)
	require.Len(t, o.Products, 1)

	empty, err = RemoveQuantity(o, "p2|Original", 1)
	require.NoError(t, err)
	assert.True(t, empty)
	assert.Equal(t, 0.0, o.TotalPrice)
}

func TestRemoveQuantity_Errors(t *testing.T) {
	o := placed()

	_, err := RemoveQuantity(o, "p9|Red", 1)
	assert.ErrorIs(t, err, ErrLineNotFound)

	_, err = RemoveQuantity(o, "p1|Red", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = RemoveQuantity(o, "p1|Red", 4)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 3, o.Products[0].Quantity)
}
