package domain

import "time"

// PaymentCashOnDelivery is the only payment method the storefront offers.
const PaymentCashOnDelivery = "Cash on Delivery"

// Address is the shipping address of an order.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Country string `json:"country"`
	State   string `json:"state"`
	Zipcode string `json:"zipcode"`
}

// OrderColor is the colour snapshot of an order line.
type OrderColor struct {
	ID        string        `json:"_id,omitempty"`
	ColorName LocalizedText `json:"colorName"`
	Image     string        `json:"image"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID string     `json:"productId"`
	Quantity  int        `json:"quantity"`
	UnitPrice float64    `json:"unitPrice,omitempty"`
	Color     OrderColor `json:"color"`
}

// Order is a placed cash-on-delivery order.
type Order struct {
	ID            string      `json:"_id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	Address       Address     `json:"address"`
	Products      []OrderItem `json:"products"`
	TotalPrice    float64     `json:"totalPrice"`
	PaymentMethod string      `json:"paymentMethod"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}
