package domain

// CartColor is the colour snapshot stored on a cart line.
type CartColor struct {
	ID        string        `json:"_id,omitempty"`
	ColorName LocalizedText `json:"colorName"`
	Image     string        `json:"image,omitempty"`
	Stock     int           `json:"stock"`
}

// CartLine is one (product, colour) pairing in a client cart.
type CartLine struct {
	ProductID          string        `json:"_id"`
	Title              string        `json:"title"`
	CoverImage         string        `json:"coverImage,omitempty"`
	EmbroideryCategory LocalizedText `json:"embroideryCategory"`
	UnitPrice          float64       `json:"newPrice"`
	Quantity           int           `json:"quantity"`
	Color              CartColor     `json:"color"`
}
