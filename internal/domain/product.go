package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Translation holds the per-language product copy.
type Translation struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// FlexNumber is a numeric field that may arrive as a JSON number or as a
// string such as "120 TND".
type FlexNumber string

// UnmarshalJSON keeps a string as is and a number in plain decimal form, so
// 1.5e2 is stored as "150".
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = FlexNumber(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", data, err)
	}
	*n = FlexNumber(strconv.FormatFloat(v, 'f', -1, 64))
	return nil
}

// MarshalJSON writes a number when the text is a plain decimal.
func (n FlexNumber) MarshalJSON() ([]byte, error) {
	if plainDecimal(string(n)) {
		return []byte(n), nil
	}
	return json.Marshal(string(n))
}

func plainDecimal(s string) bool {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return false
	}
	return strings.Trim(s, "-0123456789.") == ""
}

// Value strips everything but digits and dots and parses the rest.
func (n FlexNumber) Value() (float64, bool) {
	var sb strings.Builder
	for _, r := range string(n) {
		if (r >= '0' && r <= '9') || r == '.' {
			sb.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NewFlexNumber formats f as a FlexNumber.
func NewFlexNumber(f float64) *FlexNumber {
	n := FlexNumber(strconv.FormatFloat(f, 'f', -1, 64))
	return &n
}

// PriceSet is an alternative price shape some records carry.
type PriceSet struct {
	Current *float64 `json:"current,omitempty"`
}

// Color is a colour variant owned by one product.
type Color struct {
	ID        string        `json:"_id,omitempty"`
	ColorName LocalizedText `json:"colorName"`
	Images    []string      `json:"images"`
	Image     string        `json:"image,omitempty"`
	Stock     int           `json:"stock"`
}

// PrimaryImage returns the cover image of the colour.
func (c Color) PrimaryImage() string {
	if len(c.Images) > 0 {
		return c.Images[0]
	}
	return c.Image
}

// Product is a catalog record as served by the product API.
type Product struct {
	ID                 string               `json:"_id"`
	Title              string               `json:"title"`
	Description        string               `json:"description,omitempty"`
	Translations       map[Lang]Translation `json:"translations,omitempty"`
	Category           LocalizedText        `json:"category"`
	EmbroideryCategory LocalizedText        `json:"embroideryCategory"`
	CoverImage         string               `json:"coverImage,omitempty"`
	Colors             []Color              `json:"colors"`
	NewPrice           *FlexNumber          `json:"newPrice,omitempty"`
	OldPrice           *FlexNumber          `json:"oldPrice,omitempty"`
	Price              *FlexNumber          `json:"price,omitempty"`
	Pricing            *FlexNumber          `json:"pricing,omitempty"`
	Prices             *PriceSet            `json:"prices,omitempty"`
	Rating             float64              `json:"rating"`
	Trending           bool                 `json:"trending"`
	StockQuantity      int                  `json:"stockQuantity"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

// LocalizedTitle follows lang -> fr -> en -> plain title.
func (p *Product) LocalizedTitle(lang Lang) string {
	return p.localized(lang, func(t Translation) string { return t.Title }, p.Title)
}

// LocalizedDescription follows lang -> fr -> en -> plain description.
func (p *Product) LocalizedDescription(lang Lang) string {
	return p.localized(lang, func(t Translation) string { return t.Description }, p.Description)
}

func (p *Product) localized(lang Lang, pick func(Translation) string, plain string) string {
	for _, l := range []Lang{lang, LangFR, LangEN} {
		if t, ok := p.Translations[l]; ok {
			if v := strings.TrimSpace(pick(t)); v != "" {
				return v
			}
		}
	}
	return plain
}

// TitleVariants returns every non-empty title the product carries.
func (p *Product) TitleVariants() []string {
	var out []string
	if p.Title != "" {
		out = append(out, p.Title)
	}
	for _, l := range []Lang{LangFR, LangAR, LangEN} {
		if t, ok := p.Translations[l]; ok && t.Title != "" {
			out = append(out, t.Title)
		}
	}
	return out
}

// TotalStock is the sum of the colours' stock.
func (p *Product) TotalStock() int {
	total := 0
	for _, c := range p.Colors {
		total += c.Stock
	}
	return total
}

// HasDiscount reports whether oldPrice is above newPrice.
func (p *Product) HasDiscount() bool {
	if p.OldPrice == nil {
		return false
	}
	oldPrice, ok := p.OldPrice.Value()
	if !ok {
		return false
	}
	var newPrice float64
	if p.NewPrice != nil {
		newPrice, _ = p.NewPrice.Value()
	}
	return oldPrice > newPrice
}
