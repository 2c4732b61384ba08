package transport

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"wahret-zmen/internal/catalog"
	"wahret-zmen/internal/domain"
	"wahret-zmen/internal/middleware"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogFixture() []domain.Product {
	var products []domain.Product
	for i := 0; i < 15; i++ {
		products = append(products, testProduct(fmt.Sprintf("m%02d", i), "men", float64(40+i*10), testColor("Red", "Rouge", "أحمر", 2)))
	}
	products = append(products,
		testProduct("w1", "femmes", 60, testColor("Black", "Noir", "أسود", 1)),
		testProduct("c1", "enfants", 30, testColor("Beige", "Beige", "بيج", 0)),
	)
	return products
}

func TestProductHandler_ListWindows(t *testing.T) {
	api := newTestAPI(t, catalogFixture()...)

	w := api.do(t, http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[catalog.Page[domain.Product]](t, w)
	assert.Len(t, page.Items, 12)
	assert.Equal(t, 17, page.Total)
	assert.Equal(t, 24, page.NextLimit)
	assert.True(t, page.HasMore)

	w = api.do(t, http.MethodGet, "/api/products?limit=12&loadMore=true", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[catalog.Page[domain.Product]](t, w)
	assert.Len(t, page.Items, 17)
	assert.False(t, page.HasMore)
}

func TestProductHandler_ListFilters(t *testing.T) {
	api := newTestAPI(t, catalogFixture()...)

	tests := []struct {
		query string
		total int
	}{
		{"category=Women", 1},
		{"category=%D8%A3%D8%B7%D9%81%D8%A7%D9%84", 1},
		{"color=noir", 1},
		{"color=%D8%A3%D8%AD%D9%85%D8%B1", 15},
		{"minPrice=100&maxPrice=150", 6},
		{"search=jebba%20w1", 1},
		{"q=JEBBA", 17},
		{"embroidery=broderie", 17},
		{"category=men&color=Black", 0},
		{"category=jackets", 17},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := api.do(t, http.MethodGet, "/api/products?"+tt.query, nil, "")
			require.Equal(t, http.StatusOK, w.Code)
			page := decode[catalog.Page[domain.Product]](t, w)
			assert.Equal(t, tt.total, page.Total)
			assert.NotNil(t, page.Items)
		})
	}
}

func TestProductHandler_ListRejectsBadNumbers(t *testing.T) {
	api := newTestAPI(t)

	for _, query := range []string{"minPrice=abc", "maxPrice=-3", "limit=x"} {
		w := api.do(t, http.MethodGet, "/api/products?"+query, nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
		resp := decode[middleware.ErrorResponse](t, w)
		assert.Contains(t, resp.Error.Details, "validation_errors")
	}
}

func TestProductHandler_FacetsAndSimilar(t *testing.T) {
	api := newTestAPI(t, catalogFixture()...)

	w := api.do(t, http.MethodGet, "/api/products/facets", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	facets := decode[catalog.Facets](t, w)
	assert.Equal(t, 30.0, facets.MinPrice)
	assert.Equal(t, 180.0, facets.MaxPrice)
	assert.Contains(t, facets.Categories, "Women")

	w = api.do(t, http.MethodGet, "/api/products/m00/similar", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Product](t, w), catalog.SimilarLimit)

	w = api.do(t, http.MethodGet, "/api/products/m00/similar?by=price", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/products/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_AdminWrites(t *testing.T) {
	api := newTestAPI(t, catalogFixture()...)
	token := api.login(t)

	body := map[string]interface{}{
		"title":      "Jebba Tounsia",
		"category":   map[string]string{"en": "Women", "fr": "Femmes", "ar": "نساء"},
		"newPrice":   "250 TND",
		"rating":     7,
		"coverImage": "/img/tounsia.jpg",
		"colors": []map[string]interface{}{
			{"colorName": "Bleu", "stock": 2},
			{"colorName": map[string]string{"en": "White", "fr": "Blanc", "ar": "أبيض"}, "stock": 3},
		},
	}

	w := api.do(t, http.MethodPost, "/api/products/create-product", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodPost, "/api/products/create-product", body, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.Product](t, w)
	assert.Equal(t, 5, created.StockQuantity)
	assert.Equal(t, 5.0, created.Rating)
	assert.Equal(t, "/img/tounsia.jpg", created.Colors[0].Image)

	// The debounced refetch picks the new product up.
	require.Eventually(t, func() bool {
		w := api.do(t, http.MethodGet, "/api/products?category=Women", nil, "")
		return decode[catalog.Page[domain.Product]](t, w).Total == 2
	}, time.Second, 10*time.Millisecond)

	w = api.do(t, http.MethodPut, "/api/products/update-price/"+created.ID, UpdatePriceRequest{Percentage: floatPtr(20)}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	discounted := decode[domain.Product](t, w)
	assert.Equal(t, 200.0, catalog.NumericPrice(&discounted))

	w = api.do(t, http.MethodPut, "/api/products/update-price/"+created.ID, map[string]float64{"percentage": 120}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body["title"] = "Jebba Tounsia Deluxe"
	w = api.do(t, http.MethodPut, "/api/products/edit/"+created.ID, body, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Jebba Tounsia Deluxe", decode[domain.Product](t, w).Title)

	w = api.do(t, http.MethodDelete, "/api/products/"+created.ID, nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	w = api.do(t, http.MethodDelete, "/api/products/"+created.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Feature: storefront, Property 24: Product writes without title, category or price are rejected
func TestProperty_InvalidProductsRejected(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t)

	properties := gopter.NewProperties(nil)

	properties.Property("missing required product fields yield 400", prop.ForAll(
		func(missing int, title string) bool {
			body := map[string]interface{}{
				"title":    title,
				"category": "Men",
				"newPrice": 80,
			}
			switch missing % 3 {
			case 0:
				body["title"] = "   "
			case 1:
				delete(body, "category")
			case 2:
				body["newPrice"] = "free"
			}

			w := api.do(t, http.MethodPost, "/api/products/create-product", body, token)
			return w.Code == http.StatusBadRequest
		},
		gen.IntRange(0, 2),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
	assert.Empty(t, api.products.products)
}

func floatPtr(f float64) *float64 { return &f }
