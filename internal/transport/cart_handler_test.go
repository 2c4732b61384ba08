package transport

import (
	"net/http"
	"testing"

	"wahret-zmen/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCart(t *testing.T, api *testAPI) string {
	t.Helper()
	w := api.do(t, http.MethodPost, "/api/cart", nil, "")
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode[CartResponse](t, w)
	require.NotEmpty(t, resp.CartID)
	assert.Empty(t, resp.Items)
	return resp.CartID
}

func TestCartHandler_Flow(t *testing.T) {
	api := newTestAPI(t,
		testProduct("p1", "men", 80, testColor("Red", "Rouge", "أحمر", 4)),
		testProduct("p2", "women", 45.5),
	)
	cartID := newCart(t, api)
	base := "/api/cart/" + cartID

	w := api.do(t, http.MethodPost, base+"/items", CartItemRequest{ProductID: "p1", ColorName: domain.PlainText("Rouge")}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodPost, base+"/items", map[string]interface{}{"productId": "p1", "colorName": "rouge", "quantity": 2}, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[CartResponse](t, w)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Quantity)

	w = api.do(t, http.MethodPost, base+"/items", CartItemRequest{ProductID: "p2"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[CartResponse](t, w)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Original", resp.Items[1].Color.ColorName.EN)
	assert.Equal(t, 4, resp.Count)
	assert.Equal(t, 285.5, resp.TotalPrice)

	w = api.do(t, http.MethodPut, base+"/items", map[string]interface{}{"productId": "p1", "colorName": "أحمر", "quantity": 50}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decode[CartResponse](t, w).Items[0].Quantity)

	w = api.do(t, http.MethodDelete, base+"/items", map[string]interface{}{"productId": "p1", "colorName": map[string]string{"en": "Red"}}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[CartResponse](t, w).Items, 1)

	w = api.do(t, http.MethodGet, base, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[CartResponse](t, w).Items, 1)

	w = api.do(t, http.MethodDelete, base, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(t, http.MethodGet, base, nil, "")
	assert.Empty(t, decode[CartResponse](t, w).Items)
}

func TestCartHandler_Errors(t *testing.T) {
	api := newTestAPI(t,
		testProduct("p1", "men", 80, testColor("Red", "Rouge", "أحمر", 0), testColor("Black", "Noir", "أسود", 1)),
	)
	cartID := newCart(t, api)
	base := "/api/cart/" + cartID

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"bad cart id", http.MethodGet, "/api/cart/not-a-uuid", nil, http.StatusBadRequest},
		{"missing product id", http.MethodPost, base + "/items", map[string]int{"quantity": 1}, http.StatusBadRequest},
		{"negative quantity", http.MethodPost, base + "/items", map[string]interface{}{"productId": "p1", "quantity": -2}, http.StatusBadRequest},
		{"unknown product", http.MethodPost, base + "/items", CartItemRequest{ProductID: "nope"}, http.StatusNotFound},
		{"unknown colour", http.MethodPost, base + "/items", CartItemRequest{ProductID: "p1", ColorName: domain.PlainText("Vert")}, http.StatusUnprocessableEntity},
		{"out of stock", http.MethodPost, base + "/items", CartItemRequest{ProductID: "p1", ColorName: domain.PlainText("Rouge")}, http.StatusConflict},
		{"update without quantity", http.MethodPut, base + "/items", CartItemRequest{ProductID: "p1"}, http.StatusBadRequest},
		{"update missing line", http.MethodPut, base + "/items", CartItemRequest{ProductID: "p1", ColorName: domain.PlainText("Noir"), Quantity: 1}, http.StatusNotFound},
		{"remove missing line", http.MethodDelete, base + "/items", CartItemRequest{ProductID: "p1"}, http.StatusNotFound},
		{"malformed body", http.MethodPost, base + "/items", "{", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, tt.method, tt.path, tt.body, "")
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}
