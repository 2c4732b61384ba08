package transport

import (
	"errors"
	"net/http"

	"wahret-zmen/internal/cart"
	"wahret-zmen/internal/domain"
	"wahret-zmen/internal/middleware"
	"wahret-zmen/internal/order"
	"wahret-zmen/internal/repository"
	"wahret-zmen/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartItemRequest identifies a cart line. ColorName may be a plain string or
// a {en, fr, ar} object; blank picks the product's default colour.
type CartItemRequest struct {
	ProductID string               `json:"productId" validate:"required"`
	ColorName domain.LocalizedText `json:"colorName"`
	Quantity  int                  `json:"quantity" validate:"omitempty,min=1"`
}

// CartResponse is a cart with its computed count and total
type CartResponse struct {
	CartID     string            `json:"cartId"`
	Items      []domain.CartLine `json:"items"`
	Count      int               `json:"count"`
	TotalPrice float64           `json:"totalPrice"`
}

// CartHandler handles HTTP requests for server-side carts
type CartHandler struct {
	carts  service.CartService
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Post("/", h.New)
		r.Route("/{cartID}", func(r chi.Router) {
			r.Use(h.requireCartID)
			r.Get("/", h.Get)
			r.Delete("/", h.Clear)
			r.Post("/items", h.AddItem)
			r.Put("/items", h.UpdateItem)
			r.Delete("/items", h.RemoveItem)
		})
	})
}

// New hands out a fresh cart ID
func (h *CartHandler) New(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusCreated, newCartResponse(uuid.NewString(), nil))
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	lines, err := h.carts.Get(r.Context(), cartID)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to load cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(cartID, lines))
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	if err := h.carts.Clear(r.Context(), cartID); err != nil {
		h.respondWithServiceError(w, err, "failed to clear cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(cartID, nil))
}

// AddItem adds a product colour to the cart, merging with an existing line
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req CartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Cart item validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cartID := chi.URLParam(r, "cartID")
	lines, err := h.carts.Add(r.Context(), cartID, req.ProductID, req.ColorName, req.Quantity)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to add to cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(cartID, lines))
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req CartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Cart item validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}
	if req.Quantity == 0 {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: "quantity", Message: "quantity is required"},
		})
		return
	}

	cartID := chi.URLParam(r, "cartID")
	lines, err := h.carts.UpdateQuantity(r.Context(), cartID, req.ProductID, req.ColorName, req.Quantity)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to update cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(cartID, lines))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	var req CartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Cart item validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	cartID := chi.URLParam(r, "cartID")
	lines, err := h.carts.Remove(r.Context(), cartID, req.ProductID, req.ColorName)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to remove from cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(cartID, lines))
}

func (h *CartHandler) requireCartID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := uuid.Parse(chi.URLParam(r, "cartID")); err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid cart ID")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *CartHandler) respondWithServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrCartLineNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "cart line not found")
	case errors.Is(err, service.ErrUnknownColor):
		middleware.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrOutOfStock):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidQuantity):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

func newCartResponse(cartID string, lines []domain.CartLine) CartResponse {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return CartResponse{
		CartID:     cartID,
		Items:      lines,
		Count:      cart.Count(lines),
		TotalPrice: order.Total(lines),
	}
}
