package transport

import (
	"errors"
	"net/http"

	"wahret-zmen/internal/middleware"
	"wahret-zmen/internal/order"
	"wahret-zmen/internal/repository"
	"wahret-zmen/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutRequest represents the checkout payload: the cart to order and
// the shipping form.
type CheckoutRequest struct {
	CartID string `json:"cartId" validate:"required,uuid"`
	order.Shipping
}

// RemoveQuantityRequest represents a partial order line removal
type RemoveQuantityRequest struct {
	ProductKey string `json:"productKey" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
}

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	orders service.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// RegisterRoutes registers all order routes. checkoutLimiter wraps order
// placement; adminMiddleware guards order edits.
func (h *OrderHandler) RegisterRoutes(r chi.Router, checkoutLimiter func(http.Handler) http.Handler, adminMiddleware ...func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.With(checkoutLimiter).Post("/", h.Checkout)
		r.Get("/email/{email}", h.ListByEmail)

		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware...)
			r.Get("/", h.List)
			r.Delete("/{id}", h.Delete)
			r.Post("/{id}/remove-quantity", h.RemoveQuantity)
		})
	})
}

// Checkout places a cash-on-delivery order from a cart
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Checkout validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	o, err := h.orders.Checkout(r.Context(), req.CartID, req.Shipping)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to place order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, o)
}

// List returns every order for the dashboard, newest first
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		h.respondWithServiceError(w, err, "failed to list orders")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		h.respondWithServiceError(w, err, "failed to list orders")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondWithServiceError(w, err, "failed to delete order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}

// RemoveQuantity takes units off one order line
func (h *OrderHandler) RemoveQuantity(w http.ResponseWriter, r *http.Request) {
	var req RemoveQuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Remove quantity validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	o, err := h.orders.RemoveQuantity(r.Context(), chi.URLParam(r, "id"), req.ProductKey, req.Quantity)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to update order")
		return
	}

	if o == nil {
		middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"deleted": false, "order": o})
}

func (h *OrderHandler) respondWithServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, order.ErrLineNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidShipping),
		errors.Is(err, order.ErrInvalidQuantity):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
