package service

import (
	"context"
	"fmt"
	"strings"

	"wahret-zmen/internal/cart"
	"wahret-zmen/internal/domain"
	"wahret-zmen/internal/order"
	"wahret-zmen/internal/repository"

	"go.uber.org/zap"
)

// OrderService places cash-on-delivery orders and edits placed ones.
type OrderService interface {
	// Checkout turns the cart into an order. The cart is claimed before the
	// order is stored, so a cart is ordered at most once; it is put back if
	// the order cannot be stored.
	Checkout(ctx context.Context, cartID string, ship order.Shipping) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Order, error)
	Delete(ctx context.Context, id string) error
	// RemoveQuantity takes n units off one order line. The order is deleted
	// when its last line goes; the returned order is nil in that case.
	RemoveQuantity(ctx context.Context, id, productKey string, n int) (*domain.Order, error)
}

type orderService struct {
	orders repository.OrderRepository
	carts  repository.CartRepository
	logger *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orders repository.OrderRepository, carts repository.CartRepository, logger *zap.Logger) OrderService {
	return &orderService{orders: orders, carts: carts, logger: logger}
}

func (s *orderService) Checkout(ctx context.Context, cartID string, ship order.Shipping) (*domain.Order, error) {
	lines, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if _, err := order.BuildPayload(lines, ship); err != nil {
		return nil, err
	}

	claimed, err := s.carts.Take(ctx, cartID)
	if err != nil {
		return nil, err
	}
	// Another checkout may have claimed the cart since it was read.
	req, err := order.BuildPayload(claimed, ship)
	if err != nil {
		s.restoreCart(ctx, cartID, claimed)
		return nil, err
	}

	o := &domain.Order{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Products:      req.Products,
		TotalPrice:    req.TotalPrice,
		PaymentMethod: req.PaymentMethod,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		s.restoreCart(ctx, cartID, claimed)
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.Info("Order placed",
		zap.String("order_id", o.ID),
		zap.String("cart_id", cartID),
		zap.Int("lines", len(o.Products)),
		zap.Float64("total", o.TotalPrice),
	)
	return o, nil
}

// restoreCart puts claimed lines back in front of anything added to the
// cart since it was claimed.
func (s *orderService) restoreCart(ctx context.Context, cartID string, claimed []domain.CartLine) {
	if len(claimed) == 0 {
		return
	}
	_, err := s.carts.Update(context.WithoutCancel(ctx), cartID, func(current []domain.CartLine) ([]domain.CartLine, error) {
		restored := append([]domain.CartLine(nil), claimed...)
		for _, l := range current {
			if _, ok := cart.Find(restored, l.ProductID, l.Color.ColorName); !ok {
				restored = append(restored, l)
			}
		}
		return restored, nil
	})
	if err != nil {
		s.logger.Error("Failed to restore cart after checkout failure", zap.String("cart_id", cartID), zap.Error(err))
	}
}

func (s *orderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

func (s *orderService) ListByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return []domain.Order{}, nil
	}
	return s.orders.FindByEmail(ctx, email)
}

func (s *orderService) Delete(ctx context.Context, id string) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Order deleted", zap.String("order_id", id))
	return nil
}

func (s *orderService) RemoveQuantity(ctx context.Context, id, productKey string, n int) (*domain.Order, error) {
	o, err := s.orders.Edit(ctx, id, func(locked *domain.Order) (bool, error) {
		return order.RemoveQuantity(locked, productKey, n)
	})
	if err != nil {
		return nil, err
	}

	if o == nil {
		s.logger.Info("Order deleted after its last line was removed", zap.String("order_id", id))
		return nil, nil
	}

	s.logger.Info("Order quantity removed",
		zap.String("order_id", id),
		zap.String("product_key", productKey),
		zap.Int("quantity", n),
	)
	return o, nil
}
