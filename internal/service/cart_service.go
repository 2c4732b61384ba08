package service

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"wahret-zmen/internal/cart"
	"wahret-zmen/internal/domain"
	"wahret-zmen/internal/labels"
	"wahret-zmen/internal/repository"

	"go.uber.org/zap"
)

// UnknownStock is the quantity ceiling used when a line's stock is unknown.
const UnknownStock = 999

var (
	ErrUnknownColor     = errors.New("product has no such colour")
	ErrOutOfStock       = errors.New("colour is out of stock")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrCartLineNotFound = errors.New("cart line not found")
)

// CartService keeps server-side carts keyed by a client-chosen cart ID.
type CartService interface {
	Get(ctx context.Context, cartID string) ([]domain.CartLine, error)
	Add(ctx context.Context, cartID, productID string, color domain.LocalizedText, qty int) ([]domain.CartLine, error)
	UpdateQuantity(ctx context.Context, cartID, productID string, color domain.LocalizedText, qty int) ([]domain.CartLine, error)
	Remove(ctx context.Context, cartID, productID string, color domain.LocalizedText) ([]domain.CartLine, error)
	Clear(ctx context.Context, cartID string) error
}

type cartService struct {
	repo    repository.CartRepository
	catalog CatalogService
	policy  cart.MergePolicy
	logger  *zap.Logger
	locks   cartLocks
}

// NewCartService creates a new instance of CartService
func NewCartService(repo repository.CartRepository, catalog CatalogService, policy cart.MergePolicy, logger *zap.Logger) CartService {
	return &cartService{repo: repo, catalog: catalog, policy: policy, logger: logger}
}

func (s *cartService) Get(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	return s.repo.Get(ctx, cartID)
}

// Add puts qty units of a product colour in the cart. A blank colour picks
// the product's first colour, or its synthetic "Original" colour when it
// has none.
func (s *cartService) Add(ctx context.Context, cartID, productID string, color domain.LocalizedText, qty int) ([]domain.CartLine, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return nil, err
	}

	picked, err := ResolveColor(p, color)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, cartID, func(store *cart.Store) error {
		store.Add(p, picked, qty)
		return nil
	})
}

// UpdateQuantity sets a line's quantity, clamped to 1..stock.
func (s *cartService) UpdateQuantity(ctx context.Context, cartID, productID string, color domain.LocalizedText, qty int) ([]domain.CartLine, error) {
	return s.mutate(ctx, cartID, func(store *cart.Store) error {
		line, ok := cart.Find(store.Lines(), productID, color)
		if !ok {
			return ErrCartLineNotFound
		}
		store.UpdateQuantity(productID, color, ClampQuantity(qty, line.Color.Stock))
		return nil
	})
}

func (s *cartService) Remove(ctx context.Context, cartID, productID string, color domain.LocalizedText) ([]domain.CartLine, error) {
	return s.mutate(ctx, cartID, func(store *cart.Store) error {
		if _, ok := cart.Find(store.Lines(), productID, color); !ok {
			return ErrCartLineNotFound
		}
		store.Remove(productID, color)
		return nil
	})
}

func (s *cartService) Clear(ctx context.Context, cartID string) error {
	lock := s.locks.of(cartID)
	lock.Lock()
	defer lock.Unlock()

	lines, err := s.repo.Take(ctx, cartID)
	if err != nil {
		return err
	}
	cart.NewStore(lines, s.policy, s.notifier(cartID)).Clear()
	return nil
}

// mutate applies fn to the stored cart. Events are only logged once the
// change is saved, since fn runs again when the save loses a race.
func (s *cartService) mutate(ctx context.Context, cartID string, fn func(*cart.Store) error) ([]domain.CartLine, error) {
	lock := s.locks.of(cartID)
	lock.Lock()
	defer lock.Unlock()

	var events []cart.Event
	record := cart.NotifierFunc(func(e cart.Event) { events = append(events, e) })

	updated, err := s.repo.Update(ctx, cartID, func(lines []domain.CartLine) ([]domain.CartLine, error) {
		events = events[:0]
		store := cart.NewStore(lines, s.policy, record)
		if err := fn(store); err != nil {
			return nil, err
		}
		return store.Lines(), nil
	})
	if err != nil {
		return nil, err
	}

	notify := s.notifier(cartID)
	for _, e := range events {
		notify.OnCartChanged(e)
	}
	return updated, nil
}

// cartLocks serializes writes to one cart within this process. Writes from
// other processes are caught by the repository's optimistic check.
type cartLocks [64]sync.Mutex

func (l *cartLocks) of(cartID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(cartID))
	return &l[h.Sum32()%uint32(len(l))]
}

func (s *cartService) notifier(cartID string) cart.Notifier {
	return cart.NotifierFunc(func(e cart.Event) {
		fields := []zap.Field{
			zap.String("cart_id", cartID),
			zap.String("event", string(e.Kind)),
			zap.Int("lines", e.Lines),
		}
		if e.ProductID != "" {
			fields = append(fields,
				zap.String("product_id", e.ProductID),
				zap.String("color", labels.PrimaryColorName(e.Color)),
				zap.Int("quantity", e.Quantity),
			)
		}

		switch e.Level {
		case cart.LevelWarning:
			s.logger.Warn("Cart changed", fields...)
		case cart.LevelSuccess:
			s.logger.Info("Cart changed", fields...)
		default:
			s.logger.Debug("Cart changed", fields...)
		}
	})
}

// ResolveColor picks the product colour a cart line is made for. Colours
// match in any language.
func ResolveColor(p *domain.Product, name domain.LocalizedText) (domain.CartColor, error) {
	if len(p.Colors) == 0 {
		if !name.IsZero() && !labels.SameColor(name, labels.OriginalColorName()) {
			return domain.CartColor{}, ErrUnknownColor
		}
		if p.StockQuantity <= 0 {
			return domain.CartColor{}, ErrOutOfStock
		}
		return domain.CartColor{
			ColorName: labels.OriginalColorName(),
			Image:     p.CoverImage,
			Stock:     p.StockQuantity,
		}, nil
	}

	idx := 0
	if !name.IsZero() {
		idx = -1
		for i := range p.Colors {
			if labels.SameColor(p.Colors[i].ColorName, name) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.CartColor{}, ErrUnknownColor
		}
	}

	c := p.Colors[idx]
	if c.Stock <= 0 {
		return domain.CartColor{}, ErrOutOfStock
	}
	return domain.CartColor{
		ID:        c.ID,
		ColorName: c.ColorName,
		Image:     c.PrimaryImage(),
		Stock:     c.Stock,
	}, nil
}

// ClampQuantity keeps qty within 1..stock. An unknown (non-positive) stock
// allows up to UnknownStock.
func ClampQuantity(qty, stock int) int {
	if stock <= 0 {
		stock = UnknownStock
	}
	if qty < 1 {
		return 1
	}
	if qty > stock {
		return stock
	}
	return qty
}
