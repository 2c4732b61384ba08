package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wahret-zmen/internal/domain"

	"github.com/redis/go-redis/v9"
)

// maxCartRetries bounds the optimistic retries of one cart update.
const maxCartRetries = 16

var ErrCartConflict = errors.New("cart changed concurrently")

// CartRepository stores client carts in Redis, one JSON value per cart.
type CartRepository interface {
	Get(ctx context.Context, cartID string) ([]domain.CartLine, error)
	// Update applies fn to the stored lines and writes its result back. The
	// write only lands if nobody changed the cart since it was read; fn is
	// called again on a fresh read otherwise.
	Update(ctx context.Context, cartID string, fn func([]domain.CartLine) ([]domain.CartLine, error)) ([]domain.CartLine, error)
	// Take removes the cart and returns what it held, in one step.
	Take(ctx context.Context, cartID string) ([]domain.CartLine, error)
}

type cartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository creates a cart repository. Saved carts expire after ttl
// of inactivity; a non-positive ttl keeps them forever.
func NewCartRepository(client *redis.Client, ttl time.Duration) CartRepository {
	if ttl < 0 {
		ttl = 0
	}
	return &cartRepository{client: client, ttl: ttl}
}

func cartKey(cartID string) string {
	return "cart:" + cartID
}

// Get returns the lines of a cart. An unknown cart is empty.
func (r *cartRepository) Get(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	return decodeCart(r.client.Get(ctx, cartKey(cartID)).Bytes())
}

func (r *cartRepository) Update(ctx context.Context, cartID string, fn func([]domain.CartLine) ([]domain.CartLine, error)) ([]domain.CartLine, error) {
	key := cartKey(cartID)

	var updated []domain.CartLine
	txf := func(tx *redis.Tx) error {
		lines, err := decodeCart(tx.Get(ctx, key).Bytes())
		if err != nil {
			return err
		}

		next, err := fn(lines)
		if err != nil {
			return err
		}
		if next == nil {
			next = []domain.CartLine{}
		}
		raw, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to encode cart: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = next
		return nil
	}

	for attempt := 0; attempt < maxCartRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt+1) * time.Millisecond):
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("failed to save cart %s: %w", cartID, ErrCartConflict)
}

func (r *cartRepository) Take(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	return decodeCart(r.client.GetDel(ctx, cartKey(cartID)).Bytes())
}

func decodeCart(raw []byte, err error) ([]domain.CartLine, error) {
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []domain.CartLine{}, nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	lines := []domain.CartLine{}
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return lines, nil
}
