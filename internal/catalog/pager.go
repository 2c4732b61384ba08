package catalog

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultPageSize = 12
	DefaultPageStep = 12
)

// Window returns the first limit elements of list.
func Window[T any](list []T, limit int) []T {
	if limit < 0 {
		limit = 0
	}
	if limit > len(list) {
		limit = len(list)
	}
	return list[:limit]
}

// Pager is the "load more" controller: its limit only grows. Changing the
// filter does not reset it.
type Pager struct {
	mu    sync.Mutex
	limit int
	step  int
	pause time.Duration
}

// NewPager creates a pager. Non-positive sizes fall back to the defaults.
func NewPager(initial, step int, pause time.Duration) *Pager {
	if initial <= 0 {
		initial = DefaultPageSize
	}
	if step <= 0 {
		step = DefaultPageStep
	}
	return &Pager{limit: initial, step: step, pause: pause}
}

// Limit returns the current window size.
func (p *Pager) Limit() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.limit
}

// Resume raises the limit to one previously reached by the client.
func (p *Pager) Resume(limit int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if limit > p.limit {
		p.limit = limit
	}
}

// LoadMore waits for the loading pause, then grows the limit by one step.
func (p *Pager) LoadMore(ctx context.Context) (int, error) {
	if p.pause > 0 {
		timer := time.NewTimer(p.pause)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return p.Limit(), ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return p.Limit(), err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.limit += p.step
	return p.limit, nil
}

// Page is one window over a filtered list.
type Page[T any] struct {
	Items     []T  `json:"items"`
	Total     int  `json:"total"`
	Limit     int  `json:"limit"`
	NextLimit int  `json:"nextLimit"`
	HasMore   bool `json:"hasMore"`
}

// Paginate windows list at the pager's current limit.
func Paginate[T any](list []T, p *Pager) Page[T] {
	p.mu.Lock()
	limit, step := p.limit, p.step
	p.mu.Unlock()

	items := Window(list, limit)
	return Page[T]{
		Items:     items,
		Total:     len(list),
		Limit:     limit,
		NextLimit: limit + step,
		HasMore:   len(items) < len(list),
	}
}
