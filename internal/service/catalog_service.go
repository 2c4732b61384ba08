package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"wahret-zmen/internal/catalog"
	"wahret-zmen/internal/debounce"
	"wahret-zmen/internal/domain"
	"wahret-zmen/internal/repository"

	"go.uber.org/zap"
)

// Similar-product groupings.
const (
	SimilarByCategory   = "category"
	SimilarByEmbroidery = "embroidery"
)

// CatalogQuery is one request against the product list.
type CatalogQuery struct {
	Spec catalog.Spec
	// Limit is the window size the client has already reached.
	Limit int
	// LoadMore grows the window by one step.
	LoadMore bool
	// ClampPrice keeps the price bounds inside the catalog's own bounds.
	ClampPrice bool
}

// CatalogService serves the product list from an in-memory snapshot of the
// product repository.
type CatalogService interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Query(ctx context.Context, q CatalogQuery) (catalog.Page[domain.Product], error)
	Facets(ctx context.Context) (catalog.Facets, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	Similar(ctx context.Context, id, by string) ([]domain.Product, error)
	// Invalidate schedules a refetch. Bursts of calls coalesce into one.
	Invalidate()
	Close()
}

// PagingOptions configures the load-more window.
type PagingOptions struct {
	PageSize      int
	PageStep      int
	LoadMorePause time.Duration
}

type catalogService struct {
	repo    repository.ProductRepository
	logger  *zap.Logger
	paging  PagingOptions
	ttl     time.Duration
	refetch *debounce.Debouncer

	mu       sync.RWMutex
	snapshot []domain.Product
	loadedAt time.Time
}

// NewCatalogService creates a catalog service. A non-positive ttl keeps the
// snapshot until the next Invalidate.
func NewCatalogService(repo repository.ProductRepository, logger *zap.Logger, paging PagingOptions, ttl, refetchDebounce time.Duration) CatalogService {
	return &catalogService{
		repo:    repo,
		logger:  logger,
		paging:  paging,
		ttl:     ttl,
		refetch: debounce.New(refetchDebounce),
	}
}

// Products returns the prepared snapshot, loading it when missing or stale.
func (s *catalogService) Products(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	snapshot, fresh := s.snapshot, s.freshLocked()
	s.mu.RUnlock()
	if fresh {
		return snapshot, nil
	}

	return s.reload(ctx)
}

func (s *catalogService) freshLocked() bool {
	if s.snapshot == nil {
		return false
	}
	return s.ttl <= 0 || time.Since(s.loadedAt) < s.ttl
}

func (s *catalogService) reload(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	prepared := catalog.Prepare(products)

	s.mu.Lock()
	s.snapshot = prepared
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.Debug("Catalog snapshot loaded", zap.Int("products", len(prepared)))
	return prepared, nil
}

func (s *catalogService) Query(ctx context.Context, q CatalogQuery) (catalog.Page[domain.Product], error) {
	products, err := s.Products(ctx)
	if err != nil {
		return catalog.Page[domain.Product]{}, err
	}

	spec := q.Spec
	facets := catalog.BuildFacets(products)
	spec.Category = catalog.ResolveCategory(spec.Category, facets)
	if q.ClampPrice {
		hi := spec.PriceMax
		if math.IsInf(hi, 1) {
			hi = 0
		}
		spec.PriceMin, spec.PriceMax = catalog.ClampPriceRange(spec.PriceMin, hi, facets)
	}

	filtered := catalog.Filter(products, spec)

	pager := catalog.NewPager(s.paging.PageSize, s.paging.PageStep, s.paging.LoadMorePause)
	pager.Resume(q.Limit)
	if q.LoadMore {
		if _, err := pager.LoadMore(ctx); err != nil {
			return catalog.Page[domain.Product]{}, err
		}
	}

	return catalog.Paginate(filtered, pager), nil
}

func (s *catalogService) Facets(ctx context.Context) (catalog.Facets, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return catalog.Facets{}, err
	}
	return catalog.BuildFacets(products), nil
}

func (s *catalogService) Product(ctx context.Context, id string) (*domain.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, nil
		}
	}

	// Created after the snapshot was taken.
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prepared := catalog.Prepare([]domain.Product{*p})
	return &prepared[0], nil
}

func (s *catalogService) Similar(ctx context.Context, id, by string) ([]domain.Product, error) {
	p, err := s.Product(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.Product
	switch by {
	case SimilarByEmbroidery:
		out = catalog.SimilarByEmbroidery(products, p, catalog.SimilarLimit)
	default:
		out = catalog.SimilarByCategory(products, p, catalog.SimilarLimit)
	}
	if out == nil {
		out = []domain.Product{}
	}
	return out, nil
}

func (s *catalogService) Invalidate() {
	s.refetch.Trigger(context.Background(), func(ctx context.Context) {
		if _, err := s.reload(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("Catalog refetch failed", zap.Error(err))
		}
	})
}

func (s *catalogService) Close() {
	s.refetch.Close()
}
