package service

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"wahret-zmen/internal/catalog"
	"wahret-zmen/internal/domain"
	"wahret-zmen/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Mock repositories for testing
type mockProductRepository struct {
	mu       sync.Mutex
	products map[string]domain.Product
	lists    atomic.Int32
}

func newMockProductRepository(products ...domain.Product) *mockProductRepository {
	m := &mockProductRepository{products: make(map[string]domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	m.products[p.ID] = *p
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	m.products[p.ID] = *p
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (m *mockProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	m.lists.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type mockOrderRepository struct {
	mu        sync.Mutex
	orders    map[string]domain.Order
	createErr error
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[string]domain.Order)}
}

func (m *mockOrderRepository) Create(ctx context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	o.ID = uuid.NewString()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	m.orders[o.ID] = *o
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	o.Products = append([]domain.OrderItem(nil), o.Products...)
	return &o, nil
}

func (m *mockOrderRepository) FindByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Order{}
	for _, o := range m.orders {
		if o.Email == email {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockOrderRepository) Edit(ctx context.Context, id string, fn func(*domain.Order) (bool, error)) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	o.Products = append([]domain.OrderItem(nil), o.Products...)
	remove, err := fn(&o)
	if err != nil {
		return nil, err
	}
	if remove {
		delete(m.orders, id)
		return nil, nil
	}
	m.orders[id] = o
	return &o, nil
}

func (m *mockOrderRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

// stubCatalog counts invalidations and serves products from a repository.
type stubCatalog struct {
	CatalogService
	repo        repository.ProductRepository
	invalidated atomic.Int32
}

func (s *stubCatalog) Product(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prepared := catalog.Prepare([]domain.Product{*p})
	return &prepared[0], nil
}

func (s *stubCatalog) Invalidate() { s.invalidated.Add(1) }

func newCartRepository(t *testing.T) repository.CartRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return repository.NewCartRepository(client, time.Hour)
}

func price(v float64) *domain.FlexNumber { return domain.NewFlexNumber(v) }

func product(id, category string, newPrice float64, colors ...domain.Color) domain.Product {
	return domain.Product{
		ID:                 id,
		Title:              "Jebba " + id,
		Category:           domain.PlainText(category),
		EmbroideryCategory: domain.Localize("Mtarez", "Mtarez", "مطرز"),
		CoverImage:         "/img/" + id + ".jpg",
		Colors:             colors,
		NewPrice:           price(newPrice),
		StockQuantity:      10,
	}
}

func color(en, fr, ar string, stock int) domain.Color {
	return domain.Color{ColorName: domain.Localize(en, fr, ar), Images: []string{"/img/" + en + ".jpg"}, Stock: stock}
}
