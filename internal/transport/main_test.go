package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"wahret-zmen/internal/cart"
	"wahret-zmen/internal/domain"
	"wahret-zmen/internal/middleware"
	"wahret-zmen/internal/repository"
	"wahret-zmen/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testSecret   = "test-secret"
	testPassword = "dashboard-pass"
)

// Mock repositories for testing
type mockProductRepository struct {
	mu       sync.Mutex
	order    []string
	products map[string]domain.Product
}

func newMockProductRepository(products ...domain.Product) *mockProductRepository {
	m := &mockProductRepository{products: make(map[string]domain.Product)}
	for i := range products {
		m.Create(context.Background(), &products[i])
	}
	return m
}

func (m *mockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	m.order = append(m.order, p.ID)
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
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Product{}
	for _, id := range m.order {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockOrderRepository struct {
	mu     sync.Mutex
	orders map[string]domain.Order
}

func (m *mockOrderRepository) Create(ctx context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = uuid.NewString()
	o.CreatedAt = time.Now()
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

// mockStatsRepository totals the mock repositories the way the SQL does.
type mockStatsRepository struct {
	products *mockProductRepository
	orders   *mockOrderRepository
}

func (m *mockStatsRepository) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	products, _ := m.products.List(ctx)
	orders, _ := m.orders.List(ctx)

	stats := &domain.DashboardStats{
		TotalProducts: len(products),
		TotalOrders:   len(orders),
		MonthlySales:  []domain.MonthlySales{},
	}
	byMonth := map[string]int{}
	for _, o := range orders {
		stats.TotalSales += o.TotalPrice
		month := o.CreatedAt.UTC().Format("2006-01")
		i, ok := byMonth[month]
		if !ok {
			i = len(stats.MonthlySales)
			byMonth[month] = i
			stats.MonthlySales = append(stats.MonthlySales, domain.MonthlySales{Month: month})
		}
		stats.MonthlySales[i].Orders++
		stats.MonthlySales[i].TotalSales += o.TotalPrice
	}
	return stats, nil
}

type testAPI struct {
	router   http.Handler
	products *mockProductRepository
	orders   *mockOrderRepository
	redis    *miniredis.Miniredis
}

func newTestAPI(t *testing.T, products ...domain.Product) *testAPI {
	t.Helper()
	logger := zap.NewNop()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	productRepo := newMockProductRepository(products...)
	orderRepo := &mockOrderRepository{orders: make(map[string]domain.Order)}
	cartRepo := repository.NewCartRepository(client, time.Hour)

	catalogService := service.NewCatalogService(productRepo, logger, service.PagingOptions{PageSize: 12, PageStep: 12}, 0, time.Millisecond)
	t.Cleanup(catalogService.Close)

	hash, err := service.HashPassword(testPassword)
	require.NoError(t, err)

	admin := []func(http.Handler) http.Handler{
		middleware.AuthMiddleware(testSecret, logger),
		middleware.RequireAdmin(logger),
	}
	limiter := func(prefix string) func(http.Handler) http.Handler {
		return middleware.RateLimitMiddleware(client, middleware.RateLimitConfig{
			RequestsPerWindow: 3,
			Window:            time.Minute,
			KeyPrefix:         prefix,
		}, logger)
	}

	r := chi.NewRouter()
	r.Use(middleware.ErrorHandlingMiddleware(logger))
	NewProductHandler(catalogService, service.NewProductService(productRepo, catalogService, logger), logger).RegisterRoutes(r, admin...)
	NewCartHandler(service.NewCartService(cartRepo, catalogService, cart.MergePolicy{}, logger), logger).RegisterRoutes(r)
	NewOrderHandler(service.NewOrderService(orderRepo, cartRepo, logger), logger).RegisterRoutes(r, limiter("checkout"), admin...)
	dashboard := service.NewDashboardService(&mockStatsRepository{products: productRepo, orders: orderRepo}, logger)
	NewAdminHandler(service.NewAuthService("admin", hash, testSecret, time.Hour), dashboard, logger).RegisterRoutes(r, limiter("login"), admin...)

	return &testAPI{router: r, products: productRepo, orders: orderRepo, redis: mr}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) login(t *testing.T) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/admin/login", LoginRequest{Username: "admin", Password: testPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func testProduct(id, category string, price float64, colors ...domain.Color) domain.Product {
	return domain.Product{
		ID:                 id,
		Title:              "Jebba " + id,
		Category:           domain.PlainText(category),
		EmbroideryCategory: domain.Localize("Handmade", "Broderie main", "تطريز يدوي"),
		CoverImage:         "/img/" + id + ".jpg",
		Colors:             colors,
		NewPrice:           domain.NewFlexNumber(price),
		StockQuantity:      5,
	}
}

func testColor(en, fr, ar string, stock int) domain.Color {
	return domain.Color{ColorName: domain.Localize(en, fr, ar), Images: []string{"/img/" + en + ".jpg"}, Stock: stock}
}
