package transport

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"wahret-zmen/internal/catalog"
	"wahret-zmen/internal/domain"
	"wahret-zmen/internal/middleware"
	"wahret-zmen/internal/repository"
	"wahret-zmen/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UpdatePriceRequest represents the price update payload
type UpdatePriceRequest struct {
	Percentage *float64 `json:"percentage" validate:"required,gte=0,lt=100"`
}

// ProductHandler handles HTTP requests for the catalog and its admin writes
type ProductHandler struct {
	catalog  service.CatalogService
	products service.ProductService
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, products service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		products: products,
		logger:   logger,
	}
}

// RegisterRoutes registers all product routes. adminMiddleware guards the
// dashboard writes.
func (h *ProductHandler) RegisterRoutes(r chi.Router, adminMiddleware ...func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/facets", h.Facets)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/similar", h.Similar)

		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware...)
			r.Post("/create-product", h.Create)
			r.Put("/edit/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Put("/update-price/{id}", h.UpdatePrice)
		})
	})
}

// List handles the filtered, windowed product list
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q, details := parseCatalogQuery(r)
	if len(details) > 0 {
		middleware.RespondWithValidationErrors(w, details)
		return
	}

	page, err := h.catalog.Query(r.Context(), q)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, page)
}

// Facets handles the filter options derived from the catalog
func (h *ProductHandler) Facets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.catalog.Facets(r.Context())
	if err != nil {
		h.respondWithServiceError(w, err, "failed to build filters")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, facets)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithServiceError(w, err, "failed to get product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Similar(w http.ResponseWriter, r *http.Request) {
	by := r.URL.Query().Get("by")
	if by != "" && by != service.SimilarByCategory && by != service.SimilarByEmbroidery {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: "by", Message: "by must be one of: category embroidery"},
		})
		return
	}

	similar, err := h.catalog.Similar(r.Context(), chi.URLParam(r, "id"), by)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to get similar products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, similar)
}

// Create handles product creation from the dashboard
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := middleware.DecodeAndValidate(r, &p); err != nil {
		h.logger.Debug("Product decode failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}
	if details := validateProduct(&p); len(details) > 0 {
		middleware.RespondWithValidationErrors(w, details)
		return
	}

	created, err := h.products.Create(r.Context(), &p)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to create product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, created)
}

// Update handles product edits from the dashboard
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := middleware.DecodeAndValidate(r, &p); err != nil {
		h.logger.Debug("Product decode failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}
	if details := validateProduct(&p); len(details) > 0 {
		middleware.RespondWithValidationErrors(w, details)
		return
	}

	updated, err := h.products.Update(r.Context(), chi.URLParam(r, "id"), &p)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondWithServiceError(w, err, "failed to delete product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// UpdatePrice handles the percentage discount update
func (h *ProductHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	var req UpdatePriceRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Price update validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	updated, err := h.products.UpdatePrice(r.Context(), chi.URLParam(r, "id"), *req.Percentage)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to update price")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *ProductHandler) respondWithServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrInvalidPercentage):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

// parseCatalogQuery reads the list filters. Blank selections mean "All".
func parseCatalogQuery(r *http.Request) (service.CatalogQuery, []middleware.ValidationError) {
	values := r.URL.Query()
	spec := catalog.NewSpec()
	var details []middleware.ValidationError

	if v := values.Get("category"); v != "" {
		spec.Category = v
	}
	if v := values.Get("color"); v != "" {
		spec.Color = v
	}
	if v := values.Get("embroidery"); v != "" {
		spec.Embroidery = v
	}
	spec.Search = values.Get("search")
	if spec.Search == "" {
		spec.Search = values.Get("q")
	}

	number := func(name string, def float64) float64 {
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" {
			return def
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || f < 0 {
			details = append(details, middleware.ValidationError{Field: name, Message: name + " must be a non-negative number"})
			return def
		}
		return f
	}
	spec.PriceMin = number("minPrice", 0)
	spec.PriceMax = number("maxPrice", math.Inf(1))

	q := service.CatalogQuery{Spec: spec}
	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			details = append(details, middleware.ValidationError{Field: "limit", Message: "limit must be a non-negative integer"})
		}
		q.Limit = n
	}
	q.LoadMore = values.Get("loadMore") == "true" || values.Get("loadMore") == "1"
	q.ClampPrice = values.Get("clampPrice") == "true" || values.Get("clampPrice") == "1"

	return q, details
}

func validateProduct(p *domain.Product) []middleware.ValidationError {
	var details []middleware.ValidationError

	hasTitle := strings.TrimSpace(p.Title) != ""
	for _, t := range p.Translations {
		hasTitle = hasTitle || strings.TrimSpace(t.Title) != ""
	}
	if !hasTitle {
		details = append(details, middleware.ValidationError{Field: "title", Message: "title is required"})
	}
	if p.Category.IsZero() {
		details = append(details, middleware.ValidationError{Field: "category", Message: "category is required"})
	}
	if catalog.NumericPrice(p) <= 0 {
		details = append(details, middleware.ValidationError{Field: "newPrice", Message: "newPrice must be a positive number"})
	}
	for _, c := range p.Colors {
		if c.Stock < 0 {
			details = append(details, middleware.ValidationError{Field: "colors", Message: "colour stock cannot be negative"})
			break
		}
	}
	return details
}
