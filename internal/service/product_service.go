package service

import (
	"context"
	"errors"
	"fmt"

	"wahret-zmen/internal/catalog"
	"wahret-zmen/internal/domain"
	"wahret-zmen/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrInvalidPercentage = errors.New("percentage must be between 0 and 100")

// ProductService handles the admin writes on the catalog. Every successful
// write schedules a catalog refetch.
type ProductService interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id string, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	// UpdatePrice applies a percentage discount to the product's base
	// price. The base price is kept as the old price; 0 removes the
	// discount.
	UpdatePrice(ctx context.Context, id string, percentage float64) (*domain.Product, error)
}

type productService struct {
	repo    repository.ProductRepository
	catalog CatalogService
	logger  *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(repo repository.ProductRepository, catalog CatalogService, logger *zap.Logger) ProductService {
	return &productService{repo: repo, catalog: catalog, logger: logger}
}

func (s *productService) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	p.ID = ""
	catalog.PrepareForWrite(p)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created", zap.String("product_id", p.ID), zap.Int("stock", p.StockQuantity))
	s.catalog.Invalidate()
	return p, nil
}

func (s *productService) Update(ctx context.Context, id string, p *domain.Product) (*domain.Product, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	catalog.PrepareForWrite(p)

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info("Product updated", zap.String("product_id", p.ID))
	s.catalog.Invalidate()
	return p, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Product deleted", zap.String("product_id", id))
	s.catalog.Invalidate()
	return nil
}

func (s *productService) UpdatePrice(ctx context.Context, id string, percentage float64) (*domain.Product, error) {
	if percentage < 0 || percentage >= 100 {
		return nil, ErrInvalidPercentage
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ApplyDiscount(p, percentage)

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product price: %w", err)
	}

	s.logger.Info("Product price updated",
		zap.String("product_id", p.ID),
		zap.Float64("percentage", percentage),
		zap.Float64("new_price", catalog.NumericPrice(p)),
	)
	s.catalog.Invalidate()
	return p, nil
}

// ApplyDiscount sets newPrice to the base price reduced by percentage. The
// base price is oldPrice when one is recorded, the current price otherwise.
func ApplyDiscount(p *domain.Product, percentage float64) {
	base := catalog.NumericPrice(p)
	if p.OldPrice != nil {
		if v, ok := p.OldPrice.Value(); ok && v > 0 {
			base = v
		}
	}

	if percentage == 0 {
		p.NewPrice = domain.NewFlexNumber(base)
		p.OldPrice = nil
		return
	}

	factor := decimal.NewFromInt(100).Sub(decimal.NewFromFloat(percentage)).Div(decimal.NewFromInt(100))
	discounted := decimal.NewFromFloat(base).Mul(factor).Round(2)

	p.OldPrice = domain.NewFlexNumber(base)
	p.NewPrice = domain.NewFlexNumber(discounted.InexactFloat64())
}
