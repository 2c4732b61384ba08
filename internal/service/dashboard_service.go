package service

import (
	"context"
	"fmt"

	"wahret-zmen/internal/domain"
	"wahret-zmen/internal/repository"

	"go.uber.org/zap"
)

// DashboardService serves the admin dashboard totals.
type DashboardService interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
}

type dashboardService struct {
	stats  repository.StatsRepository
	logger *zap.Logger
}

// NewDashboardService creates a new instance of DashboardService
func NewDashboardService(stats repository.StatsRepository, logger *zap.Logger) DashboardService {
	return &dashboardService{stats: stats, logger: logger}
}

func (s *dashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	stats, err := s.stats.Dashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}

	s.logger.Debug("Dashboard stats loaded",
		zap.Int("products", stats.TotalProducts),
		zap.Int("orders", stats.TotalOrders),
	)
	return stats, nil
}
