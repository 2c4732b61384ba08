package repository

import (
	"context"
	"database/sql"
	"fmt"

	"wahret-zmen/internal/domain"

	"github.com/shopspring/decimal"
)

// StatsRepository aggregates catalog and order totals for the dashboard.
type StatsRepository interface {
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)
}

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new instance of StatsRepository
func NewStatsRepository(db *sql.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(total_price), 0) FROM orders)
	`

	var (
		stats domain.DashboardStats
		sales decimal.Decimal
	)
	if err := r.db.QueryRowContext(ctx, query).Scan(&stats.TotalProducts, &stats.TotalOrders, &sales); err != nil {
		return nil, fmt.Errorf("failed to load dashboard totals: %w", err)
	}
	stats.TotalSales = sales.Round(2).InexactFloat64()

	monthly, err := r.monthlySales(ctx)
	if err != nil {
		return nil, err
	}
	stats.MonthlySales = monthly

	return &stats, nil
}

func (r *statsRepository) monthlySales(ctx context.Context) ([]domain.MonthlySales, error) {
	query := `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month,
		       COUNT(*),
		       SUM(total_price)
		FROM orders
		GROUP BY 1
		ORDER BY 1
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly sales: %w", err)
	}
	defer rows.Close()

	months := []domain.MonthlySales{}
	for rows.Next() {
		var (
			m     domain.MonthlySales
			total decimal.Decimal
		)
		if err := rows.Scan(&m.Month, &m.Orders, &total); err != nil {
			return nil, fmt.Errorf("failed to scan monthly sales: %w", err)
		}
		m.TotalSales = total.Round(2).InexactFloat64()
		months = append(months, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly sales: %w", err)
	}

	return months, nil
}
