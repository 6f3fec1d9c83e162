package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard del proveedor.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetCatalogStats una sola pasada sobre catalog_items con agregados filtrados.
func (r *AnalyticsRepo) GetCatalogStats(ctx context.Context, businessID string) (repository.CatalogStats, error) {
	const query = `
	SELECT
	    COUNT(*)                                                    AS total_items,
	    COUNT(*) FILTER (WHERE status = 'active')                   AS active_items,
	    COUNT(*) FILTER (WHERE stock_quantity <= min_stock_level)   AS low_stock_items
	FROM catalog_items
	WHERE business_id = $1`

	var s repository.CatalogStats
	if err := r.q.QueryRow(ctx, query, businessID).Scan(&s.TotalItems, &s.ActiveItems, &s.LowStockItems); err != nil {
		return repository.CatalogStats{}, fmt.Errorf("analytics: catalog stats: %w", err)
	}
	return s, nil
}

func (r *AnalyticsRepo) CountOrdersByStatus(ctx context.Context, businessID string) (map[entity.OrderStatus]int, error) {
	const query = `
	SELECT status, COUNT(*)
	FROM orders
	WHERE business_id = $1
	GROUP BY status`

	rows, err := r.q.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("analytics: orders by status: %w", err)
	}
	defer rows.Close()

	out := map[entity.OrderStatus]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("analytics: scan orders by status: %w", err)
		}
		out[entity.OrderStatus(status)] = n
	}
	return out, rows.Err()
}

func (r *AnalyticsRepo) GetDeliveredRevenue(ctx context.Context, businessID string) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(total_amount), 0)
	FROM orders
	WHERE business_id = $1 AND status = 'delivered'`

	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, businessID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("analytics: delivered revenue: %w", err)
	}
	return total, nil
}
