package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// CatalogStats conteos del catálogo de un negocio.
type CatalogStats struct {
	TotalItems    int
	ActiveItems   int
	LowStockItems int
}

// AnalyticsRepository consultas read-only para el dashboard del proveedor.
type AnalyticsRepository interface {
	// GetCatalogStats cuenta ítems totales, activos y con stock bajo del negocio.
	GetCatalogStats(ctx context.Context, businessID string) (CatalogStats, error)

	// CountOrdersByStatus agrupa los pedidos del negocio por estado. Estados sin pedidos no aparecen.
	CountOrdersByStatus(ctx context.Context, businessID string) (map[entity.OrderStatus]int, error)

	// GetDeliveredRevenue suma total_amount de pedidos delivered (COALESCE a cero).
	GetDeliveredRevenue(ctx context.Context, businessID string) (decimal.Decimal, error)
}
