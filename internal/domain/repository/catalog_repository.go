package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// CatalogFilter filtros del listado público del catálogo.
type CatalogFilter struct {
	Search   string // coincide en nombre, descripción o SKU (ILIKE)
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Limit    int
	Offset   int
}

// CatalogRepository define el puerto de persistencia para CatalogItem.
type CatalogRepository interface {
	Create(ctx context.Context, item *entity.CatalogItem) error
	GetByID(ctx context.Context, id string) (*entity.CatalogItem, error)
	Update(ctx context.Context, item *entity.CatalogItem) error
	Delete(ctx context.Context, id string) error
	ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*entity.CatalogItem, error)
	ListLowStock(ctx context.Context, businessID string) ([]*entity.CatalogItem, error)
	// ListPublic solo devuelve ítems activos de proveedores con aprobación approved.
	ListPublic(ctx context.Context, f CatalogFilter) ([]*entity.CatalogItem, error)
}
