package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de CatalogItem.
const (
	ItemStatusActive   = "active"
	ItemStatusInactive = "inactive"
)

// CatalogItem producto publicado por un proveedor. Pertenece a exactamente un SupplierBusiness.
type CatalogItem struct {
	ID            string
	BusinessID    string
	SKU           string // único global; se genera si no se envía
	Name          string
	Description   string
	Category      string
	Price         decimal.Decimal
	StockQuantity int
	MinStockLevel int
	Status        string // active, inactive
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LowStock condición derivada: stock_quantity <= min_stock_level.
func (i *CatalogItem) LowStock() bool {
	return i.StockQuantity <= i.MinStockLevel
}

// Active informa si el ítem se puede pedir.
func (i *CatalogItem) Active() bool {
	return i.Status == ItemStatusActive
}
