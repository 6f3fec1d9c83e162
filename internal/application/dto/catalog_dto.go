package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessResponse registro de negocio del proveedor.
type BusinessResponse struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Address   string    `json:"address"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCatalogItemRequest entrada para publicar un ítem. SKU vacío = se genera.
// BusinessID vacío = negocio del llamador.
type CreateCatalogItemRequest struct {
	BusinessID    string          `json:"business_id" validate:"omitempty,uuid"`
	SKU           string          `json:"sku" validate:"omitempty,max=64"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Description   string          `json:"description" validate:"omitempty,max=2000"`
	Category      string          `json:"category" validate:"omitempty,max=100"`
	Price         decimal.Decimal `json:"price" validate:"gte=0"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	MinStockLevel int             `json:"min_stock_level" validate:"gte=0"`
	Status        string          `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateCatalogItemRequest actualización parcial de un ítem.
type UpdateCatalogItemRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" validate:"omitempty,max=2000"`
	Category      *string          `json:"category" validate:"omitempty,max=100"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitempty,gte=0"`
	MinStockLevel *int             `json:"min_stock_level" validate:"omitempty,gte=0"`
	Status        *string          `json:"status" validate:"omitempty,oneof=active inactive"`
}

// CatalogItemResponse salida de un ítem.
type CatalogItemResponse struct {
	ID            string          `json:"id"`
	BusinessID    string          `json:"business_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	LowStock      bool            `json:"low_stock"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CatalogItemListResponse lista paginada de ítems.
type CatalogItemListResponse struct {
	Items []CatalogItemResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// CatalogQuery filtros del listado público (query string).
type CatalogQuery struct {
	Search   string `query:"q"`
	Category string `query:"category"`
	MinPrice string `query:"min_price"`
	MaxPrice string `query:"max_price"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}
