package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlaceOrderRequest entrada para crear un pedido. El comprador es siempre el llamador.
type PlaceOrderRequest struct {
	CatalogItemID string `json:"catalog_item_id" validate:"required,uuid"`
	Quantity      int    `json:"quantity" validate:"gt=0"`
	Notes         string `json:"notes" validate:"omitempty,max=1000"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID            string          `json:"id"`
	PurchaserID   string          `json:"purchaser_id"`
	CatalogItemID string          `json:"catalog_item_id"`
	BusinessID    string          `json:"business_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
