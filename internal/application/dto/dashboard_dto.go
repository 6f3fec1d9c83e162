package dto

import "github.com/shopspring/decimal"

// SupplierDashboardDTO respuesta de GET /api/supplier/dashboard.
type SupplierDashboardDTO struct {
	BusinessID       string          `json:"business_id"`
	TotalItems       int             `json:"total_items"`
	ActiveItems      int             `json:"active_items"`
	LowStockItems    int             `json:"low_stock_items"`
	OrdersByStatus   map[string]int  `json:"orders_by_status"` // todos los estados, con cero si no hay
	DeliveredRevenue decimal.Decimal `json:"delivered_revenue"`
}
