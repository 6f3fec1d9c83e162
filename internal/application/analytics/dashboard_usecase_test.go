package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketplace-api/internal/application/analytics"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/policy"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/memory"
)

func TestGetSupplierDashboard(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now().UTC()

	supplierID, buyerID := uuid.New().String(), uuid.New().String()
	require.NoError(t, store.Accounts().Create(ctx, &entity.Account{ID: supplierID, Email: "s@market.test"}))
	require.NoError(t, store.Accounts().Create(ctx, &entity.Account{ID: buyerID, Email: "b@market.test"}))
	biz := &entity.SupplierBusiness{ID: uuid.New().String(), AccountID: supplierID, Name: "Acme", Status: entity.BusinessStatusActive}
	_, _, err := store.Businesses().InsertIfAbsent(ctx, biz)
	require.NoError(t, err)

	items := []*entity.CatalogItem{
		{ID: uuid.New().String(), BusinessID: biz.ID, SKU: "A", Price: decimal.NewFromInt(100), StockQuantity: 10, MinStockLevel: 2, Status: entity.ItemStatusActive},
		{ID: uuid.New().String(), BusinessID: biz.ID, SKU: "B", Price: decimal.NewFromInt(50), StockQuantity: 1, MinStockLevel: 2, Status: entity.ItemStatusActive},
		{ID: uuid.New().String(), BusinessID: biz.ID, SKU: "C", Price: decimal.NewFromInt(10), StockQuantity: 0, MinStockLevel: 0, Status: entity.ItemStatusInactive},
	}
	for _, it := range items {
		require.NoError(t, store.Catalog().Create(ctx, it))
	}
	for i, st := range []entity.OrderStatus{entity.OrderPending, entity.OrderDelivered, entity.OrderDelivered, entity.OrderCancelled} {
		qty := i + 1
		require.NoError(t, store.Orders().Create(ctx, &entity.Order{
			ID: uuid.New().String(), PurchaserID: buyerID, CatalogItemID: items[0].ID, BusinessID: biz.ID,
			Quantity: qty, UnitPrice: items[0].Price, TotalAmount: entity.OrderTotal(qty, items[0].Price),
			Status: st, CreatedAt: now,
		}))
	}

	uc := analytics.NewDashboardUseCase(store.Analytics(), store.Businesses(), policy.NewEngine(store.Roles()))
	out, err := uc.GetSupplierDashboard(ctx, entity.Identity{AccountID: supplierID})
	require.NoError(t, err)

	assert.Equal(t, biz.ID, out.BusinessID)
	assert.Equal(t, 3, out.TotalItems)
	assert.Equal(t, 2, out.ActiveItems)
	assert.Equal(t, 2, out.LowStockItems)
	assert.Equal(t, map[string]int{"pending": 1, "confirmed": 0, "shipped": 0, "delivered": 2, "cancelled": 1}, out.OrdersByStatus)
	// Entregados: qty 2 y 3 a 100.
	assert.True(t, decimal.NewFromInt(500).Equal(out.DeliveredRevenue), "revenue=%s", out.DeliveredRevenue)

	_, err = uc.GetSupplierDashboard(ctx, entity.Identity{AccountID: buyerID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.GetSupplierDashboard(ctx, entity.Identity{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
