// Package analytics contiene el dashboard del proveedor.
package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/policy"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

// DashboardUseCase resume catálogo, pedidos e ingresos del negocio del llamador.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	businesses    repository.BusinessRepository
	policy        *policy.Engine
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, businesses repository.BusinessRepository, engine *policy.Engine) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, businesses: businesses, policy: engine}
}

// GetSupplierDashboard construye el SupplierDashboardDTO del negocio del llamador.
//
// Tres consultas en paralelo:
//  1. GetCatalogStats      → TotalItems, ActiveItems, LowStockItems
//  2. CountOrdersByStatus  → OrdersByStatus (todos los estados, cero si no hay)
//  3. GetDeliveredRevenue  → DeliveredRevenue
func (uc *DashboardUseCase) GetSupplierDashboard(ctx context.Context, caller entity.Identity) (*dto.SupplierDashboardDTO, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	biz, err := uc.businesses.GetByAccount(ctx, caller.AccountID)
	if err != nil {
		return nil, err
	}
	if biz == nil {
		return nil, fmt.Errorf("%w: la cuenta no tiene negocio registrado", domain.ErrNotFound)
	}
	// Los agregados incluyen pedidos: se exige ser el dueño del negocio.
	if err := uc.policy.Authorize(ctx, caller, policy.OpUpdate, policy.Resource{Table: policy.TableBusiness, OwnerID: biz.AccountID}); err != nil {
		return nil, err
	}

	var (
		stats   repository.CatalogStats
		counts  map[entity.OrderStatus]int
		revenue decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = uc.analyticsRepo.GetCatalogStats(gctx, biz.ID)
		if err != nil {
			return fmt.Errorf("dashboard: estadísticas de catálogo: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		counts, err = uc.analyticsRepo.CountOrdersByStatus(gctx, biz.ID)
		if err != nil {
			return fmt.Errorf("dashboard: pedidos por estado: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		revenue, err = uc.analyticsRepo.GetDeliveredRevenue(gctx, biz.ID)
		if err != nil {
			return fmt.Errorf("dashboard: ingresos entregados: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byStatus := make(map[string]int, len(entity.OrderStatuses))
	for _, s := range entity.OrderStatuses {
		byStatus[string(s)] = counts[s]
	}
	return &dto.SupplierDashboardDTO{
		BusinessID:       biz.ID,
		TotalItems:       stats.TotalItems,
		ActiveItems:      stats.ActiveItems,
		LowStockItems:    stats.LowStockItems,
		OrdersByStatus:   byStatus,
		DeliveredRevenue: revenue,
	}, nil
}
