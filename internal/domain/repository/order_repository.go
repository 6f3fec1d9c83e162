package repository

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// TransitionStatus compare-and-swap: actualiza solo si el estado actual es from.
	TransitionStatus(ctx context.Context, id string, from, to entity.OrderStatus) (bool, error)
	ListByPurchaser(ctx context.Context, purchaserID string, limit, offset int) ([]*entity.Order, error)
	ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*entity.Order, error)
}
