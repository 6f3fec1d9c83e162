package repository

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// BusinessRepository define el puerto de persistencia para SupplierBusiness.
type BusinessRepository interface {
	// InsertIfAbsent inserta b si no existe registro para b.AccountID; ante conflicto
	// (otro escritor ganó) devuelve el existente. created indica si esta llamada lo creó.
	InsertIfAbsent(ctx context.Context, b *entity.SupplierBusiness) (rec *entity.SupplierBusiness, created bool, err error)
	GetByID(ctx context.Context, id string) (*entity.SupplierBusiness, error)
	GetByAccount(ctx context.Context, accountID string) (*entity.SupplierBusiness, error)
}
