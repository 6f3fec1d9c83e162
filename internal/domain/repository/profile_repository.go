package repository

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// ProfileRepository define el puerto de persistencia para SupplierProfile y VendorProfile.
type ProfileRepository interface {
	CreateSupplier(ctx context.Context, p *entity.SupplierProfile) error
	CreateVendor(ctx context.Context, p *entity.VendorProfile) error
	GetSupplierByAccount(ctx context.Context, accountID string) (*entity.SupplierProfile, error)
	GetVendorByAccount(ctx context.Context, accountID string) (*entity.VendorProfile, error)
	UpdateSupplier(ctx context.Context, p *entity.SupplierProfile) error
	UpdateVendor(ctx context.Context, p *entity.VendorProfile) error
}
