// Package profile lectura y edición de perfiles de proveedor y vendedor.
package profile

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/policy"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

// UseCase casos de uso de perfil.
type UseCase struct {
	profiles repository.ProfileRepository
	roles    repository.RoleAssignmentRepository
	policy   *policy.Engine
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(profiles repository.ProfileRepository, roles repository.RoleAssignmentRepository, engine *policy.Engine) *UseCase {
	return &UseCase{profiles: profiles, roles: roles, policy: engine, now: time.Now}
}

// Get devuelve el perfil de accountID: la propia cuenta o un superadmin.
// La autorización se evalúa antes de leer para no revelar si la cuenta existe.
func (uc *UseCase) Get(ctx context.Context, caller entity.Identity, accountID string) (*dto.ProfileResponse, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	if err := uc.policy.Authorize(ctx, caller, policy.OpRead, policy.Resource{Table: policy.TableRoleAssignment, OwnerID: accountID}); err != nil {
		return nil, err
	}
	ra, err := uc.roles.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if ra == nil {
		return nil, domain.ErrNotFound
	}
	out := &dto.ProfileResponse{AccountID: accountID, Role: string(ra.Role)}
	switch ra.Role {
	case entity.RoleSupplier:
		if err := uc.policy.Authorize(ctx, caller, policy.OpRead, policy.Resource{Table: policy.TableSupplierProfile, OwnerID: accountID}); err != nil {
			return nil, err
		}
		p, err := uc.profiles.GetSupplierByAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		out.Supplier = toSupplierResponse(p)
	case entity.RoleVendor:
		if err := uc.policy.Authorize(ctx, caller, policy.OpRead, policy.Resource{Table: policy.TableVendorProfile, OwnerID: accountID}); err != nil {
			return nil, err
		}
		p, err := uc.profiles.GetVendorByAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		out.Vendor = toVendorResponse(p)
	}
	return out, nil
}

// UpdateMine aplica un parche parcial al perfil del llamador.
// El SupplierBusiness derivado no se resincroniza: conserva los valores copiados al crearse.
func (uc *UseCase) UpdateMine(ctx context.Context, caller entity.Identity, in dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	ra, err := uc.roles.GetByAccount(ctx, caller.AccountID)
	if err != nil {
		return nil, err
	}
	if ra == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.now().UTC()
	out := &dto.ProfileResponse{AccountID: caller.AccountID, Role: string(ra.Role)}

	switch ra.Role {
	case entity.RoleSupplier:
		p, err := uc.profiles.GetSupplierByAccount(ctx, caller.AccountID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		if err := uc.policy.Authorize(ctx, caller, policy.OpUpdate, policy.Resource{Table: policy.TableSupplierProfile, OwnerID: p.AccountID}); err != nil {
			return nil, err
		}
		if in.BusinessName != nil {
			name := strings.TrimSpace(*in.BusinessName)
			if name == "" {
				return nil, domain.Invalid("business_name no puede quedar vacío")
			}
			p.BusinessName = name
		}
		apply(&p.BusinessAddress, in.BusinessAddress)
		apply(&p.Description, in.Description)
		apply(&p.ContactPerson, in.ContactPerson)
		apply(&p.ContactNumber, in.ContactNumber)
		p.UpdatedAt = now
		if err := uc.profiles.UpdateSupplier(ctx, p); err != nil {
			return nil, err
		}
		out.Supplier = toSupplierResponse(p)
	case entity.RoleVendor:
		p, err := uc.profiles.GetVendorByAccount(ctx, caller.AccountID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		if err := uc.policy.Authorize(ctx, caller, policy.OpUpdate, policy.Resource{Table: policy.TableVendorProfile, OwnerID: p.AccountID}); err != nil {
			return nil, err
		}
		if in.StoreName != nil {
			name := strings.TrimSpace(*in.StoreName)
			if name == "" {
				return nil, domain.Invalid("store_name no puede quedar vacío")
			}
			p.StoreName = name
		}
		apply(&p.StoreAddress, in.StoreAddress)
		apply(&p.ContactPerson, in.ContactPerson)
		apply(&p.ContactNumber, in.ContactNumber)
		p.UpdatedAt = now
		if err := uc.profiles.UpdateVendor(ctx, p); err != nil {
			return nil, err
		}
		out.Vendor = toVendorResponse(p)
	default:
		return nil, domain.Invalid("la cuenta %s no tiene perfil editable", ra.Role)
	}
	return out, nil
}

func apply(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func toSupplierResponse(p *entity.SupplierProfile) *dto.SupplierProfileResponse {
	return &dto.SupplierProfileResponse{
		ID:              p.ID,
		AccountID:       p.AccountID,
		BusinessName:    p.BusinessName,
		ContactPerson:   p.ContactPerson,
		ContactNumber:   p.ContactNumber,
		BusinessAddress: p.BusinessAddress,
		Description:     p.Description,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toVendorResponse(p *entity.VendorProfile) *dto.VendorProfileResponse {
	return &dto.VendorProfileResponse{
		ID:            p.ID,
		AccountID:     p.AccountID,
		StoreName:     p.StoreName,
		ContactPerson: p.ContactPerson,
		ContactNumber: p.ContactNumber,
		StoreAddress:  p.StoreAddress,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
