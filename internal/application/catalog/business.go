// Package catalog contiene el aprovisionamiento perezoso del negocio del proveedor y el catálogo de ítems.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/policy"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
	"github.com/jhoicas/marketplace-api/pkg/logger"
)

// BusinessUseCase lectura y aprovisionamiento del SupplierBusiness.
type BusinessUseCase struct {
	businesses repository.BusinessRepository
	profiles   repository.ProfileRepository
	policy     *policy.Engine
	log        *logger.Logger
	now        func() time.Time
}

// NewBusinessUseCase construye el caso de uso.
func NewBusinessUseCase(businesses repository.BusinessRepository, profiles repository.ProfileRepository, engine *policy.Engine, log *logger.Logger) *BusinessUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &BusinessUseCase{businesses: businesses, profiles: profiles, policy: engine, log: log, now: time.Now}
}

// Ensure devuelve el negocio de accountID y lo sintetiza desde el SupplierProfile si no existe.
// Idempotente bajo concurrencia: la inserción es insert-if-absent sobre account_id único,
// el perdedor de la carrera recibe el registro del ganador.
func (uc *BusinessUseCase) Ensure(ctx context.Context, caller entity.Identity, accountID string) (*dto.BusinessResponse, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	existing, err := uc.businesses.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return ToBusinessResponse(existing), nil
	}

	if err := uc.policy.Authorize(ctx, caller, policy.OpInsert, policy.Resource{Table: policy.TableBusiness, OwnerID: accountID}); err != nil {
		return nil, err
	}
	if err := uc.policy.Authorize(ctx, caller, policy.OpRead, policy.Resource{Table: policy.TableSupplierProfile, OwnerID: accountID}); err != nil {
		return nil, err
	}
	profile, err := uc.profiles.GetSupplierByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: la cuenta %s no tiene perfil de proveedor", domain.ErrNotFound, accountID)
	}

	rec, created, err := uc.businesses.InsertIfAbsent(ctx, entity.BusinessFromProfile(uuid.New().String(), profile, uc.now().UTC()))
	if err != nil {
		return nil, err
	}
	if created {
		uc.log.Info().Str("account_id", accountID).Str("business_id", rec.ID).Msg("negocio de proveedor aprovisionado")
	}
	return ToBusinessResponse(rec), nil
}

// GetByAccount lectura pública del negocio de una cuenta.
func (uc *BusinessUseCase) GetByAccount(ctx context.Context, caller entity.Identity, accountID string) (*dto.BusinessResponse, error) {
	if err := uc.policy.Authorize(ctx, caller, policy.OpRead, policy.Resource{Table: policy.TableBusiness, OwnerID: accountID}); err != nil {
		return nil, err
	}
	b, err := uc.businesses.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return ToBusinessResponse(b), nil
}

// ToBusinessResponse mapea la entidad al DTO.
func ToBusinessResponse(b *entity.SupplierBusiness) *dto.BusinessResponse {
	return &dto.BusinessResponse{
		ID:        b.ID,
		AccountID: b.AccountID,
		Name:      b.Name,
		Contact:   b.Contact,
		Address:   b.Address,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
