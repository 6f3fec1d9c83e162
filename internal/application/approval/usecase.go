// Package approval implementa la máquina de estados de aprobación de proveedores.
package approval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/policy"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
	"github.com/jhoicas/marketplace-api/pkg/logger"
)

// UseCase aprobación/rechazo de proveedores, cola de pendientes y log de auditoría.
type UseCase struct {
	roles    repository.RoleAssignmentRepository
	profiles repository.ProfileRepository
	audit    repository.ApprovalAuditRepository
	tx       TxRunner
	policy   *policy.Engine
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso de aprobaciones.
func NewUseCase(
	roles repository.RoleAssignmentRepository,
	profiles repository.ProfileRepository,
	audit repository.ApprovalAuditRepository,
	tx TxRunner,
	engine *policy.Engine,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{roles: roles, profiles: profiles, audit: audit, tx: tx, policy: engine, log: log, now: time.Now}
}

// Approve pasa la asignación del proveedor de pending a approved.
func (uc *UseCase) Approve(ctx context.Context, caller entity.Identity, accountID, reason string) (*dto.RoleAssignmentResponse, error) {
	return uc.transition(ctx, caller, accountID, entity.ApprovalApproved, reason)
}

// Reject pasa la asignación del proveedor de pending a rejected.
func (uc *UseCase) Reject(ctx context.Context, caller entity.Identity, accountID, reason string) (*dto.RoleAssignmentResponse, error) {
	return uc.transition(ctx, caller, accountID, entity.ApprovalRejected, reason)
}

// transition autoriza antes de leer la fila: un llamador sin privilegio recibe PolicyError
// aunque la cuenta no exista.
func (uc *UseCase) transition(ctx context.Context, caller entity.Identity, accountID string, to entity.ApprovalStatus, reason string) (*dto.RoleAssignmentResponse, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	res := policy.Resource{Table: policy.TableRoleAssignment, OwnerID: accountID}
	if err := uc.policy.Authorize(ctx, caller, policy.OpUpdate, res); err != nil {
		return nil, err
	}

	ra, err := uc.roles.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if ra == nil {
		return nil, fmt.Errorf("%w: la cuenta %s no tiene asignación de rol", domain.ErrNotFound, accountID)
	}
	if ra.Role != entity.RoleSupplier {
		return nil, fmt.Errorf("%w: solo las cuentas supplier pasan por aprobación (rol %s)", domain.ErrConflict, ra.Role)
	}
	if !entity.CanTransitionApproval(ra.ApprovalStatus, to) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, ra.ApprovalStatus, to)
	}

	now := uc.now().UTC()
	from := ra.ApprovalStatus
	action := entity.AuditActionApproved
	if to == entity.ApprovalRejected {
		action = entity.AuditActionRejected
	}

	err = uc.tx.RunApproval(ctx, func(roles repository.RoleAssignmentRepository, audit repository.ApprovalAuditRepository) error {
		ok, err := roles.TransitionStatus(ctx, accountID, from, to, caller.AccountID, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: la asignación ya no está en %s", domain.ErrConflict, from)
		}
		return audit.Append(ctx, &entity.ApprovalAuditEntry{
			ID:           uuid.New().String(),
			AccountID:    accountID,
			Action:       action,
			PerformedBy:  caller.AccountID,
			StatusBefore: from,
			StatusAfter:  to,
			Reason:       strings.TrimSpace(reason),
			PerformedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("account_id", accountID).
		Str("performed_by", caller.AccountID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("aprobación de proveedor actualizada")

	updated, err := uc.roles.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return toRoleResponse(updated), nil
}

// ListPending cola de proveedores pendientes (solo superadmin), del más antiguo al más nuevo.
func (uc *UseCase) ListPending(ctx context.Context, caller entity.Identity, page dto.PageRequest) (*dto.PendingSupplierListResponse, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	// Resource sin dueño: solo el bypass de superadmin permite la lectura.
	if err := uc.policy.Authorize(ctx, caller, policy.OpRead, policy.Resource{Table: policy.TableRoleAssignment}); err != nil {
		return nil, err
	}
	page.DefaultPage()
	rows, err := uc.roles.ListByRoleAndStatus(ctx, entity.RoleSupplier, entity.ApprovalPending, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PendingSupplierResponse, 0, len(rows))
	for _, ra := range rows {
		item := dto.PendingSupplierResponse{AccountID: ra.AccountID, RequestedAt: ra.CreatedAt}
		p, err := uc.profiles.GetSupplierByAccount(ctx, ra.AccountID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			item.BusinessName = p.BusinessName
			item.ContactPerson = p.ContactPerson
			item.ContactNumber = p.ContactNumber
		}
		items = append(items, item)
	}
	return &dto.PendingSupplierListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(items)},
	}, nil
}

// AuditTrail historial de decisiones sobre una cuenta: la propia cuenta o un superadmin.
func (uc *UseCase) AuditTrail(ctx context.Context, caller entity.Identity, accountID string) ([]dto.AuditEntryResponse, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	if err := uc.policy.Authorize(ctx, caller, policy.OpRead, policy.Resource{Table: policy.TableRoleAssignment, OwnerID: accountID}); err != nil {
		return nil, err
	}
	rows, err := uc.audit.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditEntryResponse, 0, len(rows))
	for _, e := range rows {
		out = append(out, dto.AuditEntryResponse{
			ID:           e.ID,
			AccountID:    e.AccountID,
			Action:       e.Action,
			PerformedBy:  e.PerformedBy,
			StatusBefore: string(e.StatusBefore),
			StatusAfter:  string(e.StatusAfter),
			Reason:       e.Reason,
			PerformedAt:  e.PerformedAt,
		})
	}
	return out, nil
}

func toRoleResponse(ra *entity.RoleAssignment) *dto.RoleAssignmentResponse {
	if ra == nil {
		return nil
	}
	return &dto.RoleAssignmentResponse{
		AccountID:      ra.AccountID,
		Role:           string(ra.Role),
		ApprovalStatus: string(ra.ApprovalStatus),
		ReviewedBy:     ra.ReviewedBy,
		ReviewedAt:     ra.ReviewedAt,
		CreatedAt:      ra.CreatedAt,
		UpdatedAt:      ra.UpdatedAt,
	}
}
