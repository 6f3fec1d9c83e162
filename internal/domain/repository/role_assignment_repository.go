package repository

import (
	"context"
	"time"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// RoleAssignmentRepository define el puerto de persistencia para RoleAssignment.
// La unicidad por account_id la garantiza el almacenamiento: Create devuelve domain.ErrDuplicate.
type RoleAssignmentRepository interface {
	Create(ctx context.Context, ra *entity.RoleAssignment) error
	GetByAccount(ctx context.Context, accountID string) (*entity.RoleAssignment, error)
	// IsSuperadmin consulta de existencia: rol superadmin con estado approved.
	IsSuperadmin(ctx context.Context, accountID string) (bool, error)
	// TransitionStatus aplica la transición solo si el estado actual sigue siendo from
	// (compare-and-swap). Devuelve false si no se actualizó ninguna fila.
	TransitionStatus(ctx context.Context, accountID string, from, to entity.ApprovalStatus, reviewedBy string, at time.Time) (bool, error)
	ListByRoleAndStatus(ctx context.Context, role entity.Role, status entity.ApprovalStatus, limit, offset int) ([]*entity.RoleAssignment, error)
}
