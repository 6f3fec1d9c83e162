package approval

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

// TxRunner aplica la transición de aprobación y su entrada de auditoría de forma atómica.
type TxRunner interface {
	RunApproval(ctx context.Context, fn func(
		roles repository.RoleAssignmentRepository,
		audit repository.ApprovalAuditRepository,
	) error) error
}
