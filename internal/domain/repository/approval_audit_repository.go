package repository

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// ApprovalAuditRepository log inmutable de decisiones de aprobación. Append es la única mutación.
type ApprovalAuditRepository interface {
	Append(ctx context.Context, entry *entity.ApprovalAuditEntry) error
	ListByAccount(ctx context.Context, accountID string) ([]*entity.ApprovalAuditEntry, error)
}
