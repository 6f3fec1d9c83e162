package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var _ repository.ApprovalAuditRepository = (*ApprovalAuditRepo)(nil)

// ApprovalAuditRepo log de aprobaciones (solo INSERT y SELECT).
type ApprovalAuditRepo struct {
	q Querier
}

// NewApprovalAuditRepository construye el repositorio (pasar pool o tx).
func NewApprovalAuditRepository(q Querier) *ApprovalAuditRepo {
	return &ApprovalAuditRepo{q: q}
}

func (r *ApprovalAuditRepo) Append(ctx context.Context, e *entity.ApprovalAuditEntry) error {
	query := `
		INSERT INTO approval_audit_log (id, account_id, action, performed_by, status_before, status_after, reason, performed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.AccountID, e.Action, e.PerformedBy,
		string(e.StatusBefore), string(e.StatusAfter), e.Reason, e.PerformedAt,
	)
	if err != nil {
		return writeError("append approval audit", err)
	}
	return nil
}

func (r *ApprovalAuditRepo) ListByAccount(ctx context.Context, accountID string) ([]*entity.ApprovalAuditEntry, error) {
	query := `
		SELECT id, account_id, action, performed_by, status_before, status_after, reason, performed_at
		FROM approval_audit_log
		WHERE account_id = $1
		ORDER BY performed_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, accountID)
	if isInvalidText(err) {
		return []*entity.ApprovalAuditEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list approval audit: %w", err)
	}
	defer rows.Close()

	out := []*entity.ApprovalAuditEntry{}
	for rows.Next() {
		var (
			e             entity.ApprovalAuditEntry
			before, after string
		)
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Action, &e.PerformedBy, &before, &after, &e.Reason, &e.PerformedAt); err != nil {
			return nil, fmt.Errorf("scan approval audit: %w", err)
		}
		e.StatusBefore = entity.ApprovalStatus(before)
		e.StatusAfter = entity.ApprovalStatus(after)
		out = append(out, &e)
	}
	return out, rows.Err()
}
