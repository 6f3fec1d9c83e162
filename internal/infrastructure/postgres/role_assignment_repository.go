package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var _ repository.RoleAssignmentRepository = (*RoleAssignmentRepo)(nil)

// RoleAssignmentRepo implementación de RoleAssignmentRepository con pgx.
type RoleAssignmentRepo struct {
	q Querier
}

// NewRoleAssignmentRepository construye el repositorio (pasar pool o tx).
func NewRoleAssignmentRepository(q Querier) *RoleAssignmentRepo {
	return &RoleAssignmentRepo{q: q}
}

const roleColumns = `id, account_id, role, approval_status, reviewed_by, reviewed_at, created_at, updated_at`

func scanRole(row pgx.Row) (*entity.RoleAssignment, error) {
	var (
		ra           entity.RoleAssignment
		role, status string
	)
	if err := row.Scan(&ra.ID, &ra.AccountID, &role, &status, &ra.ReviewedBy, &ra.ReviewedAt, &ra.CreatedAt, &ra.UpdatedAt); err != nil {
		return nil, err
	}
	ra.Role = entity.Role(role)
	ra.ApprovalStatus = entity.ApprovalStatus(status)
	return &ra, nil
}

func (r *RoleAssignmentRepo) Create(ctx context.Context, ra *entity.RoleAssignment) error {
	query := `
		INSERT INTO role_assignments (id, account_id, role, approval_status, reviewed_by, reviewed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		ra.ID, ra.AccountID, string(ra.Role), string(ra.ApprovalStatus),
		ra.ReviewedBy, ra.ReviewedAt, ra.CreatedAt, ra.UpdatedAt,
	)
	if err != nil {
		return writeError("insert role assignment", err)
	}
	return nil
}

func (r *RoleAssignmentRepo) GetByAccount(ctx context.Context, accountID string) (*entity.RoleAssignment, error) {
	ra, err := scanRole(r.q.QueryRow(ctx, `SELECT `+roleColumns+` FROM role_assignments WHERE account_id = $1`, accountID))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role assignment: %w", err)
	}
	return ra, nil
}

func (r *RoleAssignmentRepo) IsSuperadmin(ctx context.Context, accountID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM role_assignments
			WHERE account_id = $1 AND role = 'superadmin' AND approval_status = 'approved'
		)`
	var ok bool
	if err := r.q.QueryRow(ctx, query, accountID).Scan(&ok); err != nil {
		return false, fmt.Errorf("superadmin lookup: %w", err)
	}
	return ok, nil
}

func (r *RoleAssignmentRepo) TransitionStatus(ctx context.Context, accountID string, from, to entity.ApprovalStatus, reviewedBy string, at time.Time) (bool, error) {
	query := `
		UPDATE role_assignments
		SET approval_status = $3, reviewed_by = $4, reviewed_at = $5, updated_at = $5
		WHERE account_id = $1 AND approval_status = $2`
	tag, err := r.q.Exec(ctx, query, accountID, string(from), string(to), reviewedBy, at)
	if err != nil {
		return false, writeError("transition role assignment", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByRoleAndStatus ordena por created_at ascendente (cola FIFO).
func (r *RoleAssignmentRepo) ListByRoleAndStatus(ctx context.Context, role entity.Role, status entity.ApprovalStatus, limit, offset int) ([]*entity.RoleAssignment, error) {
	query := `
		SELECT ` + roleColumns + `
		FROM role_assignments
		WHERE role = $1 AND approval_status = $2
		ORDER BY created_at ASC, id ASC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, string(role), string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list role assignments: %w", err)
	}
	defer rows.Close()

	out := []*entity.RoleAssignment{}
	for rows.Next() {
		ra, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role assignment: %w", err)
		}
		out = append(out, ra)
	}
	return out, rows.Err()
}
