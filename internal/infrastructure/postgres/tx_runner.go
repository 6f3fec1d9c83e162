package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

// TxBeginner lo implementa *pgxpool.Pool (y pgxmock en tests).
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner ejecuta unidades de trabajo dentro de una transacción pgx con repositorios atados a ella.
type TxRunner struct {
	db TxBeginner
}

// NewTxRunner construye el runner sobre el pool.
func NewTxRunner(db TxBeginner) *TxRunner {
	return &TxRunner{db: db}
}

// run hace commit si fn termina sin error; en otro caso rollback.
func (t *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// RunSignUp cuenta, rol, perfil y negocio en una sola transacción.
func (t *TxRunner) RunSignUp(ctx context.Context, fn func(
	accounts repository.AccountRepository,
	roles repository.RoleAssignmentRepository,
	profiles repository.ProfileRepository,
	businesses repository.BusinessRepository,
) error) error {
	return t.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewAccountRepository(tx),
			NewRoleAssignmentRepository(tx),
			NewProfileRepository(tx),
			NewBusinessRepository(tx),
		)
	})
}

// RunApproval transición de aprobación más su entrada de auditoría.
func (t *TxRunner) RunApproval(ctx context.Context, fn func(
	roles repository.RoleAssignmentRepository,
	audit repository.ApprovalAuditRepository,
) error) error {
	return t.run(ctx, func(tx pgx.Tx) error {
		return fn(NewRoleAssignmentRepository(tx), NewApprovalAuditRepository(tx))
	})
}
