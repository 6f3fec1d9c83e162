package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo implementación de BusinessRepository con pgx.
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository construye el repositorio (pasar pool o tx).
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

const businessColumns = `id, account_id, name, contact, address, status, created_at, updated_at`

func scanBusiness(row pgx.Row) (*entity.SupplierBusiness, error) {
	var b entity.SupplierBusiness
	if err := row.Scan(&b.ID, &b.AccountID, &b.Name, &b.Contact, &b.Address, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// InsertIfAbsent se apoya en el UNIQUE(account_id): si otro escritor ganó, RETURNING
// no devuelve filas y se relee el registro existente.
func (r *BusinessRepo) InsertIfAbsent(ctx context.Context, b *entity.SupplierBusiness) (*entity.SupplierBusiness, bool, error) {
	query := `
		INSERT INTO supplier_businesses (id, account_id, name, contact, address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (account_id) DO NOTHING
		RETURNING ` + businessColumns
	rec, err := scanBusiness(r.q.QueryRow(ctx, query,
		b.ID, b.AccountID, b.Name, b.Contact, b.Address, b.Status, b.CreatedAt, b.UpdatedAt,
	))
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, writeError("insert business", err)
	}

	existing, err := r.GetByAccount(ctx, b.AccountID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("insert business: conflicto sin registro existente para %s", b.AccountID)
	}
	return existing, false, nil
}

func (r *BusinessRepo) GetByID(ctx context.Context, id string) (*entity.SupplierBusiness, error) {
	return r.getOne(ctx, `SELECT `+businessColumns+` FROM supplier_businesses WHERE id = $1`, id)
}

func (r *BusinessRepo) GetByAccount(ctx context.Context, accountID string) (*entity.SupplierBusiness, error) {
	return r.getOne(ctx, `SELECT `+businessColumns+` FROM supplier_businesses WHERE account_id = $1`, accountID)
}

func (r *BusinessRepo) getOne(ctx context.Context, query, arg string) (*entity.SupplierBusiness, error) {
	b, err := scanBusiness(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return b, nil
}
