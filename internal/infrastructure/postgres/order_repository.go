package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository con pgx.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el repositorio (pasar pool o tx).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, purchaser_id, catalog_item_id, business_id, quantity, unit_price, total_amount, status, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var (
		o      entity.Order
		status string
	)
	err := row.Scan(
		&o.ID, &o.PurchaserID, &o.CatalogItemID, &o.BusinessID, &o.Quantity,
		&o.UnitPrice, &o.TotalAmount, &status, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	return &o, nil
}

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.PurchaserID, o.CatalogItemID, o.BusinessID, o.Quantity,
		o.UnitPrice, o.TotalAmount, string(o.Status), o.Notes, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return writeError("insert order", err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) TransitionStatus(ctx context.Context, id string, from, to entity.OrderStatus) (bool, error) {
	query := `UPDATE orders SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(ctx, query, id, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("transition order: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OrderRepo) ListByPurchaser(ctx context.Context, purchaserID string, limit, offset int) ([]*entity.Order, error) {
	return r.list(ctx, `purchaser_id`, purchaserID, limit, offset)
}

func (r *OrderRepo) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*entity.Order, error) {
	return r.list(ctx, `business_id`, businessID, limit, offset)
}

// list column es siempre una constante interna, nunca entrada del cliente.
func (r *OrderRepo) list(ctx context.Context, column, value string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ` + column + ` = $1
		ORDER BY created_at DESC, id ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, value, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := []*entity.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
