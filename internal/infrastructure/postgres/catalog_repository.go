package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo implementación de CatalogRepository con pgx; el listado público se arma con squirrel.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el repositorio (pasar pool o tx).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

var itemColumns = []string{
	"ci.id", "ci.business_id", "ci.sku", "ci.name", "ci.description", "ci.category",
	"ci.price", "ci.stock_quantity", "ci.min_stock_level", "ci.status", "ci.created_at", "ci.updated_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// likeEscaper neutraliza los comodines de LIKE en el texto del usuario (la barra invertida es el escape por defecto de PostgreSQL).
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func scanItem(row pgx.Row) (*entity.CatalogItem, error) {
	var it entity.CatalogItem
	err := row.Scan(
		&it.ID, &it.BusinessID, &it.SKU, &it.Name, &it.Description, &it.Category,
		&it.Price, &it.StockQuantity, &it.MinStockLevel, &it.Status, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *CatalogRepo) Create(ctx context.Context, it *entity.CatalogItem) error {
	query := `
		INSERT INTO catalog_items (id, business_id, sku, name, description, category, price, stock_quantity, min_stock_level, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.BusinessID, it.SKU, it.Name, it.Description, it.Category,
		it.Price, it.StockQuantity, it.MinStockLevel, it.Status, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return writeError("insert catalog item", err)
	}
	return nil
}

func (r *CatalogRepo) GetByID(ctx context.Context, id string) (*entity.CatalogItem, error) {
	query := `SELECT ` + strings.Join(itemColumns, ", ") + ` FROM catalog_items ci WHERE ci.id = $1`
	it, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog item: %w", err)
	}
	return it, nil
}

func (r *CatalogRepo) Update(ctx context.Context, it *entity.CatalogItem) error {
	query := `
		UPDATE catalog_items
		SET sku = $2, name = $3, description = $4, category = $5, price = $6,
		    stock_quantity = $7, min_stock_level = $8, status = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		it.ID, it.SKU, it.Name, it.Description, it.Category, it.Price,
		it.StockQuantity, it.MinStockLevel, it.Status, it.UpdatedAt,
	)
	if err != nil {
		return writeError("update catalog item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete falla con ErrConflict si hay pedidos que referencian el ítem.
func (r *CatalogRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM catalog_items WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el ítem tiene pedidos asociados", domain.ErrConflict)
		}
		return fmt.Errorf("delete catalog item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CatalogRepo) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*entity.CatalogItem, error) {
	b := psql.Select(itemColumns...).
		From("catalog_items ci").
		Where(sq.Eq{"ci.business_id": businessID}).
		OrderBy("ci.created_at DESC", "ci.id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	return r.list(ctx, b)
}

func (r *CatalogRepo) ListLowStock(ctx context.Context, businessID string) ([]*entity.CatalogItem, error) {
	b := psql.Select(itemColumns...).
		From("catalog_items ci").
		Where(sq.Eq{"ci.business_id": businessID}).
		Where("ci.stock_quantity <= ci.min_stock_level").
		OrderBy("ci.created_at DESC", "ci.id ASC")
	return r.list(ctx, b)
}

// ListPublic une con el negocio y la asignación de rol: solo proveedores approved y ítems activos.
func (r *CatalogRepo) ListPublic(ctx context.Context, f repository.CatalogFilter) ([]*entity.CatalogItem, error) {
	b := psql.Select(itemColumns...).
		From("catalog_items ci").
		Join("supplier_businesses sb ON sb.id = ci.business_id").
		Join("role_assignments ra ON ra.account_id = sb.account_id").
		Where(sq.Eq{"ci.status": entity.ItemStatusActive, "ra.approval_status": string(entity.ApprovalApproved)})

	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + likeEscaper.Replace(s) + "%"
		b = b.Where(sq.Or{
			sq.ILike{"ci.name": pattern},
			sq.ILike{"ci.description": pattern},
			sq.ILike{"ci.sku": pattern},
		})
	}
	if f.Category != "" {
		b = b.Where("lower(ci.category) = lower(?)", f.Category)
	}
	if f.MinPrice != nil {
		b = b.Where(sq.GtOrEq{"ci.price": *f.MinPrice})
	}
	if f.MaxPrice != nil {
		b = b.Where(sq.LtOrEq{"ci.price": *f.MaxPrice})
	}
	b = b.OrderBy("ci.created_at DESC", "ci.id ASC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))
	return r.list(ctx, b)
}

func (r *CatalogRepo) list(ctx context.Context, b sq.SelectBuilder) ([]*entity.CatalogItem, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build catalog query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	defer rows.Close()

	out := []*entity.CatalogItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
