package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var (
	_ repository.AccountRepository        = (*AccountRepository)(nil)
	_ repository.RoleAssignmentRepository = (*RoleAssignmentRepository)(nil)
	_ repository.ProfileRepository        = (*ProfileRepository)(nil)
	_ repository.BusinessRepository       = (*BusinessRepository)(nil)
	_ repository.CatalogRepository        = (*CatalogRepository)(nil)
	_ repository.OrderRepository          = (*OrderRepository)(nil)
	_ repository.ApprovalAuditRepository  = (*ApprovalAuditRepository)(nil)
	_ repository.AnalyticsRepository      = (*AnalyticsRepository)(nil)
)

func fkViolation(table, column string) error {
	return domain.Invalid("%s.%s referencia una fila inexistente", table, column)
}

func page[T any](rows []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// AccountRepository cuentas en memoria. Email único sin distinguir mayúsculas.
type AccountRepository struct{ v view }

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	return r.v.do(ctx, func(st *state) error {
		for _, existing := range st.accounts {
			if strings.EqualFold(existing.Email, a.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		if _, ok := st.accounts[a.ID]; ok {
			return fmt.Errorf("%w: accounts.id", domain.ErrDuplicate)
		}
		st.accounts[a.ID] = *a
		return nil
	})
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	var out *entity.Account
	err := r.v.do(ctx, func(st *state) error {
		if a, ok := st.accounts[id]; ok {
			out = &a
		}
		return nil
	})
	return out, err
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var out *entity.Account
	err := r.v.do(ctx, func(st *state) error {
		for _, a := range st.accounts {
			if strings.EqualFold(a.Email, email) {
				a := a
				out = &a
				return nil
			}
		}
		return nil
	})
	return out, err
}

// RoleAssignmentRepository asignaciones de rol en memoria. Una por cuenta.
type RoleAssignmentRepository struct{ v view }

func (r *RoleAssignmentRepository) Create(ctx context.Context, ra *entity.RoleAssignment) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.accounts[ra.AccountID]; !ok {
			return fkViolation("role_assignments", "account_id")
		}
		if _, ok := st.roles[ra.AccountID]; ok {
			return fmt.Errorf("%w: role_assignments.account_id", domain.ErrDuplicate)
		}
		st.roles[ra.AccountID] = *ra
		return nil
	})
}

func (r *RoleAssignmentRepository) GetByAccount(ctx context.Context, accountID string) (*entity.RoleAssignment, error) {
	var out *entity.RoleAssignment
	err := r.v.do(ctx, func(st *state) error {
		if ra, ok := st.roles[accountID]; ok {
			out = &ra
		}
		return nil
	})
	return out, err
}

func (r *RoleAssignmentRepository) IsSuperadmin(ctx context.Context, accountID string) (bool, error) {
	var ok bool
	err := r.v.do(ctx, func(st *state) error {
		ra, found := st.roles[accountID]
		ok = found && ra.IsSuperadmin()
		return nil
	})
	return ok, err
}

func (r *RoleAssignmentRepository) TransitionStatus(ctx context.Context, accountID string, from, to entity.ApprovalStatus, reviewedBy string, at time.Time) (bool, error) {
	var updated bool
	err := r.v.do(ctx, func(st *state) error {
		ra, ok := st.roles[accountID]
		if !ok || ra.ApprovalStatus != from {
			return nil
		}
		by, when := reviewedBy, at
		ra.ApprovalStatus = to
		ra.ReviewedBy = &by
		ra.ReviewedAt = &when
		ra.UpdatedAt = at
		st.roles[accountID] = ra
		updated = true
		return nil
	})
	return updated, err
}

func (r *RoleAssignmentRepository) ListByRoleAndStatus(ctx context.Context, role entity.Role, status entity.ApprovalStatus, limit, offset int) ([]*entity.RoleAssignment, error) {
	var rows []*entity.RoleAssignment
	err := r.v.do(ctx, func(st *state) error {
		for _, ra := range st.roles {
			if ra.Role == role && ra.ApprovalStatus == status {
				ra := ra
				rows = append(rows, &ra)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// FIFO: la cola de aprobación atiende primero a los más antiguos.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].AccountID < rows[j].AccountID
		}
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})
	return page(rows, limit, offset), nil
}

// ProfileRepository perfiles en memoria. Uno por cuenta y tipo.
type ProfileRepository struct{ v view }

func (r *ProfileRepository) CreateSupplier(ctx context.Context, p *entity.SupplierProfile) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.accounts[p.AccountID]; !ok {
			return fkViolation("supplier_profiles", "account_id")
		}
		if _, ok := st.suppliers[p.AccountID]; ok {
			return fmt.Errorf("%w: supplier_profiles.account_id", domain.ErrDuplicate)
		}
		st.suppliers[p.AccountID] = *p
		return nil
	})
}

func (r *ProfileRepository) CreateVendor(ctx context.Context, p *entity.VendorProfile) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.accounts[p.AccountID]; !ok {
			return fkViolation("vendor_profiles", "account_id")
		}
		if _, ok := st.vendors[p.AccountID]; ok {
			return fmt.Errorf("%w: vendor_profiles.account_id", domain.ErrDuplicate)
		}
		st.vendors[p.AccountID] = *p
		return nil
	})
}

func (r *ProfileRepository) GetSupplierByAccount(ctx context.Context, accountID string) (*entity.SupplierProfile, error) {
	var out *entity.SupplierProfile
	err := r.v.do(ctx, func(st *state) error {
		if p, ok := st.suppliers[accountID]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProfileRepository) GetVendorByAccount(ctx context.Context, accountID string) (*entity.VendorProfile, error) {
	var out *entity.VendorProfile
	err := r.v.do(ctx, func(st *state) error {
		if p, ok := st.vendors[accountID]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProfileRepository) UpdateSupplier(ctx context.Context, p *entity.SupplierProfile) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.suppliers[p.AccountID]; !ok {
			return domain.ErrNotFound
		}
		st.suppliers[p.AccountID] = *p
		return nil
	})
}

func (r *ProfileRepository) UpdateVendor(ctx context.Context, p *entity.VendorProfile) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.vendors[p.AccountID]; !ok {
			return domain.ErrNotFound
		}
		st.vendors[p.AccountID] = *p
		return nil
	})
}

// BusinessRepository negocios en memoria. Uno por cuenta.
type BusinessRepository struct{ v view }

func (r *BusinessRepository) InsertIfAbsent(ctx context.Context, b *entity.SupplierBusiness) (*entity.SupplierBusiness, bool, error) {
	var (
		out     entity.SupplierBusiness
		created bool
	)
	err := r.v.do(ctx, func(st *state) error {
		for _, existing := range st.businesses {
			if existing.AccountID == b.AccountID {
				out = existing
				return nil
			}
		}
		if _, ok := st.accounts[b.AccountID]; !ok {
			return fkViolation("supplier_businesses", "account_id")
		}
		st.businesses[b.ID] = *b
		out, created = *b, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &out, created, nil
}

func (r *BusinessRepository) GetByID(ctx context.Context, id string) (*entity.SupplierBusiness, error) {
	var out *entity.SupplierBusiness
	err := r.v.do(ctx, func(st *state) error {
		if b, ok := st.businesses[id]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

func (r *BusinessRepository) GetByAccount(ctx context.Context, accountID string) (*entity.SupplierBusiness, error) {
	var out *entity.SupplierBusiness
	err := r.v.do(ctx, func(st *state) error {
		for _, b := range st.businesses {
			if b.AccountID == accountID {
				b := b
				out = &b
				return nil
			}
		}
		return nil
	})
	return out, err
}

// CatalogRepository ítems de catálogo en memoria. SKU único.
type CatalogRepository struct{ v view }

func skuTaken(st *state, sku, exceptID string) bool {
	for _, it := range st.items {
		if it.ID != exceptID && it.SKU == sku {
			return true
		}
	}
	return false
}

func (r *CatalogRepository) Create(ctx context.Context, item *entity.CatalogItem) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.businesses[item.BusinessID]; !ok {
			return fkViolation("catalog_items", "business_id")
		}
		if skuTaken(st, item.SKU, "") {
			return fmt.Errorf("%w: catalog_items.sku %q", domain.ErrDuplicate, item.SKU)
		}
		st.items[item.ID] = *item
		return nil
	})
}

func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*entity.CatalogItem, error) {
	var out *entity.CatalogItem
	err := r.v.do(ctx, func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *CatalogRepository) Update(ctx context.Context, item *entity.CatalogItem) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.items[item.ID]; !ok {
			return domain.ErrNotFound
		}
		if skuTaken(st, item.SKU, item.ID) {
			return fmt.Errorf("%w: catalog_items.sku %q", domain.ErrDuplicate, item.SKU)
		}
		st.items[item.ID] = *item
		return nil
	})
}

func (r *CatalogRepository) Delete(ctx context.Context, id string) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.items[id]; !ok {
			return domain.ErrNotFound
		}
		for _, o := range st.orders {
			if o.CatalogItemID == id {
				return fmt.Errorf("%w: el ítem tiene pedidos asociados", domain.ErrConflict)
			}
		}
		delete(st.items, id)
		return nil
	})
}

func sortItems(rows []*entity.CatalogItem) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
}

func (r *CatalogRepository) collect(ctx context.Context, keep func(st *state, it entity.CatalogItem) bool) ([]*entity.CatalogItem, error) {
	rows := []*entity.CatalogItem{}
	err := r.v.do(ctx, func(st *state) error {
		for _, it := range st.items {
			if keep(st, it) {
				it := it
				rows = append(rows, &it)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortItems(rows)
	return rows, nil
}

func (r *CatalogRepository) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*entity.CatalogItem, error) {
	rows, err := r.collect(ctx, func(_ *state, it entity.CatalogItem) bool { return it.BusinessID == businessID })
	if err != nil {
		return nil, err
	}
	return page(rows, limit, offset), nil
}

func (r *CatalogRepository) ListLowStock(ctx context.Context, businessID string) ([]*entity.CatalogItem, error) {
	return r.collect(ctx, func(_ *state, it entity.CatalogItem) bool {
		return it.BusinessID == businessID && it.LowStock()
	})
}

func (r *CatalogRepository) ListPublic(ctx context.Context, f repository.CatalogFilter) ([]*entity.CatalogItem, error) {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	rows, err := r.collect(ctx, func(st *state, it entity.CatalogItem) bool {
		if !it.Active() {
			return false
		}
		b, ok := st.businesses[it.BusinessID]
		if !ok {
			return false
		}
		ra, ok := st.roles[b.AccountID]
		if !ok || ra.ApprovalStatus != entity.ApprovalApproved {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(it.Name), search) &&
			!strings.Contains(strings.ToLower(it.Description), search) &&
			!strings.Contains(strings.ToLower(it.SKU), search) {
			return false
		}
		if f.Category != "" && !strings.EqualFold(it.Category, f.Category) {
			return false
		}
		if f.MinPrice != nil && it.Price.LessThan(*f.MinPrice) {
			return false
		}
		if f.MaxPrice != nil && it.Price.GreaterThan(*f.MaxPrice) {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return page(rows, f.Limit, f.Offset), nil
}

// OrderRepository pedidos en memoria.
type OrderRepository struct{ v view }

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.accounts[o.PurchaserID]; !ok {
			return fkViolation("orders", "purchaser_id")
		}
		if _, ok := st.items[o.CatalogItemID]; !ok {
			return fkViolation("orders", "catalog_item_id")
		}
		if _, ok := st.businesses[o.BusinessID]; !ok {
			return fkViolation("orders", "business_id")
		}
		if _, ok := st.orders[o.ID]; ok {
			return fmt.Errorf("%w: orders.id", domain.ErrDuplicate)
		}
		st.orders[o.ID] = *o
		return nil
	})
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.v.do(ctx, func(st *state) error {
		if o, ok := st.orders[id]; ok {
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *OrderRepository) TransitionStatus(ctx context.Context, id string, from, to entity.OrderStatus) (bool, error) {
	var updated bool
	err := r.v.do(ctx, func(st *state) error {
		o, ok := st.orders[id]
		if !ok || o.Status != from {
			return nil
		}
		o.Status = to
		o.UpdatedAt = time.Now().UTC()
		st.orders[id] = o
		updated = true
		return nil
	})
	return updated, err
}

func (r *OrderRepository) list(ctx context.Context, keep func(o entity.Order) bool, limit, offset int) ([]*entity.Order, error) {
	rows := []*entity.Order{}
	err := r.v.do(ctx, func(st *state) error {
		for _, o := range st.orders {
			if keep(o) {
				o := o
				rows = append(rows, &o)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return page(rows, limit, offset), nil
}

func (r *OrderRepository) ListByPurchaser(ctx context.Context, purchaserID string, limit, offset int) ([]*entity.Order, error) {
	return r.list(ctx, func(o entity.Order) bool { return o.PurchaserID == purchaserID }, limit, offset)
}

func (r *OrderRepository) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*entity.Order, error) {
	return r.list(ctx, func(o entity.Order) bool { return o.BusinessID == businessID }, limit, offset)
}

// ApprovalAuditRepository log de aprobaciones en memoria (solo append).
type ApprovalAuditRepository struct{ v view }

func (r *ApprovalAuditRepository) Append(ctx context.Context, e *entity.ApprovalAuditEntry) error {
	return r.v.do(ctx, func(st *state) error {
		st.audit = append(st.audit, *e)
		return nil
	})
}

func (r *ApprovalAuditRepository) ListByAccount(ctx context.Context, accountID string) ([]*entity.ApprovalAuditEntry, error) {
	rows := []*entity.ApprovalAuditEntry{}
	err := r.v.do(ctx, func(st *state) error {
		for _, e := range st.audit {
			if e.AccountID == accountID {
				e := e
				rows = append(rows, &e)
			}
		}
		return nil
	})
	return rows, err
}

// AnalyticsRepository agregados del dashboard calculados sobre el estado en memoria.
type AnalyticsRepository struct{ v view }

func (r *AnalyticsRepository) GetCatalogStats(ctx context.Context, businessID string) (repository.CatalogStats, error) {
	var s repository.CatalogStats
	err := r.v.do(ctx, func(st *state) error {
		for _, it := range st.items {
			if it.BusinessID != businessID {
				continue
			}
			s.TotalItems++
			if it.Active() {
				s.ActiveItems++
			}
			if it.LowStock() {
				s.LowStockItems++
			}
		}
		return nil
	})
	return s, err
}

func (r *AnalyticsRepository) CountOrdersByStatus(ctx context.Context, businessID string) (map[entity.OrderStatus]int, error) {
	counts := map[entity.OrderStatus]int{}
	err := r.v.do(ctx, func(st *state) error {
		for _, o := range st.orders {
			if o.BusinessID == businessID {
				counts[o.Status]++
			}
		}
		return nil
	})
	return counts, err
}

func (r *AnalyticsRepository) GetDeliveredRevenue(ctx context.Context, businessID string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.v.do(ctx, func(st *state) error {
		for _, o := range st.orders {
			if o.BusinessID == businessID && o.Status == entity.OrderDelivered {
				total = total.Add(o.TotalAmount)
			}
		}
		return nil
	})
	return total, err
}
