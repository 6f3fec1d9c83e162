package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/postgres"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

var uniqueViolation = &pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"}

func TestAccountRepo_CreateDuplicado_EsEmailYaRegistrado(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewAccountRepository(mock)
	now := time.Now()
	a := &entity.Account{ID: "a-1", Email: "acme@market.test", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(a.ID, a.Email, a.PasswordHash, a.CreatedAt, a.UpdatedAt).
		WillReturnError(uniqueViolation)

	err := repo.Create(context.Background(), a)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByEmail(t *testing.T) {
	t.Run("encontrado", func(t *testing.T) {
		mock := newMock(t)
		repo := postgres.NewAccountRepository(mock)
		now := time.Now()
		rows := mock.NewRows([]string{"id", "email", "password_hash", "created_at", "updated_at"}).
			AddRow("a-1", "Acme@Market.test", "hash", now, now)
		mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE lower\(email\) = lower\(\$1\)`).
			WithArgs("acme@market.test").
			WillReturnRows(rows)

		a, err := repo.GetByEmail(context.Background(), "acme@market.test")
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, "a-1", a.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inexistente devuelve nil, nil", func(t *testing.T) {
		mock := newMock(t)
		repo := postgres.NewAccountRepository(mock)
		mock.ExpectQuery("SELECT (.+) FROM accounts").
			WithArgs("nadie@market.test").
			WillReturnError(pgx.ErrNoRows)

		a, err := repo.GetByEmail(context.Background(), "nadie@market.test")
		assert.NoError(t, err)
		assert.Nil(t, a)
	})
}

func TestRoleAssignmentRepo_CreateDuplicado(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewRoleAssignmentRepository(mock)
	now := time.Now()
	ra := &entity.RoleAssignment{ID: "r-1", AccountID: "a-1", Role: entity.RoleVendor, ApprovalStatus: entity.ApprovalApproved, CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec("INSERT INTO role_assignments").
		WithArgs(ra.ID, ra.AccountID, "vendor", "approved", ra.ReviewedBy, ra.ReviewedAt, ra.CreatedAt, ra.UpdatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "role_assignments_account_id_key"})

	err := repo.Create(context.Background(), ra)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, domain.CategoryConstraint, domain.Category(err))
}

func TestRoleAssignmentRepo_GetByAccount(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewRoleAssignmentRepository(mock)
	now := time.Now()
	reviewer := "admin-1"
	rows := mock.NewRows([]string{"id", "account_id", "role", "approval_status", "reviewed_by", "reviewed_at", "created_at", "updated_at"}).
		AddRow("r-1", "a-1", "supplier", "approved", &reviewer, &now, now, now)
	mock.ExpectQuery("SELECT (.+) FROM role_assignments WHERE account_id = \\$1").
		WithArgs("a-1").
		WillReturnRows(rows)

	ra, err := repo.GetByAccount(context.Background(), "a-1")
	require.NoError(t, err)
	require.NotNil(t, ra)
	assert.Equal(t, entity.RoleSupplier, ra.Role)
	assert.Equal(t, entity.ApprovalApproved, ra.ApprovalStatus)
	require.NotNil(t, ra.ReviewedBy)
	assert.Equal(t, "admin-1", *ra.ReviewedBy)
}

func TestRoleAssignmentRepo_IsSuperadmin(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewRoleAssignmentRepository(mock)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("admin-1").
		WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.IsSuperadmin(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleAssignmentRepo_TransitionStatus_CAS(t *testing.T) {
	for _, tc := range []struct {
		name     string
		affected int64
		want     bool
	}{
		{"aplica desde pending", 1, true},
		{"otro escritor ganó", 0, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMock(t)
			repo := postgres.NewRoleAssignmentRepository(mock)
			at := time.Now()
			mock.ExpectExec("UPDATE role_assignments").
				WithArgs("a-1", "pending", "approved", "admin-1", at).
				WillReturnResult(pgxmock.NewResult("UPDATE", tc.affected))

			ok, err := repo.TransitionStatus(context.Background(), "a-1", entity.ApprovalPending, entity.ApprovalApproved, "admin-1", at)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestProfileRepo_UpdateSupplierInexistente(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewProfileRepository(mock)
	p := &entity.SupplierProfile{AccountID: "a-1", BusinessName: "Acme", UpdatedAt: time.Now()}
	mock.ExpectExec("UPDATE supplier_profiles").
		WithArgs(p.AccountID, p.BusinessName, "", "", "", "", p.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateSupplier(context.Background(), p)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

var businessCols = []string{"id", "account_id", "name", "contact", "address", "status", "created_at", "updated_at"}

func TestBusinessRepo_InsertIfAbsent(t *testing.T) {
	now := time.Now()
	b := &entity.SupplierBusiness{ID: "b-new", AccountID: "a-1", Name: "Acme", Status: entity.BusinessStatusActive, CreatedAt: now, UpdatedAt: now}
	args := []any{b.ID, b.AccountID, b.Name, b.Contact, b.Address, b.Status, b.CreatedAt, b.UpdatedAt}

	t.Run("inserta", func(t *testing.T) {
		mock := newMock(t)
		repo := postgres.NewBusinessRepository(mock)
		mock.ExpectQuery("INSERT INTO supplier_businesses (.+) ON CONFLICT \\(account_id\\) DO NOTHING").
			WithArgs(args...).
			WillReturnRows(mock.NewRows(businessCols).AddRow(b.ID, b.AccountID, b.Name, "", "", "active", now, now))

		rec, created, err := repo.InsertIfAbsent(context.Background(), b)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "b-new", rec.ID)
	})

	t.Run("conflicto relee el existente", func(t *testing.T) {
		mock := newMock(t)
		repo := postgres.NewBusinessRepository(mock)
		mock.ExpectQuery("INSERT INTO supplier_businesses").
			WithArgs(args...).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("SELECT (.+) FROM supplier_businesses WHERE account_id = \\$1").
			WithArgs("a-1").
			WillReturnRows(mock.NewRows(businessCols).AddRow("b-old", "a-1", "Acme", "", "", "active", now, now))

		rec, created, err := repo.InsertIfAbsent(context.Background(), b)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "b-old", rec.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

var itemCols = []string{"id", "business_id", "sku", "name", "description", "category", "price", "stock_quantity", "min_stock_level", "status", "created_at", "updated_at"}

func TestCatalogRepo_ListPublic_FiltraAprobadosYActivos(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewCatalogRepository(mock)
	now := time.Now()
	minPrice := decimal.NewFromInt(5)

	mock.ExpectQuery(`SELECT (.+) FROM catalog_items ci JOIN supplier_businesses sb ON sb.id = ci.business_id JOIN role_assignments ra ON ra.account_id = sb.account_id WHERE (.*)ci.status = \$1 AND ra.approval_status = \$2(.+)ILIKE(.+)lower\(ci.category\) = lower\(\$6\)(.+)ci.price >= \$7(.+)LIMIT 20 OFFSET 0`).
		WithArgs("active", "approved", "%café%", "%café%", "%café%", "bebidas", pgxmock.AnyArg()).
		WillReturnRows(mock.NewRows(itemCols).
			AddRow("i-1", "b-1", "CAFE-ABC123", "Café", "", "Bebidas", "12.50", 10, 2, "active", now, now))

	items, err := repo.ListPublic(context.Background(), repository.CatalogFilter{
		Search: "café", Category: "bebidas", MinPrice: &minPrice, Limit: 20,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, decimal.RequireFromString("12.50").Equal(items[0].Price))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_ListPublic_EscapaComodines(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewCatalogRepository(mock)
	pattern := `%50\%\_off\\%`
	mock.ExpectQuery("SELECT (.+) FROM catalog_items ci").
		WithArgs("active", "approved", pattern, pattern, pattern).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	items, err := repo.ListPublic(context.Background(), repository.CatalogFilter{Search: `50%_off\`, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCatalogRepo_DeleteConPedidos_EsConflicto(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewCatalogRepository(mock)
	mock.ExpectExec("DELETE FROM catalog_items").
		WithArgs("i-1").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "orders_catalog_item_id_fkey"})

	err := repo.Delete(context.Background(), "i-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCatalogRepo_CreateNegocioInexistente_EsValidacion(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewCatalogRepository(mock)
	mock.ExpectExec("INSERT INTO catalog_items").
		WithArgs(anyArgs(12)...).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "catalog_items_business_id_fkey"})

	err := repo.Create(context.Background(), &entity.CatalogItem{ID: "i-1", BusinessID: "b-x", SKU: "X", Price: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "catalog_items_business_id_fkey")
}

func TestRepos_IdentificadorMalFormado_EsInexistente(t *testing.T) {
	badUUID := &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}

	t.Run("order", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("SELECT (.+) FROM orders WHERE id = \\$1").
			WithArgs("abc").
			WillReturnError(badUUID)
		got, err := postgres.NewOrderRepository(mock).GetByID(context.Background(), "abc")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("role assignment", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("SELECT (.+) FROM role_assignments WHERE account_id = \\$1").
			WithArgs("abc").
			WillReturnError(badUUID)
		got, err := postgres.NewRoleAssignmentRepository(mock).GetByAccount(context.Background(), "abc")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("audit trail", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("SELECT (.+) FROM approval_audit_log").
			WithArgs("abc").
			WillReturnError(badUUID)
		got, err := postgres.NewApprovalAuditRepository(mock).ListByAccount(context.Background(), "abc")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("otros errores se propagan", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("SELECT (.+) FROM orders").
			WithArgs("o-1").
			WillReturnError(errors.New("conexión cerrada"))
		_, err := postgres.NewOrderRepository(mock).GetByID(context.Background(), "o-1")
		assert.Error(t, err)
	})
}

func TestOrderRepo_TransitionStatus(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewOrderRepository(mock)
	mock.ExpectExec("UPDATE orders SET status = \\$3").
		WithArgs("o-1", "pending", "confirmed").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.TransitionStatus(context.Background(), "o-1", entity.OrderPending, entity.OrderConfirmed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrderRepo_ListByPurchaser(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewOrderRepository(mock)
	now := time.Now()
	cols := []string{"id", "purchaser_id", "catalog_item_id", "business_id", "quantity", "unit_price", "total_amount", "status", "notes", "created_at", "updated_at"}
	mock.ExpectQuery("SELECT (.+) FROM orders WHERE purchaser_id = \\$1").
		WithArgs("v-1", 20, 0).
		WillReturnRows(mock.NewRows(cols).AddRow("o-1", "v-1", "i-1", "b-1", 3, "10.00", "30.00", "shipped", "", now, now))

	orders, err := repo.ListByPurchaser(context.Background(), "v-1", 20, 0)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, entity.OrderShipped, orders[0].Status)
	assert.True(t, decimal.NewFromInt(30).Equal(orders[0].TotalAmount))
}

func TestAnalyticsRepo_CountOrdersByStatus(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewAnalyticsRepository(mock)
	mock.ExpectQuery("SELECT status, COUNT\\(\\*\\)").
		WithArgs("b-1").
		WillReturnRows(mock.NewRows([]string{"status", "count"}).AddRow("pending", 2).AddRow("delivered", 1))

	got, err := repo.CountOrdersByStatus(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, map[entity.OrderStatus]int{entity.OrderPending: 2, entity.OrderDelivered: 1}, got)
}

func TestTxRunner_RunApproval(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		mock := newMock(t)
		runner := postgres.NewTxRunner(mock)
		at := time.Now()
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE role_assignments").
			WithArgs("a-1", "pending", "rejected", "admin-1", at).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec("INSERT INTO approval_audit_log").
			WithArgs(anyArgs(8)...).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		err := runner.RunApproval(context.Background(), func(roles repository.RoleAssignmentRepository, audit repository.ApprovalAuditRepository) error {
			if _, err := roles.TransitionStatus(context.Background(), "a-1", entity.ApprovalPending, entity.ApprovalRejected, "admin-1", at); err != nil {
				return err
			}
			return audit.Append(context.Background(), &entity.ApprovalAuditEntry{
				ID: "e-1", AccountID: "a-1", Action: entity.AuditActionRejected, PerformedBy: "admin-1",
				StatusBefore: entity.ApprovalPending, StatusAfter: entity.ApprovalRejected, PerformedAt: at,
			})
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error hace rollback", func(t *testing.T) {
		mock := newMock(t)
		runner := postgres.NewTxRunner(mock)
		boom := errors.New("boom")
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := runner.RunApproval(context.Background(), func(repository.RoleAssignmentRepository, repository.ApprovalAuditRepository) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// anyArgs acepta n argumentos cualesquiera.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}
