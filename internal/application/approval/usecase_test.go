package approval_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketplace-api/internal/application/approval"
	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/policy"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/memory"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, store *memory.Store, role entity.Role, status entity.ApprovalStatus, createdAt time.Time) entity.Identity {
	t.Helper()
	ctx := context.Background()
	id := uuid.New().String()
	email := id[:8] + "@market.test"
	require.NoError(t, store.Accounts().Create(ctx, &entity.Account{ID: id, Email: email, CreatedAt: createdAt, UpdatedAt: createdAt}))
	require.NoError(t, store.Roles().Create(ctx, &entity.RoleAssignment{
		ID: uuid.New().String(), AccountID: id, Role: role, ApprovalStatus: status, CreatedAt: createdAt, UpdatedAt: createdAt,
	}))
	if role == entity.RoleSupplier {
		require.NoError(t, store.Profiles().CreateSupplier(ctx, &entity.SupplierProfile{
			ID: uuid.New().String(), AccountID: id, BusinessName: "Negocio " + id[:4], ContactNumber: "555", CreatedAt: createdAt, UpdatedAt: createdAt,
		}))
	}
	return entity.Identity{AccountID: id, Email: email}
}

type countingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *countingObserver) ObserveDenial(table, operation string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, table+":"+operation)
}

func newUseCase(store *memory.Store, opts ...policy.Option) *approval.UseCase {
	engine := policy.NewEngine(store.Roles(), opts...)
	return approval.NewUseCase(store.Roles(), store.Profiles(), store.Audit(), store, engine, nil)
}

func TestApprove_SuperadminApruebaProveedorPendiente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store)
	admin := seed(t, store, entity.RoleSuperadmin, entity.ApprovalApproved, t0)
	supplier := seed(t, store, entity.RoleSupplier, entity.ApprovalPending, t0)

	out, err := uc.Approve(ctx, admin, supplier.AccountID, "documentos verificados")
	require.NoError(t, err)
	assert.Equal(t, "approved", out.ApprovalStatus)
	require.NotNil(t, out.ReviewedBy)
	assert.Equal(t, admin.AccountID, *out.ReviewedBy)

	trail, err := uc.AuditTrail(ctx, supplier, supplier.AccountID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, entity.AuditActionApproved, trail[0].Action)
	assert.Equal(t, "pending", trail[0].StatusBefore)
	assert.Equal(t, "approved", trail[0].StatusAfter)
	assert.Equal(t, "documentos verificados", trail[0].Reason)
}

func TestApprove_NoSuperadmin_PolicyErrorYFilaIntacta(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	obs := &countingObserver{}
	uc := newUseCase(store, policy.WithDenialObserver(obs))
	vendor := seed(t, store, entity.RoleVendor, entity.ApprovalApproved, t0)
	supplier := seed(t, store, entity.RoleSupplier, entity.ApprovalPending, t0)

	for _, caller := range []entity.Identity{vendor, supplier} {
		_, err := uc.Approve(ctx, caller, supplier.AccountID, "")
		require.Error(t, err)
		var pe *domain.PolicyError
		assert.ErrorAs(t, err, &pe)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	}

	ra, err := store.Roles().GetByAccount(ctx, supplier.AccountID)
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalPending, ra.ApprovalStatus)
	assert.Nil(t, ra.ReviewedBy)
	assert.Equal(t, []string{"role_assignments:update", "role_assignments:update"}, obs.calls)

	trail, err := store.Audit().ListByAccount(ctx, supplier.AccountID)
	require.NoError(t, err)
	assert.Empty(t, trail)
}

func TestApprove_SuperadminRechazadoPierdePrivilegio(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store)
	// Superadmin cuya asignación no está aprobada: el bypass no aplica.
	fake := seed(t, store, entity.RoleSuperadmin, entity.ApprovalRejected, t0)
	supplier := seed(t, store, entity.RoleSupplier, entity.ApprovalPending, t0)

	_, err := uc.Approve(ctx, fake, supplier.AccountID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTransition_EstadosFinales(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store)
	admin := seed(t, store, entity.RoleSuperadmin, entity.ApprovalApproved, t0)
	supplier := seed(t, store, entity.RoleSupplier, entity.ApprovalPending, t0)

	_, err := uc.Reject(ctx, admin, supplier.AccountID, "datos incompletos")
	require.NoError(t, err)

	_, err = uc.Approve(ctx, admin, supplier.AccountID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = uc.Reject(ctx, admin, supplier.AccountID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	ra, err := store.Roles().GetByAccount(ctx, supplier.AccountID)
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalRejected, ra.ApprovalStatus)
}

func TestTransition_CuentaNoProveedor(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store)
	admin := seed(t, store, entity.RoleSuperadmin, entity.ApprovalApproved, t0)
	vendor := seed(t, store, entity.RoleVendor, entity.ApprovalApproved, t0)

	_, err := uc.Approve(ctx, admin, vendor.AccountID, "")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Approve(ctx, admin, uuid.New().String(), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApprove_Concurrente_UnaSolaTransicion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store)
	admin := seed(t, store, entity.RoleSuperadmin, entity.ApprovalApproved, t0)
	supplier := seed(t, store, entity.RoleSupplier, entity.ApprovalPending, t0)

	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, errs[i] = uc.Approve(ctx, admin, supplier.AccountID, "")
			} else {
				_, errs[i] = uc.Reject(ctx, admin, supplier.AccountID, "")
			}
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, domain.Category(err) == domain.CategoryConstraint || domain.Category(err) == domain.CategoryValidation, "err=%v", err)
	}
	assert.Equal(t, 1, ok)

	trail, err := store.Audit().ListByAccount(ctx, supplier.AccountID)
	require.NoError(t, err)
	assert.Len(t, trail, 1)
}

func TestListPending(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store)
	admin := seed(t, store, entity.RoleSuperadmin, entity.ApprovalApproved, t0)
	first := seed(t, store, entity.RoleSupplier, entity.ApprovalPending, t0.Add(time.Minute))
	second := seed(t, store, entity.RoleSupplier, entity.ApprovalPending, t0.Add(2*time.Minute))
	seed(t, store, entity.RoleSupplier, entity.ApprovalApproved, t0)

	out, err := uc.ListPending(ctx, admin, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, first.AccountID, out.Items[0].AccountID)
	assert.Equal(t, second.AccountID, out.Items[1].AccountID)
	assert.NotEmpty(t, out.Items[0].BusinessName)
	assert.Equal(t, 20, out.Page.Limit)

	_, err = uc.ListPending(ctx, first, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAuditTrail_SoloPropiaCuentaOSuperadmin(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store)
	admin := seed(t, store, entity.RoleSuperadmin, entity.ApprovalApproved, t0)
	supplier := seed(t, store, entity.RoleSupplier, entity.ApprovalPending, t0)
	other := seed(t, store, entity.RoleVendor, entity.ApprovalApproved, t0)

	_, err := uc.AuditTrail(ctx, admin, supplier.AccountID)
	assert.NoError(t, err)
	_, err = uc.AuditTrail(ctx, other, supplier.AccountID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.AuditTrail(ctx, entity.Identity{}, supplier.AccountID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
