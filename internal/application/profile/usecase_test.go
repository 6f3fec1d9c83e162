package profile_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/application/profile"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/policy"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/memory"
)

func seed(t *testing.T, store *memory.Store, role entity.Role) entity.Identity {
	t.Helper()
	ctx := context.Background()
	id := uuid.New().String()
	require.NoError(t, store.Accounts().Create(ctx, &entity.Account{ID: id, Email: id + "@market.test"}))
	require.NoError(t, store.Roles().Create(ctx, &entity.RoleAssignment{ID: uuid.New().String(), AccountID: id, Role: role, ApprovalStatus: entity.ApprovalApproved}))
	switch role {
	case entity.RoleSupplier:
		require.NoError(t, store.Profiles().CreateSupplier(ctx, &entity.SupplierProfile{ID: uuid.New().String(), AccountID: id, BusinessName: "Acme", ContactNumber: "555"}))
	case entity.RoleVendor:
		require.NoError(t, store.Profiles().CreateVendor(ctx, &entity.VendorProfile{ID: uuid.New().String(), AccountID: id, StoreName: "Tienda"}))
	}
	return entity.Identity{AccountID: id}
}

func newUseCase(store *memory.Store) *profile.UseCase {
	return profile.NewUseCase(store.Profiles(), store.Roles(), policy.NewEngine(store.Roles()))
}

func TestGet_DuenoYSuperadmin(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store)
	supplier := seed(t, store, entity.RoleSupplier)
	vendor := seed(t, store, entity.RoleVendor)
	admin := seed(t, store, entity.RoleSuperadmin)

	own, err := uc.Get(ctx, supplier, supplier.AccountID)
	require.NoError(t, err)
	require.NotNil(t, own.Supplier)
	assert.Equal(t, "Acme", own.Supplier.BusinessName)
	assert.Nil(t, own.Vendor)

	byAdmin, err := uc.Get(ctx, admin, vendor.AccountID)
	require.NoError(t, err)
	require.NotNil(t, byAdmin.Vendor)
	assert.Equal(t, "Tienda", byAdmin.Vendor.StoreName)

	_, err = uc.Get(ctx, vendor, supplier.AccountID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Get(ctx, admin, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateMine_NoResincronizaNegocio(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store)
	supplier := seed(t, store, entity.RoleSupplier)
	p, err := store.Profiles().GetSupplierByAccount(ctx, supplier.AccountID)
	require.NoError(t, err)
	_, _, err = store.Businesses().InsertIfAbsent(ctx, entity.BusinessFromProfile(uuid.New().String(), p, p.CreatedAt))
	require.NoError(t, err)

	name := "  Acme Global "
	out, err := uc.UpdateMine(ctx, supplier, dto.UpdateProfileRequest{BusinessName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Acme Global", out.Supplier.BusinessName)
	assert.Equal(t, "555", out.Supplier.ContactNumber)

	b, err := store.Businesses().GetByAccount(ctx, supplier.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", b.Name)

	empty := " "
	_, err = uc.UpdateMine(ctx, supplier, dto.UpdateProfileRequest{BusinessName: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateMine_Vendedor(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store)
	vendor := seed(t, store, entity.RoleVendor)

	addr := "Calle 9"
	out, err := uc.UpdateMine(ctx, vendor, dto.UpdateProfileRequest{StoreAddress: &addr})
	require.NoError(t, err)
	assert.Equal(t, "Calle 9", out.Vendor.StoreAddress)
	assert.Equal(t, "Tienda", out.Vendor.StoreName)

	_, err = uc.UpdateMine(ctx, entity.Identity{}, dto.UpdateProfileRequest{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	admin := seed(t, store, entity.RoleSuperadmin)
	_, err = uc.UpdateMine(ctx, admin, dto.UpdateProfileRequest{StoreAddress: &addr})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
