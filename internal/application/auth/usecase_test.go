package auth_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketplace-api/internal/application/auth"
	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/policy"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/marketplace-api/pkg/jwt"
)

const (
	testSecret     = "test-secret"
	bootstrapEmail = "Root@Market.test"
)

func newUseCase(store *memory.Store, tx auth.SignUpTxRunner) *auth.AuthUseCase {
	engine := policy.NewEngine(store.Roles())
	return auth.NewAuthUseCase(store.Accounts(), store.Roles(), tx, engine,
		auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"}, bootstrapEmail, nil)
}

func supplierSignUp(email string) dto.SignUpRequest {
	return dto.SignUpRequest{Email: email, Password: "password123", Role: "supplier", BusinessName: "Acme", ContactNumber: "555-0101", BusinessAddress: "Calle 1"}
}

func TestSignUp_Proveedor_QuedaPendienteConPerfilYNegocio(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store, store)

	out, err := uc.SignUp(ctx, supplierSignUp("acme@market.test"))
	require.NoError(t, err)
	assert.Equal(t, "supplier", out.Role.Role)
	assert.Equal(t, "pending", out.Role.ApprovalStatus)

	accountID, email, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.Identity.AccountID, accountID)
	assert.Equal(t, "acme@market.test", email)

	p, err := store.Profiles().GetSupplierByAccount(ctx, accountID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Acme", p.BusinessName)

	b, err := store.Businesses().GetByAccount(ctx, accountID)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "Acme", b.Name)
	assert.Equal(t, "555-0101", b.Contact)
	assert.Equal(t, "Calle 1", b.Address)
	assert.Equal(t, entity.BusinessStatusActive, b.Status)
}

func TestSignUp_Vendedor_QuedaAprobado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store, store)

	out, err := uc.SignUp(ctx, dto.SignUpRequest{Email: "shop@market.test", Password: "password123", Role: "vendor", StoreName: "Tienda B"})
	require.NoError(t, err)
	assert.Equal(t, "vendor", out.Role.Role)
	assert.Equal(t, "approved", out.Role.ApprovalStatus)

	p, err := store.Profiles().GetVendorByAccount(ctx, out.Identity.AccountID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Tienda B", p.StoreName)

	b, err := store.Businesses().GetByAccount(ctx, out.Identity.AccountID)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestSignUp_EmailBootstrap_SiempreSuperadminAprobado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store, store)

	out, err := uc.SignUp(ctx, supplierSignUp("  root@MARKET.test "))
	require.NoError(t, err)
	assert.Equal(t, "superadmin", out.Role.Role)
	assert.Equal(t, "approved", out.Role.ApprovalStatus)

	isSuper, err := store.Roles().IsSuperadmin(ctx, out.Identity.AccountID)
	require.NoError(t, err)
	assert.True(t, isSuper)

	p, err := store.Profiles().GetSupplierByAccount(ctx, out.Identity.AccountID)
	require.NoError(t, err)
	assert.Nil(t, p, "el superadmin bootstrap no recibe perfil")
}

func TestSignUp_SuperadminSinBootstrap_RetornaValidacion(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, store)

	_, err := uc.SignUp(context.Background(), dto.SignUpRequest{Email: "x@market.test", Password: "password123", Role: "superadmin"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	acc, err := store.Accounts().GetByEmail(context.Background(), "x@market.test")
	require.NoError(t, err)
	assert.Nil(t, acc)
}

func TestSignUp_ValidaCamposDePerfil(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, store)
	ctx := context.Background()

	_, err := uc.SignUp(ctx, dto.SignUpRequest{Email: "s@market.test", Password: "password123", Role: "supplier"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.SignUp(ctx, dto.SignUpRequest{Email: "v@market.test", Password: "password123", Role: "vendor"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.SignUp(ctx, dto.SignUpRequest{Email: "v@market.test", Password: "corta", Role: "vendor", StoreName: "B"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSignUp_EmailDuplicado(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, store)
	ctx := context.Background()

	_, err := uc.SignUp(ctx, supplierSignUp("acme@market.test"))
	require.NoError(t, err)
	_, err = uc.SignUp(ctx, supplierSignUp("ACME@market.test"))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Equal(t, domain.CategoryConstraint, domain.Category(err))
}

func TestSignUp_Concurrente_UnaSolaAsignacion(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, store)
	ctx := context.Background()

	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.SignUp(ctx, supplierSignUp("race@market.test"))
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	pending, err := store.Roles().ListByRoleAndStatus(ctx, entity.RoleSupplier, entity.ApprovalPending, 100, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

// failingTx ejecuta la transacción real pero el alta del perfil falla.
type failingTx struct{ store *memory.Store }

type failingProfiles struct{ repository.ProfileRepository }

func (failingProfiles) CreateSupplier(context.Context, *entity.SupplierProfile) error {
	return errors.New("disco lleno")
}

func (f failingTx) RunSignUp(ctx context.Context, fn func(
	accounts repository.AccountRepository,
	roles repository.RoleAssignmentRepository,
	profiles repository.ProfileRepository,
	businesses repository.BusinessRepository,
) error) error {
	return f.store.RunSignUp(ctx, func(a repository.AccountRepository, r repository.RoleAssignmentRepository, p repository.ProfileRepository, b repository.BusinessRepository) error {
		return fn(a, r, failingProfiles{p}, b)
	})
}

func TestSignUp_FalloDePerfil_NoDejaAsignacionHuerfana(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store, failingTx{store})

	_, err := uc.SignUp(ctx, supplierSignUp("orphan@market.test"))
	require.Error(t, err)

	acc, err := store.Accounts().GetByEmail(ctx, "orphan@market.test")
	require.NoError(t, err)
	assert.Nil(t, acc)
	pending, err := store.Roles().ListByRoleAndStatus(ctx, entity.RoleSupplier, entity.ApprovalPending, 100, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

// trackingTx marca el intervalo en que la transacción de registro está abierta.
type trackingTx struct {
	store *memory.Store
	open  *atomic.Bool
}

func (tt trackingTx) RunSignUp(ctx context.Context, fn func(
	accounts repository.AccountRepository,
	roles repository.RoleAssignmentRepository,
	profiles repository.ProfileRepository,
	businesses repository.BusinessRepository,
) error) error {
	return tt.store.RunSignUp(ctx, func(a repository.AccountRepository, r repository.RoleAssignmentRepository, p repository.ProfileRepository, b repository.BusinessRepository) error {
		tt.open.Store(true)
		defer tt.open.Store(false)
		return fn(a, r, p, b)
	})
}

// txAwareLookup falla si el motor de políticas consulta roles con la transacción abierta.
type txAwareLookup struct {
	roles repository.RoleAssignmentRepository
	open  *atomic.Bool
	calls *atomic.Int32
}

func (l txAwareLookup) IsSuperadmin(ctx context.Context, accountID string) (bool, error) {
	if l.open.Load() {
		return false, errors.New("consulta de superadmin dentro de la transacción de registro")
	}
	l.calls.Add(1)
	return l.roles.IsSuperadmin(ctx, accountID)
}

func TestSignUp_PoliticasFueraDeLaTransaccion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	open, calls := &atomic.Bool{}, &atomic.Int32{}
	engine := policy.NewEngine(txAwareLookup{roles: store.Roles(), open: open, calls: calls})
	uc := auth.NewAuthUseCase(store.Accounts(), store.Roles(), trackingTx{store: store, open: open}, engine,
		auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"}, bootstrapEmail, nil)

	sup, err := uc.SignUp(ctx, supplierSignUp("acme@market.test"))
	require.NoError(t, err)
	_, err = uc.SignUp(ctx, dto.SignUpRequest{Email: "shop@market.test", Password: "password123", Role: "vendor", StoreName: "B"})
	require.NoError(t, err)

	// Una regla con bypass de superadmin sí consulta el almacenamiento, fuera de la transacción.
	err = engine.Authorize(ctx, entity.Identity{AccountID: "otra"}, policy.OpRead,
		policy.Resource{Table: policy.TableRoleAssignment, OwnerID: sup.Identity.AccountID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store, store)
	signed, err := uc.SignUp(ctx, supplierSignUp("acme@market.test"))
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "Acme@Market.test", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, signed.Identity.AccountID, out.Identity.AccountID)
	assert.Equal(t, "pending", out.Role.ApprovalStatus)
	assert.NotEmpty(t, out.Token)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "acme@market.test", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@market.test", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store, store)
	signed, err := uc.SignUp(ctx, dto.SignUpRequest{Email: "shop@market.test", Password: "password123", Role: "vendor", StoreName: "B"})
	require.NoError(t, err)

	me, err := uc.Me(ctx, entity.Identity{AccountID: signed.Identity.AccountID, Email: "shop@market.test"})
	require.NoError(t, err)
	assert.Equal(t, "shop@market.test", me.Identity.Email)
	require.NotNil(t, me.Role)
	assert.Equal(t, "vendor", me.Role.Role)

	_, err = uc.Me(ctx, entity.Identity{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Me(ctx, entity.Identity{AccountID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
