// Package memory implementa los puertos de repository en memoria de proceso.
//
// Reproduce las garantías que el esquema PostgreSQL da a los casos de uso: unicidad
// (email, account_id, sku), claves foráneas, compare-and-swap de estados y transacciones
// todo-o-nada. Se usa con STORAGE_DRIVER=memory y en tests de casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

type state struct {
	accounts   map[string]entity.Account          // por id
	roles      map[string]entity.RoleAssignment   // por account_id
	suppliers  map[string]entity.SupplierProfile  // por account_id
	vendors    map[string]entity.VendorProfile    // por account_id
	businesses map[string]entity.SupplierBusiness // por id
	items      map[string]entity.CatalogItem      // por id
	orders     map[string]entity.Order            // por id
	audit      []entity.ApprovalAuditEntry
}

func newState() *state {
	return &state{
		accounts:   map[string]entity.Account{},
		roles:      map[string]entity.RoleAssignment{},
		suppliers:  map[string]entity.SupplierProfile{},
		vendors:    map[string]entity.VendorProfile{},
		businesses: map[string]entity.SupplierBusiness{},
		items:      map[string]entity.CatalogItem{},
		orders:     map[string]entity.Order{},
	}
}

// clone copia el estado; las entidades se guardan por valor, así que basta copiar los mapas.
// Los punteros de RoleAssignment (ReviewedBy/ReviewedAt) nunca se mutan in situ.
func (st *state) clone() *state {
	c := newState()
	for k, v := range st.accounts {
		c.accounts[k] = v
	}
	for k, v := range st.roles {
		c.roles[k] = v
	}
	for k, v := range st.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range st.vendors {
		c.vendors[k] = v
	}
	for k, v := range st.businesses {
		c.businesses[k] = v
	}
	for k, v := range st.items {
		c.items[k] = v
	}
	for k, v := range st.orders {
		c.orders[k] = v
	}
	c.audit = append([]entity.ApprovalAuditEntry(nil), st.audit...)
	return c
}

// Store almacenamiento en memoria seguro para uso concurrente.
// Todas las operaciones se serializan con un único mutex; una transacción lo retiene
// durante toda su ejecución.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// view acceso al estado; locked indica que el llamador ya tiene el mutex (dentro de una transacción).
type view struct {
	s      *Store
	locked bool
}

func (v view) do(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !v.locked {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	return fn(v.s.st)
}

func (s *Store) view() view { return view{s: s} }

// Accounts devuelve el repositorio de cuentas.
func (s *Store) Accounts() repository.AccountRepository { return &AccountRepository{s.view()} }

// Roles devuelve el repositorio de asignaciones de rol.
func (s *Store) Roles() repository.RoleAssignmentRepository { return &RoleAssignmentRepository{s.view()} }

// Profiles devuelve el repositorio de perfiles.
func (s *Store) Profiles() repository.ProfileRepository { return &ProfileRepository{s.view()} }

// Businesses devuelve el repositorio de negocios.
func (s *Store) Businesses() repository.BusinessRepository { return &BusinessRepository{s.view()} }

// Catalog devuelve el repositorio de catálogo.
func (s *Store) Catalog() repository.CatalogRepository { return &CatalogRepository{s.view()} }

// Orders devuelve el repositorio de pedidos.
func (s *Store) Orders() repository.OrderRepository { return &OrderRepository{s.view()} }

// Audit devuelve el log de aprobaciones.
func (s *Store) Audit() repository.ApprovalAuditRepository { return &ApprovalAuditRepository{s.view()} }

// Analytics devuelve el repositorio de consultas del dashboard.
func (s *Store) Analytics() repository.AnalyticsRepository { return &AnalyticsRepository{s.view()} }

// RunSignUp ejecuta fn en una transacción con los repositorios del registro.
func (s *Store) RunSignUp(ctx context.Context, fn func(
	accounts repository.AccountRepository,
	roles repository.RoleAssignmentRepository,
	profiles repository.ProfileRepository,
	businesses repository.BusinessRepository,
) error) error {
	return s.inTx(ctx, func(v view) error {
		return fn(&AccountRepository{v}, &RoleAssignmentRepository{v}, &ProfileRepository{v}, &BusinessRepository{v})
	})
}

// RunApproval ejecuta fn en una transacción con roles y log de aprobaciones.
func (s *Store) RunApproval(ctx context.Context, fn func(
	roles repository.RoleAssignmentRepository,
	audit repository.ApprovalAuditRepository,
) error) error {
	return s.inTx(ctx, func(v view) error {
		return fn(&RoleAssignmentRepository{v}, &ApprovalAuditRepository{v})
	})
}

// inTx serializa la transacción con el mutex del Store, que no es reentrante: fn solo debe usar
// la vista que recibe. Llamar a repositorios obtenidos con Accounts(), Roles(), etc. (o a un
// policy.Engine construido sobre ellos) desde fn bloquea para siempre.
func (s *Store) inTx(ctx context.Context, fn func(v view) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	if err := fn(view{s: s, locked: true}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}
