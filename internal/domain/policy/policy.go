// Package policy es la capa de autorización: predicados declarativos por tabla y operación,
// evaluados con la identidad del llamador antes de cada operación de persistencia.
//
// La identidad siempre viene del token verificado, nunca de campos enviados por el cliente.
// El bypass de superadmin es una consulta de existencia sobre role_assignments en cada
// evaluación (sin flag cacheado), de modo que una revocación aplica en la siguiente petición.
package policy

import (
	"context"
	"fmt"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// Operation operación sobre una tabla.
type Operation string

const (
	OpRead   Operation = "read"
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Table tabla lógica protegida.
type Table string

const (
	TableSupplierProfile Table = "supplier_profiles"
	TableVendorProfile   Table = "vendor_profiles"
	TableBusiness        Table = "supplier_businesses"
	TableCatalogItem     Table = "catalog_items"
	TableOrder           Table = "orders"
	TableRoleAssignment  Table = "role_assignments"
)

// Resource fila (existente o propuesta) sobre la que se decide.
type Resource struct {
	Table Table
	// OwnerID cuenta dueña de la fila: account_id en perfiles, negocio y rol;
	// dueño del negocio referenciado en catálogo; comprador en pedidos.
	OwnerID string
	// SupplierOwnerID dueño del negocio proveedor (solo pedidos).
	SupplierOwnerID string
	// OrderStatus estado actual del pedido (solo pedidos).
	OrderStatus entity.OrderStatus
}

// Decision resultado de evaluar un predicado.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allowed: false, Reason: reason} }

type rule struct {
	check func(caller entity.Identity, r Resource) Decision
	// superadmin: si check deniega, un superadmin aprobado obtiene acceso.
	superadmin bool
}

func anyone(entity.Identity, Resource) Decision { return allow("lectura pública") }

func nobody(entity.Identity, Resource) Decision { return deny("operación no permitida") }

func owner(caller entity.Identity, r Resource) Decision {
	if !caller.Anonymous() && caller.AccountID == r.OwnerID {
		return allow("dueño de la fila")
	}
	return deny("solo el dueño de la fila")
}

func selfInsert(caller entity.Identity, r Resource) Decision {
	if !caller.Anonymous() && caller.AccountID == r.OwnerID {
		return allow("la fila pertenece al llamador")
	}
	return deny("la fila debe pertenecer al llamador")
}

func superadminOnly(entity.Identity, Resource) Decision { return deny("solo superadmin") }

func orderParty(caller entity.Identity, r Resource) Decision {
	if caller.Anonymous() {
		return deny("requiere autenticación")
	}
	if caller.AccountID == r.OwnerID {
		return allow("comprador del pedido")
	}
	if caller.AccountID == r.SupplierOwnerID {
		return allow("proveedor del pedido")
	}
	return deny("solo el comprador o el proveedor del pedido")
}

func orderUpdate(caller entity.Identity, r Resource) Decision {
	if caller.Anonymous() {
		return deny("requiere autenticación")
	}
	if caller.AccountID == r.SupplierOwnerID {
		return allow("proveedor del pedido")
	}
	if caller.AccountID == r.OwnerID {
		if r.OrderStatus == entity.OrderPending {
			return allow("comprador con pedido pendiente")
		}
		return deny("el comprador solo modifica pedidos pendientes")
	}
	return deny("solo el comprador o el proveedor del pedido")
}

// rules tabla de políticas por tabla y operación. Lo que no aparece se deniega.
var rules = map[Table]map[Operation]rule{
	TableSupplierProfile: profileRules,
	TableVendorProfile:   profileRules,
	TableBusiness: {
		OpRead:   {check: anyone},
		OpInsert: {check: selfInsert},
		OpUpdate: {check: owner},
		OpDelete: {check: nobody},
	},
	TableCatalogItem: {
		OpRead:   {check: anyone},
		OpInsert: {check: owner},
		OpUpdate: {check: owner},
		OpDelete: {check: owner},
	},
	TableOrder: {
		OpRead:   {check: orderParty},
		OpInsert: {check: selfInsert},
		OpUpdate: {check: orderUpdate},
		OpDelete: {check: nobody},
	},
	TableRoleAssignment: {
		OpRead:   {check: owner, superadmin: true},
		OpInsert: {check: selfInsert},
		OpUpdate: {check: superadminOnly, superadmin: true},
		OpDelete: {check: nobody},
	},
}

var profileRules = map[Operation]rule{
	OpRead:   {check: owner, superadmin: true},
	OpInsert: {check: selfInsert},
	OpUpdate: {check: owner},
	OpDelete: {check: nobody},
}

// Decide evalúa el predicado sin consultar almacenamiento; superadmin indica si el
// llamador ya se sabe superadmin aprobado.
func Decide(caller entity.Identity, op Operation, r Resource, superadmin bool) Decision {
	ru, ok := lookupRule(r.Table, op)
	if !ok {
		return deny("sin política para la operación")
	}
	d := ru.check(caller, r)
	if !d.Allowed && ru.superadmin && superadmin && !caller.Anonymous() {
		return allow("privilegio de superadmin")
	}
	return d
}

func lookupRule(t Table, op Operation) (rule, bool) {
	ops, ok := rules[t]
	if !ok {
		return rule{}, false
	}
	ru, ok := ops[op]
	return ru, ok
}

// SuperadminLookup consulta si una cuenta es superadmin aprobado. Lo implementa el repositorio de roles.
type SuperadminLookup interface {
	IsSuperadmin(ctx context.Context, accountID string) (bool, error)
}

// DenialObserver recibe cada denegación (métricas).
type DenialObserver interface {
	ObserveDenial(table, operation string)
}

// Engine evalúa políticas resolviendo el privilegio de superadmin contra el almacenamiento.
type Engine struct {
	lookup   SuperadminLookup
	observer DenialObserver
}

// Option configura el Engine.
type Option func(*Engine)

// WithDenialObserver registra un observador de denegaciones.
func WithDenialObserver(o DenialObserver) Option {
	return func(e *Engine) { e.observer = o }
}

// NewEngine construye el motor de políticas.
func NewEngine(lookup SuperadminLookup, opts ...Option) *Engine {
	e := &Engine{lookup: lookup}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate decide sobre (caller, op, r). La consulta de superadmin solo se hace si el
// predicado base deniega y la regla admite bypass.
func (e *Engine) Evaluate(ctx context.Context, caller entity.Identity, op Operation, r Resource) (Decision, error) {
	ru, ok := lookupRule(r.Table, op)
	if !ok {
		return deny("sin política para la operación"), nil
	}
	d := ru.check(caller, r)
	if d.Allowed || !ru.superadmin || caller.Anonymous() {
		return d, nil
	}
	isSuper, err := e.IsSuperadmin(ctx, caller)
	if err != nil {
		return Decision{}, err
	}
	return Decide(caller, op, r, isSuper), nil
}

// Authorize devuelve nil si la operación está permitida, *domain.PolicyError si se deniega,
// o un error de infraestructura si no se pudo evaluar.
func (e *Engine) Authorize(ctx context.Context, caller entity.Identity, op Operation, r Resource) error {
	d, err := e.Evaluate(ctx, caller, op, r)
	if err != nil {
		return err
	}
	if d.Allowed {
		return nil
	}
	if e.observer != nil {
		e.observer.ObserveDenial(string(r.Table), string(op))
	}
	return &domain.PolicyError{Table: string(r.Table), Operation: string(op), Reason: d.Reason}
}

// IsSuperadmin consulta el privilegio actual del llamador.
func (e *Engine) IsSuperadmin(ctx context.Context, caller entity.Identity) (bool, error) {
	if caller.Anonymous() {
		return false, nil
	}
	ok, err := e.lookup.IsSuperadmin(ctx, caller.AccountID)
	if err != nil {
		return false, fmt.Errorf("policy: consultar superadmin: %w", err)
	}
	return ok, nil
}
