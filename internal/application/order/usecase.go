// Package order implementa el ciclo de vida de los pedidos:
// pending → confirmed → shipped → delivered, y pending → cancelled por el comprador.
package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/policy"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
	"github.com/jhoicas/marketplace-api/pkg/logger"
)

// ListScope perspectiva del listado de pedidos propios.
type ListScope string

const (
	ScopePurchaser ListScope = "purchaser"
	ScopeSupplier  ListScope = "supplier"
)

// UseCase casos de uso de pedidos.
type UseCase struct {
	orders     repository.OrderRepository
	items      repository.CatalogRepository
	businesses repository.BusinessRepository
	roles      repository.RoleAssignmentRepository
	accounts   repository.AccountRepository
	receipts   ReceiptGenerator
	policy     *policy.Engine
	log        *logger.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso. receipts puede ser nil si no se exponen comprobantes.
func NewUseCase(
	orders repository.OrderRepository,
	items repository.CatalogRepository,
	businesses repository.BusinessRepository,
	roles repository.RoleAssignmentRepository,
	accounts repository.AccountRepository,
	receipts ReceiptGenerator,
	engine *policy.Engine,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		orders:     orders,
		items:      items,
		businesses: businesses,
		roles:      roles,
		accounts:   accounts,
		receipts:   receipts,
		policy:     engine,
		log:        log,
		now:        time.Now,
	}
}

// Place crea un pedido del llamador. El precio unitario queda fijado al del ítem en este momento.
// El stock se valida pero no se descuenta.
func (uc *UseCase) Place(ctx context.Context, caller entity.Identity, in dto.PlaceOrderRequest) (*dto.OrderResponse, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	if in.Quantity <= 0 {
		return nil, domain.Invalid("quantity debe ser mayor que 0 (recibido %d)", in.Quantity)
	}
	item, err := uc.items.GetByID(ctx, in.CatalogItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, in.CatalogItemID)
	}
	if !item.Active() {
		return nil, domain.Invalid("el ítem %s no está activo", item.SKU)
	}
	biz, err := uc.businesses.GetByID(ctx, item.BusinessID)
	if err != nil {
		return nil, err
	}
	if biz == nil {
		return nil, fmt.Errorf("%w: negocio %s", domain.ErrNotFound, item.BusinessID)
	}
	// Solo se compra a proveedores aprobados: el ítem no es visible en otro caso.
	ra, err := uc.roles.GetByAccount(ctx, biz.AccountID)
	if err != nil {
		return nil, err
	}
	if ra == nil || ra.ApprovalStatus != entity.ApprovalApproved {
		return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, in.CatalogItemID)
	}
	if item.StockQuantity < in.Quantity {
		return nil, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, item.StockQuantity, in.Quantity)
	}

	now := uc.now().UTC()
	o := &entity.Order{
		ID:            uuid.New().String(),
		PurchaserID:   caller.AccountID,
		CatalogItemID: item.ID,
		BusinessID:    biz.ID,
		Quantity:      in.Quantity,
		UnitPrice:     item.Price,
		TotalAmount:   entity.OrderTotal(in.Quantity, item.Price),
		Status:        entity.OrderPending,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	res := policy.Resource{Table: policy.TableOrder, OwnerID: o.PurchaserID, SupplierOwnerID: biz.AccountID, OrderStatus: o.Status}
	if err := uc.policy.Authorize(ctx, caller, policy.OpInsert, res); err != nil {
		return nil, err
	}
	if err := uc.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("order_id", o.ID).
		Str("purchaser_id", o.PurchaserID).
		Str("business_id", o.BusinessID).
		Str("total_amount", o.TotalAmount.StringFixed(2)).
		Msg("pedido creado")
	return ToOrderResponse(o), nil
}

// load carga el pedido y arma el Resource de política con el dueño del negocio.
func (uc *UseCase) load(ctx context.Context, id string) (*entity.Order, *entity.SupplierBusiness, policy.Resource, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, nil, policy.Resource{}, err
	}
	if o == nil {
		return nil, nil, policy.Resource{}, domain.ErrNotFound
	}
	biz, err := uc.businesses.GetByID(ctx, o.BusinessID)
	if err != nil {
		return nil, nil, policy.Resource{}, err
	}
	res := policy.Resource{Table: policy.TableOrder, OwnerID: o.PurchaserID, OrderStatus: o.Status}
	if biz != nil {
		res.SupplierOwnerID = biz.AccountID
	}
	return o, biz, res, nil
}

// Get devuelve un pedido al comprador o al proveedor dueño.
func (uc *UseCase) Get(ctx context.Context, caller entity.Identity, id string) (*dto.OrderResponse, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	o, _, res, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.policy.Authorize(ctx, caller, policy.OpRead, res); err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// Advance mueve el pedido un paso en la secuencia feliz. Solo el proveedor dueño.
func (uc *UseCase) Advance(ctx context.Context, caller entity.Identity, id string) (*dto.OrderResponse, error) {
	return uc.transition(ctx, caller, id, entity.ActorSupplier, func(from entity.OrderStatus) (entity.OrderStatus, bool) {
		return from.Next()
	})
}

// Cancel cancela un pedido pendiente. Solo el comprador.
func (uc *UseCase) Cancel(ctx context.Context, caller entity.Identity, id string) (*dto.OrderResponse, error) {
	return uc.transition(ctx, caller, id, entity.ActorPurchaser, func(entity.OrderStatus) (entity.OrderStatus, bool) {
		return entity.OrderCancelled, true
	})
}

func (uc *UseCase) transition(
	ctx context.Context,
	caller entity.Identity,
	id string,
	actor entity.OrderActor,
	target func(from entity.OrderStatus) (entity.OrderStatus, bool),
) (*dto.OrderResponse, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	o, _, res, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.policy.Authorize(ctx, caller, policy.OpUpdate, res); err != nil {
		return nil, err
	}

	// La política deja pasar a ambas partes; la transición pedida exige el rol concreto.
	switch actor {
	case entity.ActorSupplier:
		if caller.AccountID != res.SupplierOwnerID {
			return nil, &domain.PolicyError{Table: string(policy.TableOrder), Operation: string(policy.OpUpdate), Reason: "solo el proveedor avanza el pedido"}
		}
	case entity.ActorPurchaser:
		if caller.AccountID != res.OwnerID {
			return nil, &domain.PolicyError{Table: string(policy.TableOrder), Operation: string(policy.OpUpdate), Reason: "solo el comprador cancela el pedido"}
		}
	}

	from := o.Status
	to, ok := target(from)
	if !ok || !entity.CanTransitionOrder(actor, from, to) {
		return nil, fmt.Errorf("%w: pedido en estado %s", domain.ErrInvalidTransition, from)
	}
	updated, err := uc.orders.TransitionStatus(ctx, o.ID, from, to)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("%w: el pedido ya no está en %s", domain.ErrConflict, from)
	}
	uc.log.Info().
		Str("order_id", o.ID).
		Str("actor", caller.AccountID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("estado de pedido actualizado")

	o.Status = to
	o.UpdatedAt = uc.now().UTC()
	return ToOrderResponse(o), nil
}

// ListMine pedidos del llamador como comprador o como proveedor.
func (uc *UseCase) ListMine(ctx context.Context, caller entity.Identity, scope ListScope, page dto.PageRequest) (*dto.OrderListResponse, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	page.DefaultPage()
	var (
		rows []*entity.Order
		err  error
	)
	switch scope {
	case "", ScopePurchaser:
		rows, err = uc.orders.ListByPurchaser(ctx, caller.AccountID, page.Limit, page.Offset)
	case ScopeSupplier:
		var biz *entity.SupplierBusiness
		biz, err = uc.businesses.GetByAccount(ctx, caller.AccountID)
		if err == nil && biz != nil {
			rows, err = uc.orders.ListByBusiness(ctx, biz.ID, page.Limit, page.Offset)
		}
	default:
		return nil, domain.Invalid("scope debe ser purchaser o supplier")
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(rows))
	for _, o := range rows {
		items = append(items, *ToOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(items)},
	}, nil
}

// Receipt genera el PDF del comprobante para el comprador o el proveedor dueño.
func (uc *UseCase) Receipt(ctx context.Context, caller entity.Identity, id string) ([]byte, error) {
	if caller.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	if uc.receipts == nil {
		return nil, fmt.Errorf("generador de comprobantes no configurado")
	}
	o, biz, res, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.policy.Authorize(ctx, caller, policy.OpRead, res); err != nil {
		return nil, err
	}
	item, err := uc.items.GetByID(ctx, o.CatalogItemID)
	if err != nil {
		return nil, err
	}
	buyer, err := uc.accounts.GetByID(ctx, o.PurchaserID)
	if err != nil {
		return nil, err
	}
	return uc.receipts.Generate(ctx, ReceiptData{Order: o, Item: item, Business: biz, Buyer: buyer})
}

// ToOrderResponse mapea la entidad al DTO.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:            o.ID,
		PurchaserID:   o.PurchaserID,
		CatalogItemID: o.CatalogItemID,
		BusinessID:    o.BusinessID,
		Quantity:      o.Quantity,
		UnitPrice:     o.UnitPrice,
		TotalAmount:   o.TotalAmount,
		Status:        string(o.Status),
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
