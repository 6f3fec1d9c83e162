package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado de un pedido.
type OrderStatus string

// Secuencia: pending → confirmed → shipped → delivered; pending → cancelled (solo comprador).
const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderStatuses todos los estados en orden de presentación.
var OrderStatuses = []OrderStatus{OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled}

// Terminal informa si el estado no admite más transiciones.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Next devuelve el siguiente estado del camino feliz, o false si no hay.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case OrderPending:
		return OrderConfirmed, true
	case OrderConfirmed:
		return OrderShipped, true
	case OrderShipped:
		return OrderDelivered, true
	}
	return "", false
}

// OrderActor quién solicita la transición.
type OrderActor int

const (
	ActorPurchaser OrderActor = iota + 1
	ActorSupplier
)

// CanTransitionOrder valida una transición solicitada por actor.
// El proveedor avanza un paso a la vez; el comprador solo cancela desde pending.
func CanTransitionOrder(actor OrderActor, from, to OrderStatus) bool {
	switch actor {
	case ActorSupplier:
		next, ok := from.Next()
		return ok && next == to
	case ActorPurchaser:
		return from == OrderPending && to == OrderCancelled
	}
	return false
}

// Order pedido de un comprador sobre un CatalogItem de un SupplierBusiness.
// TotalAmount = Quantity × UnitPrice, fijado al crear (precio bloqueado al momento del pedido).
type Order struct {
	ID            string
	PurchaserID   string
	CatalogItemID string
	BusinessID    string
	Quantity      int
	UnitPrice     decimal.Decimal
	TotalAmount   decimal.Decimal
	Status        OrderStatus
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderTotal calcula quantity × unitPrice.
func OrderTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
