package order

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// ReceiptData datos del comprobante de un pedido.
type ReceiptData struct {
	Order    *entity.Order
	Item     *entity.CatalogItem // nil si el ítem fue eliminado
	Business *entity.SupplierBusiness
	Buyer    *entity.Account
}

// ReceiptGenerator genera el PDF del comprobante. Lo implementa infrastructure/pdf.
type ReceiptGenerator interface {
	Generate(ctx context.Context, data ReceiptData) ([]byte, error)
}
