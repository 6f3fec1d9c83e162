// Package pdf genera el comprobante de pedido en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Proveedor         │  N° Pedido + Fecha + Estado      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROVEEDOR: Contacto / Dirección                             │
//	│  COMPRADOR: Email                                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | SKU | Descripción | P.Unit | Total            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL + QR con el id del pedido                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/marketplace-api/internal/application/order"
)

var _ order.ReceiptGenerator = (*ReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ReceiptGenerator implementa order.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct{}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// Generate arma el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) Generate(ctx context.Context, d order.ReceiptData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.Order == nil {
		return nil, fmt.Errorf("pdf: comprobante sin pedido")
	}
	author := "marketplace"
	if d.Business != nil && d.Business.Name != "" {
		author = d.Business.Name
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de pedido "+shortID(d.Order.ID), true).
		WithAuthor(author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRows(d)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(detailRow(d))

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(d))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(d order.ReceiptData) core.Row {
	supplier := "Proveedor"
	if d.Business != nil {
		supplier = nonEmpty(d.Business.Name, supplier)
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(supplier, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Comprobante de pedido", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("PEDIDO "+shortID(d.Order.ID), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+d.Order.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Estado: "+strings.ToUpper(string(d.Order.Status)), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 13,
			}),
		),
	)
}

func partiesRows(d order.ReceiptData) []core.Row {
	contact, address := "-", "-"
	if d.Business != nil {
		contact = nonEmpty(d.Business.Contact, "-")
		address = nonEmpty(d.Business.Address, "-")
	}
	buyer := d.Order.PurchaserID
	if d.Buyer != nil {
		buyer = d.Buyer.Email
	}
	return []core.Row{
		row.New(12).Add(col.New(12).Add(
			text.New("PROVEEDOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("Contacto: %s   |   Dirección: %s", contact, address), props.Text{Size: 8, Top: 7, Color: colorGray}),
		)),
		row.New(12).Add(col.New(12).Add(
			text.New("COMPRADOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(buyer, props.Text{Size: 9, Top: 7}),
		)),
	}
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("SKU", 3, align.Left),
		h("Descripción", 4, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

func detailRow(d order.ReceiptData) core.Row {
	sku, name := "-", "(ítem eliminado)"
	if d.Item != nil {
		sku, name = d.Item.SKU, d.Item.Name
	}
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	return row.New(7).Add(
		cell(fmt.Sprintf("%d", d.Order.Quantity), 1, align.Center),
		cell(sku, 3, align.Left),
		cell(name, 4, align.Left),
		cell("$"+formatMoney(d.Order.UnitPrice), 2, align.Right),
		cell("$"+formatMoney(d.Order.TotalAmount), 2, align.Right),
	)
}

func footerRow(d order.ReceiptData) core.Row {
	cols := []core.Col{
		col.New(3).Add(code.NewQr(d.Order.ID, props.Rect{Percent: 90, Center: true})),
		col.New(3),
		col.New(6).Add(
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 4, Right: 2}),
			text.New("$"+formatMoney(d.Order.TotalAmount), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Color: colorPrimary, Top: 10, Right: 1}),
			text.New("Precio fijado al momento del pedido.", props.Text{Size: 7, Align: align.Right, Color: colorGray, Top: 18, Right: 1}),
		),
	}
	if d.Order.Notes != "" {
		cols[1] = col.New(3).Add(text.New("Notas: "+d.Order.Notes, props.Text{Size: 7, Color: colorGray, Top: 4}))
	}
	return row.New(30).Add(cols...)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

// formatMoney formatea con puntos de miles y coma decimal: 1234567.5 → "1.234.567,50".
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}
