package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/marketplace-api/internal/application/analytics"
)

// DashboardHandler panel del proveedor.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSupplierDashboard devuelve conteos de catálogo, pedidos por estado e ingresos entregados.
// GET /api/supplier/dashboard
func (h *DashboardHandler) GetSupplierDashboard(c *fiber.Ctx) error {
	out, err := h.uc.GetSupplierDashboard(c.UserContext(), CurrentIdentity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
