package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/marketplace-api/internal/application/catalog"
)

// BusinessHandler registro de negocio del proveedor.
type BusinessHandler struct {
	uc *catalog.BusinessUseCase
}

// NewBusinessHandler construye el handler.
func NewBusinessHandler(uc *catalog.BusinessUseCase) *BusinessHandler {
	return &BusinessHandler{uc: uc}
}

// Ensure godoc
// @Summary      Asegurar el registro de negocio propio
// @Description  Lo crea a partir del perfil de proveedor si no existe. Idempotente.
// @Tags         business
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BusinessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/business-records/ensure [post]
func (h *BusinessHandler) Ensure(c *fiber.Ctx) error {
	caller := CurrentIdentity(c)
	out, err := h.uc.Ensure(c.UserContext(), caller, caller.AccountID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByAccount godoc
// @Summary      Registro de negocio de una cuenta
// @Tags         business
// @Produce      json
// @Param        accountId  path  string  true  "Cuenta del proveedor"
// @Success      200  {object}  dto.BusinessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/business-records/{accountId} [get]
func (h *BusinessHandler) GetByAccount(c *fiber.Ctx) error {
	out, err := h.uc.GetByAccount(c.UserContext(), CurrentIdentity(c), c.Params("accountId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
