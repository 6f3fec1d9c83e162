package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/application/profile"
	"github.com/jhoicas/marketplace-api/pkg/validation"
)

// ProfileHandler lectura y edición de perfiles.
type ProfileHandler struct {
	uc *profile.UseCase
	v  *validation.Validator
}

// NewProfileHandler construye el handler.
func NewProfileHandler(uc *profile.UseCase, v *validation.Validator) *ProfileHandler {
	return &ProfileHandler{uc: uc, v: v}
}

// Get godoc
// @Summary      Perfil de una cuenta (dueño o superadmin)
// @Tags         profiles
// @Security     Bearer
// @Produce      json
// @Param        accountId  path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.ProfileResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/profiles/{accountId} [get]
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), CurrentIdentity(c), c.Params("accountId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateMine godoc
// @Summary      Actualizar el perfil propio
// @Tags         profiles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProfileRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/profiles/me [put]
func (h *ProfileHandler) UpdateMine(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.v.Struct(in); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.uc.UpdateMine(c.UserContext(), CurrentIdentity(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
