package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/marketplace-api/internal/application/approval"
	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/pkg/validation"
)

// ApprovalHandler endpoints de superadmin sobre proveedores.
type ApprovalHandler struct {
	uc *approval.UseCase
	v  *validation.Validator
}

// NewApprovalHandler construye el handler.
func NewApprovalHandler(uc *approval.UseCase, v *validation.Validator) *ApprovalHandler {
	return &ApprovalHandler{uc: uc, v: v}
}

// reviewBody el cuerpo es opcional.
func (h *ApprovalHandler) reviewBody(c *fiber.Ctx) (dto.ReviewSupplierRequest, error) {
	var in dto.ReviewSupplierRequest
	if len(c.Body()) == 0 {
		return in, nil
	}
	if err := c.BodyParser(&in); err != nil {
		return in, invalidBody(c)
	}
	if err := h.v.Struct(in); err != nil {
		return in, validationFailed(c, err)
	}
	return in, nil
}

// Approve godoc
// @Summary      Aprobar proveedor
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        accountId  path  string                     true   "Cuenta del proveedor"
// @Param        body       body  dto.ReviewSupplierRequest  false  "Motivo opcional"
// @Success      200  {object}  dto.RoleAssignmentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/suppliers/{accountId}/approve [post]
func (h *ApprovalHandler) Approve(c *fiber.Ctx) error {
	in, err := h.reviewBody(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Approve(c.UserContext(), CurrentIdentity(c), c.Params("accountId"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar proveedor
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        accountId  path  string                     true   "Cuenta del proveedor"
// @Param        body       body  dto.ReviewSupplierRequest  false  "Motivo opcional"
// @Success      200  {object}  dto.RoleAssignmentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/suppliers/{accountId}/reject [post]
func (h *ApprovalHandler) Reject(c *fiber.Ctx) error {
	in, err := h.reviewBody(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Reject(c.UserContext(), CurrentIdentity(c), c.Params("accountId"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListPending godoc
// @Summary      Cola de proveedores pendientes (FIFO)
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.PendingSupplierListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/suppliers/pending [get]
func (h *ApprovalHandler) ListPending(c *fiber.Ctx) error {
	out, err := h.uc.ListPending(c.UserContext(), CurrentIdentity(c), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AuditTrail godoc
// @Summary      Historial de aprobación de una cuenta
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        accountId  path  string  true  "Cuenta"
// @Success      200  {array}   dto.AuditEntryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/suppliers/{accountId}/audit [get]
func (h *ApprovalHandler) AuditTrail(c *fiber.Ctx) error {
	out, err := h.uc.AuditTrail(c.UserContext(), CurrentIdentity(c), c.Params("accountId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// pageFromQuery lee limit/offset con los valores por defecto de PageRequest.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	page.DefaultPage()
	return page
}
