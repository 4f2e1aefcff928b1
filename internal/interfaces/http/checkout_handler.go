package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cafeto/storefront-api/internal/application/checkout"
	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain/entity"
)

// CheckoutHandler maneja el resumen y el envío del checkout, y el comprobante PDF.
type CheckoutHandler struct {
	uc      *checkout.CheckoutUseCase
	receipt *checkout.ReceiptUseCase
}

// NewCheckoutHandler construye el handler.
func NewCheckoutHandler(uc *checkout.CheckoutUseCase, receipt *checkout.ReceiptUseCase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc, receipt: receipt}
}

// Summary godoc
// @Summary      Resumen del checkout (totales de las líneas seleccionadas)
// @Tags         checkout
// @Security     Bearer
// @Produce      json
// @Param        address_id  query  string  false  "Dirección elegida"
// @Success      200  {object}  dto.Envelope
// @Router       /api/checkout/summary [get]
func (h *CheckoutHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(GetUserID(c), c.Query("address_id"))
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Submit godoc
// @Summary      Confirmar el checkout
// @Tags         checkout
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitCheckoutRequest  true  "Dirección y método de pago"
// @Success      200   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Router       /api/checkout [post]
func (h *CheckoutHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitCheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Submit(GetUserID(c), in)
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Receipt godoc
// @Summary      Comprobante PDF de un pedido
// @Tags         checkout
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/orders/{id}/receipt [get]
func (h *CheckoutHandler) Receipt(c *fiber.Ctx) error {
	allowAny := entity.IsStaffRole(GetRole(c))
	pdfBytes, err := h.receipt.Generate(c.Params("id"), GetUserID(c), allowAny)
	if err != nil {
		return failWith(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="pedido-`+c.Params("id")+`.pdf"`)
	return c.Send(pdfBytes)
}
