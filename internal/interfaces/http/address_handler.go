package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/application/usecase"
)

// AddressHandler maneja las direcciones de envío del usuario autenticado.
type AddressHandler struct {
	uc *usecase.AddressUseCase
}

// NewAddressHandler construye el handler.
func NewAddressHandler(uc *usecase.AddressUseCase) *AddressHandler {
	return &AddressHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar dirección de envío
// @Tags         addresses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAddressRequest  true  "Datos de la dirección"
// @Success      201   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Router       /api/addresses [post]
func (h *AddressHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAddressRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(GetUserID(c), in)
	if err != nil {
		return failWith(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// List godoc
// @Summary      Listar direcciones del usuario
// @Tags         addresses
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Envelope
// @Router       /api/addresses [get]
func (h *AddressHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListByUser(GetUserID(c))
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Delete godoc
// @Summary      Eliminar una dirección propia
// @Tags         addresses
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la dirección"
// @Success      200  {object}  dto.Envelope
// @Failure      403  {object}  dto.Envelope
// @Router       /api/addresses/{id} [delete]
func (h *AddressHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(GetUserID(c), c.Params("id")); err != nil {
		return failWith(c, err)
	}
	return c.JSON(dto.OK(nil))
}
