package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cafeto/storefront-api/internal/application/cart"
	"github.com/cafeto/storefront-api/internal/application/dto"
)

// CartHandler maneja las peticiones HTTP del carrito del usuario autenticado.
// Toda operación devuelve el carrito completo ya reconciliado: el cliente
// pinta lo que el servidor responde, nunca un estado optimista.
type CartHandler struct {
	uc *cart.CartUseCase
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *cart.CartUseCase) *CartHandler {
	return &CartHandler{uc: uc}
}

// Get godoc
// @Summary      Obtener el carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Envelope
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetCart(GetUserID(c))
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(dto.OK(out))
}

// AddItem godoc
// @Summary      Añadir una variante al carrito
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddCartItemRequest  true  "Variante y cantidad"
// @Success      200   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddItem(GetUserID(c), in)
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(dto.OK(out))
}

// UpdateQuantity godoc
// @Summary      Cambiar la cantidad de una línea
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la línea"
// @Param        body  body  dto.UpdateQuantityRequest  true  "Cantidad solicitada"
// @Success      200   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Router       /api/cart/items/{id}/quantity [put]
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	var in dto.UpdateQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateQuantity(GetUserID(c), c.Params("id"), in.Quantity)
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(dto.OK(out))
}

// UpdateSelected godoc
// @Summary      Cambiar la selección de una línea
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la línea"
// @Param        body  body  dto.UpdateSelectedRequest  true  "Selección"
// @Success      200   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Router       /api/cart/items/{id}/selected [put]
func (h *CartHandler) UpdateSelected(c *fiber.Ctx) error {
	var in dto.UpdateSelectedRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateSelected(GetUserID(c), c.Params("id"), in.Selected)
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(dto.OK(out))
}

// SelectAll godoc
// @Summary      Seleccionar o deseleccionar todas las líneas
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SelectAllRequest  true  "Selección masiva"
// @Success      200   {object}  dto.Envelope
// @Router       /api/cart/select-all [put]
func (h *CartHandler) SelectAll(c *fiber.Ctx) error {
	var in dto.SelectAllRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SelectAll(GetUserID(c), in.Selected)
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(dto.OK(out))
}

// DeleteLine godoc
// @Summary      Eliminar una línea del carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la línea"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/cart/items/{id} [delete]
func (h *CartHandler) DeleteLine(c *fiber.Ctx) error {
	out, err := h.uc.DeleteLine(GetUserID(c), c.Params("id"))
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(dto.OK(out))
}
