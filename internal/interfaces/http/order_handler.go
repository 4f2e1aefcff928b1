package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/application/usecase"
	"github.com/cafeto/storefront-api/internal/domain/entity"
)

// OrderHandler maneja la consulta de pedidos del usuario y del panel admin.
// La creación de pedidos vive en el checkout.
type OrderHandler struct {
	uc *usecase.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// ListMine godoc
// @Summary      Listar los pedidos del usuario autenticado
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.Envelope
// @Router       /api/orders [get]
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.ListByUser(GetUserID(c), limit, offset)
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(dto.OK(out))
}

// GetByID godoc
// @Summary      Obtener un pedido (dueño o panel admin)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.Envelope
// @Failure      403  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	allowAny := entity.IsStaffRole(GetRole(c))
	out, err := h.uc.GetByID(c.Params("id"), GetUserID(c), allowAny)
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(dto.OK(out))
}

// ListAll godoc
// @Summary      Listar todos los pedidos (panel admin)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.Envelope
// @Router       /api/admin/orders [get]
func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(limit, offset)
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(dto.OK(out))
}

// UpdateStatus godoc
// @Summary      Cambiar el estado de un pedido (panel admin)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest true  "Nuevo estado"
// @Success      200   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Router       /api/admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateStatus(c.Params("id"), in.Status)
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(dto.OK(out))
}
