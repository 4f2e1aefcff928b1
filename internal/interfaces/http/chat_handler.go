package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cafeto/storefront-api/internal/application/chat"
	"github.com/cafeto/storefront-api/internal/application/dto"
)

// ChatHandler maneja la superficie REST del chat: listado de conversaciones,
// envío de mensajes y marcado de leídos. El flujo en vivo va por el canal websocket.
type ChatHandler struct {
	uc *chat.ChatUseCase
}

// NewChatHandler construye el handler.
func NewChatHandler(uc *chat.ChatUseCase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

// List godoc
// @Summary      Listar conversaciones visibles para el usuario
// @Tags         chat
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Envelope
// @Router       /api/chat/conversations [get]
func (h *ChatHandler) List(c *fiber.Ctx) error {
	out := h.uc.ListConversations(GetUserID(c), GetRole(c))
	return c.JSON(dto.OK(out))
}

// Send godoc
// @Summary      Enviar un mensaje a una conversación
// @Tags         chat
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la conversación"
// @Param        body  body  dto.SendMessageRequest  true  "Contenido"
// @Success      200   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Failure      403   {object}  dto.Envelope
// @Router       /api/chat/conversations/{id}/messages [post]
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var in dto.SendMessageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.SendMessage(GetUserID(c), GetRole(c), c.Params("id"), in.Content); err != nil {
		return failWith(c, err)
	}
	return c.JSON(dto.OK(nil))
}

// MarkRead godoc
// @Summary      Marcar como leídos los mensajes de una conversación
// @Tags         chat
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la conversación"
// @Success      200  {object}  dto.Envelope
// @Failure      403  {object}  dto.Envelope
// @Router       /api/chat/conversations/{id}/read [put]
func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(GetUserID(c), GetRole(c), c.Params("id")); err != nil {
		return failWith(c, err)
	}
	return c.JSON(dto.OK(nil))
}
