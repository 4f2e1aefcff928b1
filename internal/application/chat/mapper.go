package chat

import (
	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain/entity"
)

// toConversationResponse mapea la entidad con el contador de no leídos
// calculado desde la perspectiva del viewer.
func toConversationResponse(c *entity.Conversation, viewerID string) dto.ConversationResponse {
	out := dto.ConversationResponse{
		ID:                c.ID,
		CustomerID:        c.CustomerID,
		CounterpartName:   c.CounterpartName,
		CounterpartAvatar: c.CounterpartAvatar,
		Messages:          make([]dto.MessageResponse, 0, len(c.Messages)),
		Unread:            c.UnreadFor(viewerID),
	}
	for _, m := range c.Messages {
		out.Messages = append(out.Messages, dto.MessageResponse{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			SenderID:       m.SenderID,
			Content:        m.Content,
			Read:           m.Read,
			CreatedAt:      m.CreatedAt,
		})
	}
	return out
}

// recountUnread recalcula Unread de un registro recibido por el canal para el
// viewer local (el broadcast no puede venir personalizado).
func recountUnread(c *dto.ConversationResponse, viewerID string) {
	n := 0
	for _, m := range c.Messages {
		if m.SenderID != viewerID && !m.Read {
			n++
		}
	}
	c.Unread = n
}
