package repository

import "github.com/cafeto/storefront-api/internal/domain/entity"

// ConversationRepository puerto de persistencia para conversaciones de chat.
type ConversationRepository interface {
	// ListAll devuelve todas las conversaciones con sus mensajes en orden de inserción
	// (carga masiva del panel de staff/admin).
	ListAll() ([]*entity.Conversation, error)
	// GetByCustomer devuelve la conversación del cliente, o nil si aún no existe.
	GetByCustomer(customerID string) (*entity.Conversation, error)
	GetByID(id string) (*entity.Conversation, error)
	Create(c *entity.Conversation) error
	// AppendMessage persiste un mensaje al final de la conversación.
	AppendMessage(m *entity.Message) error
	// MarkRead marca como leídos los mensajes de la conversación no escritos por viewerID.
	MarkRead(conversationID, viewerID string) error
}
