package dto

import "time"

// SendMessageRequest entrada para enviar un mensaje a una conversación.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// MessageResponse mensaje dentro de una conversación.
type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationResponse conversación con mensajes en orden de inserción y
// contador de no leídos desde la perspectiva del viewer.
type ConversationResponse struct {
	ID                string            `json:"id"`
	CustomerID        string            `json:"customer_id"`
	CounterpartName   string            `json:"counterpart_name"`
	CounterpartAvatar string            `json:"counterpart_avatar"`
	Messages          []MessageResponse `json:"messages"`
	Unread            int               `json:"unread"`
}

// ConversationListResponse página del listado de conversaciones (orden por
// id de contraparte ascendente; la paginación es puramente de presentación).
type ConversationListResponse struct {
	Items    []ConversationResponse `json:"items"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
	Total    int                    `json:"total"`
}

// ChatUpdate registro de conversación embebido en el envelope del canal en vivo.
type ChatUpdate struct {
	Conversation ConversationResponse `json:"conversation"`
}

// OutboundMessage frame que publica el cliente del canal: remitente, contenido
// y conversación destino.
type OutboundMessage struct {
	SenderID       string `json:"sender_id"`
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}
