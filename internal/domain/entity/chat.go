package entity

import "time"

// Conversation hilo de mensajes entre un cliente y el personal de la tienda.
// Messages conserva el orden de inserción (= orden cronológico de llegada).
type Conversation struct {
	ID                string
	CustomerID        string
	CounterpartName   string // nombre visible del cliente para el panel
	CounterpartAvatar string
	Messages          []Message
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Message mensaje dentro de una conversación.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Content        string
	Read           bool
	CreatedAt      time.Time
}

// UnreadFor cuenta los mensajes no leídos desde la perspectiva de viewerID:
// mensajes que no escribió el viewer y que aún no están marcados como leídos.
func (c Conversation) UnreadFor(viewerID string) int {
	n := 0
	for _, m := range c.Messages {
		if m.SenderID != viewerID && !m.Read {
			n++
		}
	}
	return n
}
