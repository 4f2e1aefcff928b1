package chat

// Tópicos del broker. El panel de staff/admin escucha un broadcast por rol;
// cada cliente escucha su propio destino; los envíos van al destino de la
// conversación y el dispatcher los reparte.
const (
	TopicStaffUpdates     = "chat.updates.staff"
	topicCustomerPrefix   = "chat.updates.customer."
	topicConversation     = "chat.conversation."
	TopicConversationGlob = "chat.conversation.*"
)

// CustomerTopic destino de actualizaciones de un cliente concreto.
func CustomerTopic(customerID string) string {
	return topicCustomerPrefix + customerID
}

// ConversationTopic destino de publicación de una conversación concreta.
func ConversationTopic(conversationID string) string {
	return topicConversation + conversationID
}

// Broker canal pub/sub que respalda el chat en vivo (Redis en producción).
type Broker interface {
	Publish(topic string, payload []byte) error
	// Subscribe abre una suscripción a un tópico exacto.
	Subscribe(topic string) (Subscription, error)
	// PSubscribe abre una suscripción por patrón (glob).
	PSubscribe(pattern string) (Subscription, error)
}

// Subscription conexión viva a un tópico. Messages se cierra al cerrar la
// suscripción; Close debe poder llamarse una sola vez por ciclo de vida.
type Subscription interface {
	Messages() <-chan []byte
	Close() error
}
