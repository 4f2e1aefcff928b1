package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/cafeto/storefront-api/internal/application/chat"
)

var _ chat.Broker = (*Broker)(nil)

// Broker pub/sub del chat sobre canales de Redis. Cada suscripción abre su
// propio PubSub; Publish usa el cliente compartido.
type Broker struct {
	client *redis.Client
}

// NewBroker construye el broker del chat.
func NewBroker(client *redis.Client) *Broker {
	return &Broker{client: client}
}

// Publish envía el payload al tópico.
func (b *Broker) Publish(topic string, payload []byte) error {
	if err := b.client.Publish(context.Background(), topic, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe abre una suscripción a un tópico exacto.
func (b *Broker) Subscribe(topic string) (chat.Subscription, error) {
	ps := b.client.Subscribe(context.Background(), topic)
	// Esperar la confirmación de suscripción antes de entregar el canal.
	if _, err := ps.Receive(context.Background()); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return newSubscription(ps), nil
}

// PSubscribe abre una suscripción por patrón.
func (b *Broker) PSubscribe(pattern string) (chat.Subscription, error) {
	ps := b.client.PSubscribe(context.Background(), pattern)
	if _, err := ps.Receive(context.Background()); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("psubscribe %s: %w", pattern, err)
	}
	return newSubscription(ps), nil
}

type subscription struct {
	ps        *redis.PubSub
	out       chan []byte
	closeOnce sync.Once
	done      chan struct{}
}

func newSubscription(ps *redis.PubSub) *subscription {
	s := &subscription{
		ps:   ps,
		out:  make(chan []byte, 16),
		done: make(chan struct{}),
	}
	go s.pump()
	return s
}

// pump reenvía los mensajes de Redis al canal propio y lo cierra al terminar.
func (s *subscription) pump() {
	defer close(s.out)
	in := s.ps.Channel()
	for {
		select {
		case msg, ok := <-in:
			if !ok {
				return
			}
			select {
			case s.out <- []byte(msg.Payload):
			case <-s.done:
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *subscription) Messages() <-chan []byte {
	return s.out
}

func (s *subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.ps.Close()
	})
	return err
}
