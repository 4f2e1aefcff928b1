package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cafeto/storefront-api/internal/domain"
	"github.com/cafeto/storefront-api/internal/domain/entity"
	"github.com/cafeto/storefront-api/internal/domain/repository"
)

var _ repository.ConversationRepository = (*ConversationRepo)(nil)

// ConversationRepo implementación del puerto ConversationRepository sobre PostgreSQL.
// Los mensajes se devuelven siempre en orden de creación: es el orden que
// conservan los sincronizadores de chat al volcar la conversación.
type ConversationRepo struct {
	q Querier
}

// NewConversationRepository construye el adaptador de persistencia para el chat.
func NewConversationRepository(q Querier) *ConversationRepo {
	return &ConversationRepo{q: q}
}

// ListAll devuelve todas las conversaciones con sus mensajes (panel de staff).
func (r *ConversationRepo) ListAll() ([]*entity.Conversation, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, customer_id, counterpart_name, counterpart_avatar, created_at, updated_at
		 FROM conversations ORDER BY customer_id`)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var list []*entity.Conversation
	byID := make(map[string]*entity.Conversation)
	for rows.Next() {
		var c entity.Conversation
		if err := rows.Scan(&c.ID, &c.CustomerID, &c.CounterpartName, &c.CounterpartAvatar, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		list = append(list, &c)
		byID[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	mrows, err := r.q.Query(context.Background(),
		`SELECT id, conversation_id, sender_id, content, read, created_at
		 FROM messages ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer mrows.Close()
	for mrows.Next() {
		var m entity.Message
		if err := mrows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.Read, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if c, ok := byID[m.ConversationID]; ok {
			c.Messages = append(c.Messages, m)
		}
	}
	return list, mrows.Err()
}

// GetByCustomer devuelve la conversación del cliente con sus mensajes, o nil.
func (r *ConversationRepo) GetByCustomer(customerID string) (*entity.Conversation, error) {
	return r.getOne(`WHERE customer_id = $1`, customerID)
}

// GetByID devuelve una conversación con sus mensajes, o nil.
func (r *ConversationRepo) GetByID(id string) (*entity.Conversation, error) {
	return r.getOne(`WHERE id = $1`, id)
}

// Create persiste una conversación nueva (sin mensajes).
func (r *ConversationRepo) Create(c *entity.Conversation) error {
	query := `INSERT INTO conversations (id, customer_id, counterpart_name, counterpart_avatar, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.CustomerID, c.CounterpartName, c.CounterpartAvatar, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

// AppendMessage persiste un mensaje y toca updated_at de la conversación.
func (r *ConversationRepo) AppendMessage(m *entity.Message) error {
	query := `INSERT INTO messages (id, conversation_id, sender_id, content, read, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ConversationID, m.SenderID, m.Content, m.Read, m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert message: %w", err)
	}
	_, err = r.q.Exec(context.Background(),
		`UPDATE conversations SET updated_at = $2 WHERE id = $1`, m.ConversationID, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	return nil
}

// MarkRead marca como leídos los mensajes no escritos por viewerID.
func (r *ConversationRepo) MarkRead(conversationID, viewerID string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE messages SET read = true WHERE conversation_id = $1 AND sender_id <> $2 AND read = false`,
		conversationID, viewerID)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func (r *ConversationRepo) getOne(clause string, arg any) (*entity.Conversation, error) {
	var c entity.Conversation
	err := r.q.QueryRow(context.Background(),
		`SELECT id, customer_id, counterpart_name, counterpart_avatar, created_at, updated_at
		 FROM conversations `+clause, arg,
	).Scan(&c.ID, &c.CustomerID, &c.CounterpartName, &c.CounterpartAvatar, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	rows, err := r.q.Query(context.Background(),
		`SELECT id, conversation_id, sender_id, content, read, created_at
		 FROM messages WHERE conversation_id = $1 ORDER BY created_at, id`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m entity.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.Read, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		c.Messages = append(c.Messages, m)
	}
	return &c, rows.Err()
}
