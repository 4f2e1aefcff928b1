package chat

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain"
	"github.com/cafeto/storefront-api/internal/domain/entity"
	"github.com/cafeto/storefront-api/internal/domain/repository"
	"github.com/cafeto/storefront-api/pkg/logger"
)

// ChatUseCase operaciones REST del chat: carga masiva, envío y marcado de leídos.
// El flujo en vivo lo lleva el Synchronizer; aquí solo la superficie HTTP.
type ChatUseCase struct {
	repo     repository.ConversationRepository
	userRepo repository.UserRepository
	broker   Broker
	log      *logger.Logger
}

// NewChatUseCase construye el caso de uso.
func NewChatUseCase(repo repository.ConversationRepository, userRepo repository.UserRepository, broker Broker, log *logger.Logger) *ChatUseCase {
	return &ChatUseCase{repo: repo, userRepo: userRepo, broker: broker, log: log}
}

// ListConversations carga masiva: staff/admin reciben la lista completa, un
// cliente su propio hilo (creándolo si aún no existe). En fallo del repositorio
// se registra y se devuelve la lista vacía.
func (uc *ChatUseCase) ListConversations(viewerID, role string) []dto.ConversationResponse {
	var (
		convs []*entity.Conversation
		err   error
	)
	if entity.IsStaffRole(role) {
		convs, err = uc.repo.ListAll()
	} else {
		var own *entity.Conversation
		own, err = uc.ensureConversation(viewerID)
		if own != nil {
			convs = []*entity.Conversation{own}
		}
	}
	if err != nil {
		uc.log.Error().Err(err).Str("viewer_id", viewerID).Msg("chat: carga masiva de conversaciones")
		return []dto.ConversationResponse{}
	}
	out := make([]dto.ConversationResponse, 0, len(convs))
	for _, c := range convs {
		out = append(out, toConversationResponse(c, viewerID))
	}
	return out
}

// SendMessage valida y publica un mensaje al destino de la conversación.
// El personal puede escribir en cualquier hilo; un cliente solo en el suyo.
func (uc *ChatUseCase) SendMessage(viewerID, role, conversationID, content string) error {
	if conversationID == "" {
		return domain.ErrNoConversationChosen
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.ErrEmptyMessage
	}
	conv, err := uc.repo.GetByID(conversationID)
	if err != nil {
		return err
	}
	if conv == nil {
		return domain.ErrNotFound
	}
	if !entity.IsStaffRole(role) && conv.CustomerID != viewerID {
		return domain.ErrConversationForbidden
	}
	payload, err := json.Marshal(dto.Envelope{
		RespCode: dto.CodeSuccess,
		RespDesc: "éxito",
		Data: dto.OutboundMessage{
			SenderID:       viewerID,
			ConversationID: conversationID,
			Content:        content,
		},
	})
	if err != nil {
		return err
	}
	return uc.broker.Publish(ConversationTopic(conversationID), payload)
}

// MarkRead marca como leídos los mensajes del hilo no escritos por el viewer.
func (uc *ChatUseCase) MarkRead(viewerID, role, conversationID string) error {
	conv, err := uc.repo.GetByID(conversationID)
	if err != nil {
		return err
	}
	if conv == nil {
		return domain.ErrNotFound
	}
	if !entity.IsStaffRole(role) && conv.CustomerID != viewerID {
		return domain.ErrConversationForbidden
	}
	return uc.repo.MarkRead(conversationID, viewerID)
}

func (uc *ChatUseCase) ensureConversation(customerID string) (*entity.Conversation, error) {
	conv, err := uc.repo.GetByCustomer(customerID)
	if err != nil || conv != nil {
		return conv, err
	}
	user, err := uc.userRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	name, avatar := customerID, ""
	if user != nil {
		name, avatar = user.Name, user.AvatarURL
	}
	now := time.Now()
	conv = &entity.Conversation{
		ID:                uuid.New().String(),
		CustomerID:        customerID,
		CounterpartName:   name,
		CounterpartAvatar: avatar,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(conv); err != nil {
		return nil, err
	}
	return conv, nil
}
