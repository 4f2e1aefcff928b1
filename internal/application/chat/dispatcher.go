package chat

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain/entity"
	"github.com/cafeto/storefront-api/internal/domain/repository"
	"github.com/cafeto/storefront-api/pkg/logger"
)

// wireEnvelope forma en el cable de los frames del broker: el mismo convenio
// respCode del API. Data depende de la dirección (mensaje saliente o update).
type wireEnvelope struct {
	RespCode string          `json:"respCode"`
	RespDesc string          `json:"respDesc"`
	Data     json.RawMessage `json:"data"`
}

// Dispatcher consume los destinos por conversación, persiste cada mensaje y
// reparte el registro actualizado a los broadcasts por rol. Corre uno por proceso.
type Dispatcher struct {
	repo   repository.ConversationRepository
	broker Broker
	log    *logger.Logger
	sub    Subscription
	done   chan struct{}
}

// NewDispatcher construye el dispatcher.
func NewDispatcher(repo repository.ConversationRepository, broker Broker, log *logger.Logger) *Dispatcher {
	return &Dispatcher{repo: repo, broker: broker, log: log, done: make(chan struct{})}
}

// Start abre la suscripción por patrón a todos los destinos de conversación y
// arranca el bucle de reparto.
func (d *Dispatcher) Start() error {
	sub, err := d.broker.PSubscribe(TopicConversationGlob)
	if err != nil {
		return err
	}
	d.sub = sub
	go d.loop()
	return nil
}

// Close cierra la suscripción y espera el final del bucle.
func (d *Dispatcher) Close() error {
	if d.sub == nil {
		return nil
	}
	err := d.sub.Close()
	<-d.done
	return err
}

func (d *Dispatcher) loop() {
	defer close(d.done)
	for payload := range d.sub.Messages() {
		d.handle(payload)
	}
}

// handle procesa un frame saliente: frames malformados o sin código de éxito
// se registran y descartan sin mutar estado.
func (d *Dispatcher) handle(payload []byte) {
	var env wireEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		d.log.Warn().Err(err).Msg("chat: frame malformado, descartado")
		return
	}
	if env.RespCode != dto.CodeSuccess {
		d.log.Warn().Str("respCode", env.RespCode).Str("respDesc", env.RespDesc).Msg("chat: frame con error, descartado")
		return
	}
	var out dto.OutboundMessage
	if err := json.Unmarshal(env.Data, &out); err != nil {
		d.log.Warn().Err(err).Msg("chat: payload de mensaje malformado, descartado")
		return
	}
	if out.ConversationID == "" || strings.TrimSpace(out.Content) == "" || out.SenderID == "" {
		d.log.Warn().Str("conversation_id", out.ConversationID).Msg("chat: mensaje incompleto, descartado")
		return
	}

	if err := d.persistAndBroadcast(out); err != nil {
		d.log.Error().Err(err).Str("conversation_id", out.ConversationID).Msg("chat: reparto de mensaje")
	}
}

func (d *Dispatcher) persistAndBroadcast(out dto.OutboundMessage) error {
	conv, err := d.repo.GetByID(out.ConversationID)
	if err != nil {
		return err
	}
	if conv == nil {
		d.log.Warn().Str("conversation_id", out.ConversationID).Msg("chat: conversación inexistente, frame descartado")
		return nil
	}
	msg := &entity.Message{
		ID:             uuid.New().String(),
		ConversationID: out.ConversationID,
		SenderID:       out.SenderID,
		Content:        strings.TrimSpace(out.Content),
		CreatedAt:      time.Now(),
	}
	if err := d.repo.AppendMessage(msg); err != nil {
		return err
	}
	// Releer para repartir el registro completo en orden de inserción.
	conv, err = d.repo.GetByID(out.ConversationID)
	if err != nil {
		return err
	}

	record := toConversationResponse(conv, "")
	update, err := json.Marshal(dto.Envelope{
		RespCode: dto.CodeSuccess,
		RespDesc: "éxito",
		Data:     dto.ChatUpdate{Conversation: record},
	})
	if err != nil {
		return err
	}
	if err := d.broker.Publish(TopicStaffUpdates, update); err != nil {
		return err
	}
	return d.broker.Publish(CustomerTopic(conv.CustomerID), update)
}
