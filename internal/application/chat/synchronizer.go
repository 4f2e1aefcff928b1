package chat

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain"
	"github.com/cafeto/storefront-api/internal/domain/entity"
	"github.com/cafeto/storefront-api/internal/domain/repository"
	"github.com/cafeto/storefront-api/pkg/logger"
)

// Synchronizer mantiene la lista de conversaciones de un viewer coherente entre
// (a) una carga masiva inicial y (b) el flujo abierto de updates del broker.
// Es recurso exclusivo de su socket: una suscripción por montaje, un Close por
// desmontaje, y ningún callback tardío muta estado después del cierre.
type Synchronizer struct {
	repo       repository.ConversationRepository
	broker     Broker
	log        *logger.Logger
	viewerID   string
	viewerName string
	role       string
	pageSize   int

	mu     sync.Mutex
	closed bool
	convs  []dto.ConversationResponse // lista autoritativa, orden de llegada

	sub     Subscription
	updates chan dto.ConversationResponse
	done    chan struct{}
}

// NewSynchronizer construye el sincronizador de un viewer.
func NewSynchronizer(repo repository.ConversationRepository, broker Broker, log *logger.Logger, viewerID, viewerName, role string, pageSize int) *Synchronizer {
	if pageSize <= 0 {
		pageSize = 6
	}
	return &Synchronizer{
		repo:       repo,
		broker:     broker,
		log:        log,
		viewerID:   viewerID,
		viewerName: viewerName,
		role:       role,
		pageSize:   pageSize,
		updates:    make(chan dto.ConversationResponse, 16),
		done:       make(chan struct{}),
	}
}

// Start ejecuta la carga masiva y abre la suscripción en vivo.
// Si la carga falla se registra y la lista queda vacía; la suscripción se abre igual.
func (s *Synchronizer) Start() error {
	s.bulkLoad()

	topic := TopicStaffUpdates
	if !entity.IsStaffRole(s.role) {
		topic = CustomerTopic(s.viewerID)
	}
	sub, err := s.broker.Subscribe(topic)
	if err != nil {
		return err
	}
	s.sub = sub
	go s.loop()
	return nil
}

// bulkLoad reemplaza la lista local con la copia del servidor. En fallo: log y lista vacía.
func (s *Synchronizer) bulkLoad() {
	var (
		convs []*entity.Conversation
		err   error
	)
	if entity.IsStaffRole(s.role) {
		convs, err = s.repo.ListAll()
	} else {
		var own *entity.Conversation
		own, err = s.ensureOwnConversation()
		if own != nil {
			convs = []*entity.Conversation{own}
		}
	}
	if err != nil {
		s.log.Error().Err(err).Str("viewer_id", s.viewerID).Msg("chat: carga masiva de conversaciones")
		return
	}
	list := make([]dto.ConversationResponse, 0, len(convs))
	for _, c := range convs {
		list = append(list, toConversationResponse(c, s.viewerID))
	}
	s.mu.Lock()
	s.convs = list
	s.mu.Unlock()
}

// ensureOwnConversation garantiza que el cliente tenga su hilo antes de enviar.
func (s *Synchronizer) ensureOwnConversation() (*entity.Conversation, error) {
	conv, err := s.repo.GetByCustomer(s.viewerID)
	if err != nil || conv != nil {
		return conv, err
	}
	now := time.Now()
	conv = &entity.Conversation{
		ID:              uuid.New().String(),
		CustomerID:      s.viewerID,
		CounterpartName: s.viewerName,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *Synchronizer) loop() {
	defer close(s.done)
	for payload := range s.sub.Messages() {
		s.handleUpdate(payload)
	}
}

// handleUpdate procesa un envelope entrante del canal. Envelopes malformados o
// con código distinto de éxito se registran y descartan sin mutar estado.
// Después del cierre ningún frame muta la lista.
func (s *Synchronizer) handleUpdate(payload []byte) {
	var env wireEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		s.log.Warn().Err(err).Msg("chat: update malformado, descartado")
		return
	}
	if env.RespCode != dto.CodeSuccess {
		s.log.Warn().Str("respCode", env.RespCode).Msg("chat: update con error, descartado")
		return
	}
	var update dto.ChatUpdate
	if err := json.Unmarshal(env.Data, &update); err != nil {
		s.log.Warn().Err(err).Msg("chat: registro de conversación malformado, descartado")
		return
	}
	record := update.Conversation
	recountUnread(&record, s.viewerID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		// Guard contra callbacks tardíos después del desmontaje.
		return
	}
	s.upsertLocked(record)

	select {
	case s.updates <- record:
	default:
		s.log.Warn().Str("conversation_id", record.ID).Msg("chat: buffer de updates lleno, frame no reenviado")
	}
}

// upsertLocked inserta o reemplaza por identificador: si la conversación ya
// existe conserva su posición ordinal (el resto de entradas no se mueve);
// si es nueva se añade al final.
func (s *Synchronizer) upsertLocked(record dto.ConversationResponse) {
	for i := range s.convs {
		if s.convs[i].ID == record.ID {
			s.convs[i] = record
			return
		}
	}
	s.convs = append(s.convs, record)
}

// List devuelve una página del listado visible: orden por identificador de
// contraparte ascendente y paginación en memoria. Se recalcula desde la lista
// autoritativa en cada llamada; no se persiste copia paginada.
func (s *Synchronizer) List(page, size int) dto.ConversationListResponse {
	if size <= 0 {
		size = s.pageSize
	}
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	sorted := make([]dto.ConversationResponse, len(s.convs))
	copy(sorted, s.convs)
	s.mu.Unlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CustomerID < sorted[j].CustomerID
	})

	total := len(sorted)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return dto.ConversationListResponse{
		Items:    sorted[start:end],
		Page:     page,
		PageSize: size,
		Total:    total,
	}
}

// Send publica un mensaje saliente al destino de su conversación. Exige
// conversación seleccionada y texto no vacío tras recortar espacios; el
// personal puede escribir en cualquier hilo, un cliente solo en el suyo.
// No hay append optimista: el mensaje aparece en la lista cuando el canal
// lo devuelve.
func (s *Synchronizer) Send(conversationID, content string) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return domain.ErrSynchronizerClosed
	}
	if conversationID == "" {
		return domain.ErrNoConversationChosen
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.ErrEmptyMessage
	}
	conv, err := s.repo.GetByID(conversationID)
	if err != nil {
		return err
	}
	if conv == nil {
		return domain.ErrNotFound
	}
	if !entity.IsStaffRole(s.role) && conv.CustomerID != s.viewerID {
		return domain.ErrConversationForbidden
	}
	payload, err := json.Marshal(dto.Envelope{
		RespCode: dto.CodeSuccess,
		RespDesc: "éxito",
		Data: dto.OutboundMessage{
			SenderID:       s.viewerID,
			ConversationID: conversationID,
			Content:        content,
		},
	})
	if err != nil {
		return err
	}
	return s.broker.Publish(ConversationTopic(conversationID), payload)
}

// Updates canal de registros aceptados para reenviar al socket del viewer.
func (s *Synchronizer) Updates() <-chan dto.ConversationResponse {
	return s.updates
}

// Close cierra la suscripción exactamente una vez. Es idempotente y tras él
// ningún update muta la lista.
func (s *Synchronizer) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	var err error
	if s.sub != nil {
		err = s.sub.Close()
		<-s.done
	}
	close(s.updates)
	return err
}
