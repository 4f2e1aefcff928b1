package chat_test

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafeto/storefront-api/internal/application/chat"
	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain"
	"github.com/cafeto/storefront-api/internal/domain/entity"
	"github.com/cafeto/storefront-api/pkg/logger"
)

// ─────────────────────────── fakes ───────────────────────────

type fakeConvRepo struct {
	mu      sync.Mutex
	all     []*entity.Conversation
	listErr error
	created []*entity.Conversation
}

func (r *fakeConvRepo) ListAll() ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*entity.Conversation, len(r.all))
	copy(out, r.all)
	return out, nil
}

func (r *fakeConvRepo) GetByCustomer(customerID string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.all {
		if c.CustomerID == customerID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeConvRepo) GetByID(id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.all {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeConvRepo) Create(c *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.all = append(r.all, &cp)
	r.created = append(r.created, &cp)
	return nil
}

func (r *fakeConvRepo) AppendMessage(m *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.all {
		if c.ID == m.ConversationID {
			c.Messages = append(c.Messages, *m)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeConvRepo) MarkRead(conversationID, viewerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.all {
		if c.ID == conversationID {
			for i := range c.Messages {
				if c.Messages[i].SenderID != viewerID {
					c.Messages[i].Read = true
				}
			}
		}
	}
	return nil
}

type publishedFrame struct {
	topic   string
	payload []byte
}

type fakeSub struct {
	ch chan []byte

	mu          sync.Mutex
	manualClose bool // si true, Close solo avisa y el test cierra ch a mano
	closeCalled chan struct{}
}

func (s *fakeSub) Messages() <-chan []byte { return s.ch }

func (s *fakeSub) Close() error {
	s.mu.Lock()
	manual := s.manualClose
	s.mu.Unlock()
	close(s.closeCalled)
	if !manual {
		close(s.ch)
	}
	return nil
}

type fakeBroker struct {
	mu        sync.Mutex
	sub       *fakeSub
	subTopic  string
	published []publishedFrame
}

func (b *fakeBroker) Publish(topic string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, publishedFrame{topic: topic, payload: payload})
	return nil
}

func (b *fakeBroker) Subscribe(topic string) (chat.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subTopic = topic
	b.sub = &fakeSub{ch: make(chan []byte, 8), closeCalled: make(chan struct{})}
	return b.sub, nil
}

func (b *fakeBroker) PSubscribe(pattern string) (chat.Subscription, error) {
	return b.Subscribe(pattern)
}

func (b *fakeBroker) frames() []publishedFrame {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]publishedFrame, len(b.published))
	copy(out, b.published)
	return out
}

// ─────────────────────────── helpers ───────────────────────────

func conv(id, customerID string, msgs ...entity.Message) *entity.Conversation {
	return &entity.Conversation{
		ID:              id,
		CustomerID:      customerID,
		CounterpartName: "Cliente " + customerID,
		Messages:        msgs,
	}
}

func msg(convID, senderID, content string, read bool) entity.Message {
	return entity.Message{
		ID:             convID + "-" + content,
		ConversationID: convID,
		SenderID:       senderID,
		Content:        content,
		Read:           read,
	}
}

// frameFor serializa el envelope de update tal como lo publica el dispatcher.
func frameFor(t *testing.T, record dto.ConversationResponse) []byte {
	t.Helper()
	payload, err := json.Marshal(dto.Envelope{
		RespCode: dto.CodeSuccess,
		RespDesc: "éxito",
		Data:     dto.ChatUpdate{Conversation: record},
	})
	require.NoError(t, err)
	return payload
}

func recordFor(c *entity.Conversation) dto.ConversationResponse {
	out := dto.ConversationResponse{
		ID:              c.ID,
		CustomerID:      c.CustomerID,
		CounterpartName: c.CounterpartName,
		Messages:        make([]dto.MessageResponse, 0, len(c.Messages)),
	}
	for _, m := range c.Messages {
		out.Messages = append(out.Messages, dto.MessageResponse{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			SenderID:       m.SenderID,
			Content:        m.Content,
			Read:           m.Read,
		})
	}
	return out
}

func recvUpdate(t *testing.T, s *chat.Synchronizer) dto.ConversationResponse {
	t.Helper()
	select {
	case rec, ok := <-s.Updates():
		require.True(t, ok, "el canal de updates no debería estar cerrado")
		return rec
	case <-time.After(time.Second):
		t.Fatal("timeout esperando un update del sincronizador")
		return dto.ConversationResponse{}
	}
}

func startStaffSync(t *testing.T, repo *fakeConvRepo, broker *fakeBroker) *chat.Synchronizer {
	t.Helper()
	s := chat.NewSynchronizer(repo, broker, logger.Nop(), "staff-1", "Soporte", entity.RoleStaff, 0)
	require.NoError(t, s.Start())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// ─────────────────────────── carga masiva ───────────────────────────

func TestStart_StaffCargaTodasYEscuchaBroadcast(t *testing.T) {
	repo := &fakeConvRepo{all: []*entity.Conversation{
		conv("conv-b", "cli-b"),
		conv("conv-a", "cli-a"),
	}}
	broker := &fakeBroker{}

	s := startStaffSync(t, repo, broker)

	assert.Equal(t, chat.TopicStaffUpdates, broker.subTopic, "el staff escucha el broadcast de su rol")

	out := s.List(1, 10)
	require.Equal(t, 2, out.Total)
	assert.Equal(t, "cli-a", out.Items[0].CustomerID, "el listado se ordena por contraparte ascendente")
	assert.Equal(t, "cli-b", out.Items[1].CustomerID)
}

func TestStart_ClienteCreaSuConversacionSiNoExiste(t *testing.T) {
	repo := &fakeConvRepo{}
	broker := &fakeBroker{}

	s := chat.NewSynchronizer(repo, broker, logger.Nop(), "cli-9", "Ana", entity.RoleCustomer, 0)
	require.NoError(t, s.Start())
	defer s.Close()

	require.Len(t, repo.created, 1, "el cliente entra con su hilo ya creado")
	assert.Equal(t, "cli-9", repo.created[0].CustomerID)
	assert.Equal(t, "Ana", repo.created[0].CounterpartName)

	assert.Equal(t, chat.CustomerTopic("cli-9"), broker.subTopic, "el cliente escucha solo su destino")

	out := s.List(1, 10)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, repo.created[0].ID, out.Items[0].ID)
}

func TestStart_FalloDeCargaDejaListaVaciaYSuscribeIgual(t *testing.T) {
	repo := &fakeConvRepo{listErr: assert.AnError}
	broker := &fakeBroker{}

	s := startStaffSync(t, repo, broker)

	assert.Equal(t, 0, s.List(1, 10).Total, "en fallo de carga la lista queda vacía")
	assert.Equal(t, chat.TopicStaffUpdates, broker.subTopic, "la suscripción en vivo se abre igual")
}

// ─────────────────────────── updates en vivo ───────────────────────────

func TestHandleUpdate_ReemplazaSinDuplicarYAnexaNuevas(t *testing.T) {
	existing := conv("conv-a", "cli-a")
	repo := &fakeConvRepo{all: []*entity.Conversation{existing}}
	broker := &fakeBroker{}

	s := startStaffSync(t, repo, broker)

	// Update de una conversación ya cargada: reemplaza el registro, no duplica.
	updated := recordFor(conv("conv-a", "cli-a", msg("conv-a", "cli-a", "hola", false)))
	broker.sub.ch <- frameFor(t, updated)
	got := recvUpdate(t, s)
	assert.Equal(t, "conv-a", got.ID)

	out := s.List(1, 10)
	require.Equal(t, 1, out.Total, "el upsert no duplica registros")
	assert.Len(t, out.Items[0].Messages, 1)

	// Conversación desconocida: se anexa al listado.
	fresh := recordFor(conv("conv-b", "cli-b", msg("conv-b", "cli-b", "buenas", false)))
	broker.sub.ch <- frameFor(t, fresh)
	recvUpdate(t, s)

	assert.Equal(t, 2, s.List(1, 10).Total)
}

func TestHandleUpdate_RecalculaNoLeidosParaElViewer(t *testing.T) {
	repo := &fakeConvRepo{}
	broker := &fakeBroker{}

	s := startStaffSync(t, repo, broker)

	// El broadcast llega con Unread ajeno; el sincronizador lo recalcula
	// desde la perspectiva del viewer local.
	record := recordFor(conv("conv-a", "cli-a",
		msg("conv-a", "cli-a", "uno", false),
		msg("conv-a", "cli-a", "dos", true),
		msg("conv-a", "staff-1", "tres", false),
	))
	record.Unread = 99
	broker.sub.ch <- frameFor(t, record)

	got := recvUpdate(t, s)
	assert.Equal(t, 1, got.Unread, "solo cuenta lo ajeno aún no leído")
}

func TestHandleUpdate_DescartaFramesInvalidosSinMutar(t *testing.T) {
	repo := &fakeConvRepo{}
	broker := &fakeBroker{}

	s := startStaffSync(t, repo, broker)

	// JSON roto y envelope con código de error: ambos se descartan.
	broker.sub.ch <- []byte(`{esto no es json`)
	bad := frameFor(t, recordFor(conv("conv-x", "cli-x")))
	var env map[string]any
	require.NoError(t, json.Unmarshal(bad, &env))
	env["respCode"] = "500"
	broken, err := json.Marshal(env)
	require.NoError(t, err)
	broker.sub.ch <- broken

	// Frame centinela válido: cuando llega, los anteriores ya fueron procesados.
	broker.sub.ch <- frameFor(t, recordFor(conv("conv-ok", "cli-ok")))
	got := recvUpdate(t, s)
	assert.Equal(t, "conv-ok", got.ID)

	out := s.List(1, 10)
	require.Equal(t, 1, out.Total, "los frames descartados no dejan rastro en la lista")
	assert.Equal(t, "conv-ok", out.Items[0].ID)
}

func TestClose_DescartaUpdatesTardios(t *testing.T) {
	repo := &fakeConvRepo{all: []*entity.Conversation{conv("conv-a", "cli-a")}}
	broker := &fakeBroker{}

	s := startStaffSync(t, repo, broker)
	broker.sub.mu.Lock()
	broker.sub.manualClose = true
	broker.sub.mu.Unlock()

	closeErr := make(chan error, 1)
	go func() { closeErr <- s.Close() }()
	<-broker.sub.closeCalled

	// El sincronizador ya está cerrado pero el bucle sigue drenando: el frame
	// tardío no debe mutar la lista ni reenviarse.
	broker.sub.ch <- frameFor(t, recordFor(conv("conv-tarde", "cli-z")))
	close(broker.sub.ch)

	require.NoError(t, <-closeErr)
	_, ok := <-s.Updates()
	assert.False(t, ok, "tras Close el canal de updates se cierra sin reenviar el frame tardío")
	assert.Equal(t, 1, s.List(1, 10).Total, "el frame tardío no muta la lista")
}

// ─────────────────────────── listado paginado ───────────────────────────

func TestList_PaginaEnMemoriaConOrdenEstable(t *testing.T) {
	repo := &fakeConvRepo{}
	for i := 0; i < 8; i++ {
		repo.all = append(repo.all, conv(
			fmt.Sprintf("conv-%d", 8-i),
			fmt.Sprintf("cli-%d", 8-i),
		))
	}
	broker := &fakeBroker{}

	s := startStaffSync(t, repo, broker)

	// size <= 0 usa el tamaño por defecto del sincronizador (6).
	first := s.List(1, 0)
	require.Len(t, first.Items, 6)
	assert.Equal(t, 8, first.Total)
	assert.Equal(t, "cli-1", first.Items[0].CustomerID)

	second := s.List(2, 0)
	require.Len(t, second.Items, 2)
	assert.Equal(t, "cli-7", second.Items[0].CustomerID)
	assert.Equal(t, "cli-8", second.Items[1].CustomerID)

	beyond := s.List(5, 0)
	assert.Empty(t, beyond.Items, "las páginas fuera de rango devuelven vacío, no error")
	assert.Equal(t, 8, beyond.Total)
}

// ─────────────────────────── envío ───────────────────────────

func TestSend_PublicaAlDestinoSinAppendOptimista(t *testing.T) {
	repo := &fakeConvRepo{all: []*entity.Conversation{conv("conv-a", "cli-a")}}
	broker := &fakeBroker{}

	s := startStaffSync(t, repo, broker)

	require.NoError(t, s.Send("conv-a", "  hola, ¿en qué ayudo?  "))

	frames := broker.frames()
	require.Len(t, frames, 1)
	assert.Equal(t, chat.ConversationTopic("conv-a"), frames[0].topic)

	var env dto.Envelope
	require.NoError(t, json.Unmarshal(frames[0].payload, &env))
	assert.Equal(t, dto.CodeSuccess, env.RespCode)
	raw, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var out dto.OutboundMessage
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "staff-1", out.SenderID)
	assert.Equal(t, "conv-a", out.ConversationID)
	assert.Equal(t, "hola, ¿en qué ayudo?", out.Content, "el contenido viaja recortado")

	// Sin append optimista: la lista solo cambia cuando el canal devuelve el update.
	got := s.List(1, 10)
	require.Equal(t, 1, got.Total)
	assert.Empty(t, got.Items[0].Messages)
}

func TestSend_Validaciones(t *testing.T) {
	repo := &fakeConvRepo{all: []*entity.Conversation{conv("conv-a", "cli-a")}}
	broker := &fakeBroker{}

	s := startStaffSync(t, repo, broker)

	assert.ErrorIs(t, s.Send("", "hola"), domain.ErrNoConversationChosen)
	assert.ErrorIs(t, s.Send("conv-a", "   \n\t "), domain.ErrEmptyMessage)
	assert.Empty(t, broker.frames(), "los envíos rechazados no llegan al broker")

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Send("conv-a", "hola"), domain.ErrSynchronizerClosed)
}

func TestSend_ClienteSoloEscribeEnSuPropioHilo(t *testing.T) {
	ajena := conv("conv-ajena", "cli-otro")
	repo := &fakeConvRepo{all: []*entity.Conversation{ajena}}
	broker := &fakeBroker{}

	s := chat.NewSynchronizer(repo, broker, logger.Nop(), "cli-1", "Ana", entity.RoleCustomer, 0)
	require.NoError(t, s.Start())
	defer s.Close()

	// El hilo de otro cliente se rechaza y nada llega al broker.
	assert.ErrorIs(t, s.Send("conv-ajena", "hola"), domain.ErrConversationForbidden)
	assert.ErrorIs(t, s.Send("conv-fantasma", "hola"), domain.ErrNotFound)
	assert.Empty(t, broker.frames())

	// El hilo propio (creado en la carga masiva) sí acepta el envío.
	require.Len(t, repo.created, 1)
	own := repo.created[0].ID
	require.NoError(t, s.Send(own, "hola"))

	frames := broker.frames()
	require.Len(t, frames, 1)
	assert.Equal(t, chat.ConversationTopic(own), frames[0].topic)
}

func TestSend_StaffEscribeEnCualquierHilo(t *testing.T) {
	repo := &fakeConvRepo{all: []*entity.Conversation{conv("conv-a", "cli-a"), conv("conv-b", "cli-b")}}
	broker := &fakeBroker{}

	s := startStaffSync(t, repo, broker)

	require.NoError(t, s.Send("conv-a", "hola"))
	require.NoError(t, s.Send("conv-b", "buenas"))
	assert.Len(t, broker.frames(), 2)
}
