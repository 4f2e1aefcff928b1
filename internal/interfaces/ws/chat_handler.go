// Package ws expone el canal en vivo del chat sobre websocket. Cada socket
// monta su propio Synchronizer al conectar y lo cierra al desconectar.
package ws

import (
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/cafeto/storefront-api/internal/application/chat"
	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain/repository"
	"github.com/cafeto/storefront-api/pkg/config"
	"github.com/cafeto/storefront-api/pkg/jwt"
	"github.com/cafeto/storefront-api/pkg/logger"
)

// ChatHandler monta sincronizadores de chat sobre conexiones websocket.
type ChatHandler struct {
	repo     repository.ConversationRepository
	broker   chat.Broker
	log      *logger.Logger
	jwtCfg   config.JWTConfig
	pageSize int
}

// NewChatHandler construye el handler del canal en vivo.
func NewChatHandler(repo repository.ConversationRepository, broker chat.Broker, log *logger.Logger, jwtCfg config.JWTConfig, pageSize int) *ChatHandler {
	return &ChatHandler{repo: repo, broker: broker, log: log, jwtCfg: jwtCfg, pageSize: pageSize}
}

// Upgrade valida el token (query ?token=) antes de permitir el upgrade a websocket.
// El header Authorization no viaja en el handshake del navegador.
func (h *ChatHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(dto.CodeUnauthorized, "token requerido"))
	}
	userID, name, role, err := jwt.Parse(h.jwtCfg.Secret, token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(dto.CodeUnauthorized, "token inválido o expirado"))
	}
	c.Locals("user_id", userID)
	c.Locals("user_name", name)
	c.Locals("role", role)
	return c.Next()
}

// Frames que acepta el socket del cliente.
type inboundFrame struct {
	Action         string `json:"action"` // list | send | read
	ConversationID string `json:"conversation_id,omitempty"`
	Content        string `json:"content,omitempty"`
	Page           int    `json:"page,omitempty"`
	Size           int    `json:"size,omitempty"`
}

// Handler devuelve el handler websocket que ata la conexión a un Synchronizer.
func (h *ChatHandler) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		viewerID, _ := conn.Locals("user_id").(string)
		viewerName, _ := conn.Locals("user_name").(string)
		role, _ := conn.Locals("role").(string)

		sync := chat.NewSynchronizer(h.repo, h.broker, h.log, viewerID, viewerName, role, h.pageSize)
		if err := sync.Start(); err != nil {
			h.log.Error().Err(err).Str("viewer", viewerID).Msg("chat: no se pudo iniciar el sincronizador")
			_ = conn.WriteJSON(dto.Fail(dto.CodeInternal, "no se pudo abrir el canal"))
			_ = conn.Close()
			return
		}
		defer sync.Close()

		// Primer frame: la página inicial del listado.
		_ = conn.WriteJSON(dto.OK(sync.List(1, h.pageSize)))

		// Escritor: reenvía cada update aceptado al socket.
		writerDone := make(chan struct{})
		go func() {
			defer close(writerDone)
			for record := range sync.Updates() {
				if err := conn.WriteJSON(dto.OK(dto.ChatUpdate{Conversation: record})); err != nil {
					return
				}
			}
		}()

		// Lector: procesa frames del cliente hasta que el socket se cierre.
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				break
			}
			h.handleFrame(conn, sync, viewerID, payload)
		}

		// El Close del sincronizador cierra Updates() y con él al escritor.
		_ = sync.Close()
		<-writerDone
	})
}

func (h *ChatHandler) handleFrame(conn *websocket.Conn, sync *chat.Synchronizer, viewerID string, payload []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		_ = conn.WriteJSON(dto.Fail(dto.CodeValidation, "frame inválido"))
		return
	}
	switch frame.Action {
	case "list":
		page, size := frame.Page, frame.Size
		if page <= 0 {
			page = 1
		}
		if size <= 0 {
			size = h.pageSize
		}
		_ = conn.WriteJSON(dto.OK(sync.List(page, size)))
	case "send":
		if err := sync.Send(frame.ConversationID, frame.Content); err != nil {
			_ = conn.WriteJSON(dto.Fail(dto.CodeValidation, err.Error()))
		}
	case "read":
		if frame.ConversationID == "" {
			_ = conn.WriteJSON(dto.Fail(dto.CodeValidation, "conversación requerida"))
			return
		}
		if err := h.repo.MarkRead(frame.ConversationID, viewerID); err != nil {
			h.log.Warn().Err(err).Str("conversation", frame.ConversationID).Msg("chat: no se pudo marcar leídos")
			_ = conn.WriteJSON(dto.Fail(dto.CodeInternal, "no se pudo marcar leídos"))
			return
		}
		_ = conn.WriteJSON(dto.OK(nil))
	default:
		_ = conn.WriteJSON(dto.Fail(dto.CodeValidation, "acción desconocida"))
	}
}
