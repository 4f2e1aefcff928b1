// Package notify contiene los canales de entrega de notificaciones al usuario.
package notify

import (
	"github.com/cafeto/storefront-api/internal/application/auth"
	"github.com/cafeto/storefront-api/pkg/logger"
)

var _ auth.OTPSender = (*ConsoleSender)(nil)

// ConsoleSender entrega el código OTP por el log de la aplicación.
// Es el canal de development; en producción se sustituye por email.
type ConsoleSender struct {
	log *logger.Logger
}

// NewConsoleSender construye el emisor de consola.
func NewConsoleSender(log *logger.Logger) *ConsoleSender {
	return &ConsoleSender{log: log}
}

// Send escribe el código en el log.
func (s *ConsoleSender) Send(email, code string) error {
	s.log.Info().Str("email", email).Str("code", code).Msg("📧 Código de verificación generado")
	return nil
}
