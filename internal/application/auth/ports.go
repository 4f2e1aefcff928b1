package auth

import "time"

// PendingRegistration registro a la espera de verificación OTP.
// Se guarda el hash, nunca la contraseña en claro.
type PendingRegistration struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Name         string `json:"name"`
}

// OTPStore almacena el código de 4 dígitos y el registro pendiente (Redis con TTL).
type OTPStore interface {
	SavePending(email, code string, reg PendingRegistration, ttl time.Duration) error
	// GetPending devuelve el código vigente y el registro pendiente; nil si expiró o no existe.
	GetPending(email string) (code string, reg *PendingRegistration, err error)
	DeletePending(email string) error
}

// RefreshStore almacena refresh tokens opacos con TTL (Redis).
type RefreshStore interface {
	Save(token, userID string, ttl time.Duration) error
	// UserID devuelve el dueño del token, o "" si no existe o fue revocado.
	UserID(token string) (string, error)
	Revoke(token string) error
}

// OTPSender canal de entrega del código de verificación (email en producción,
// consola en development).
type OTPSender interface {
	Send(email, code string) error
}
