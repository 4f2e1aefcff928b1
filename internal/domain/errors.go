package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Sesión y OTP
	ErrInvalidOTP     = errors.New("código de verificación inválido o expirado")
	ErrInvalidRefresh = errors.New("refresh token inválido o revocado")

	// Carrito
	ErrQuantityBelowMin  = errors.New("la cantidad mínima es 1")
	ErrOutOfStock        = errors.New("sin stock disponible")
	ErrLineNotSelectable = errors.New("la línea excede el stock y no puede seleccionarse")

	// Checkout
	ErrNothingSelected = errors.New("no hay artículos seleccionados")
	ErrNoAddressChosen = errors.New("no hay dirección de envío elegida")
	ErrGatewayRejected = errors.New("la pasarela de pago rechazó la solicitud")

	// Chat
	ErrEmptyMessage          = errors.New("el mensaje no puede estar vacío")
	ErrNoConversationChosen  = errors.New("no hay conversación seleccionada")
	ErrSynchronizerClosed    = errors.New("el sincronizador ya fue cerrado")
	ErrConversationForbidden = errors.New("la conversación no pertenece al usuario")
)
