package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain"
)

// failWith traduce un error de dominio al envelope y status HTTP correspondientes.
// Todo error no reconocido se reporta como 500 sin filtrar detalles internos.
func failWith(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidOTP),
		errors.Is(err, domain.ErrQuantityBelowMin),
		errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrLineNotSelectable),
		errors.Is(err, domain.ErrNothingSelected),
		errors.Is(err, domain.ErrNoAddressChosen),
		errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrNoConversationChosen):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.CodeValidation, err.Error()))
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidRefresh):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(dto.CodeUnauthorized, err.Error()))
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrConversationForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail(dto.CodeForbidden, err.Error()))
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail(dto.CodeNotFound, err.Error()))
	case errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.Fail(dto.CodeConflict, err.Error()))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail(dto.CodeInternal, "error interno"))
	}
}

// badBody respuesta estándar ante un cuerpo JSON que no se puede parsear.
func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.CodeValidation, "cuerpo inválido"))
}
