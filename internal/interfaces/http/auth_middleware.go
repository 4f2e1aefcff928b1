package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain/entity"
	"github.com/cafeto/storefront-api/pkg/jwt"
)

// Locals keys para la identidad del usuario en Fiber.
const (
	LocalUserID   = "user_id"
	LocalUserName = "user_name"
	LocalRole     = "role"
)

// AuthMiddleware valida el Bearer Token JWT y extrae la identidad a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(dto.CodeUnauthorized, "Authorization header requerido"))
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(dto.CodeUnauthorized, "formato: Bearer <token>"))
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(dto.CodeUnauthorized, "token vacío"))
		}
		userID, name, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(dto.CodeUnauthorized, "token inválido o expirado"))
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalUserName, name)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequireStaff corta con 403 si el usuario autenticado no es admin ni staff.
// Para las rutas de administración generales.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !entity.IsStaffRole(GetRole(c)) {
			return c.Status(fiber.StatusForbidden).JSON(dto.Fail(dto.CodeForbidden, "requiere rol de administración"))
		}
		return c.Next()
	}
}

// RequireStaffSession corta con 401 si el usuario no es admin ni staff: el
// cliente trata la respuesta como sesión inválida y vuelve al login. Se usa
// en el panel de mensajes, cuya sesión de cliente no es válida ahí.
func RequireStaffSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !entity.IsStaffRole(GetRole(c)) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(dto.CodeUnauthorized, "sesión no válida para el panel de mensajes"))
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetUserName devuelve el nombre del usuario del contexto.
func GetUserName(c *fiber.Ctx) string {
	v := c.Locals(LocalUserName)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	v := c.Locals(LocalRole)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
