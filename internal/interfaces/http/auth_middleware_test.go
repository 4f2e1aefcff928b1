package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/cafeto/storefront-api/internal/interfaces/http"
	pkgjwt "github.com/cafeto/storefront-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testUserName  = "Ana Prueba"
	testIssuer    = "storefront-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con las tres capas de
// acceso del API: ruta protegida (solo JWT), ruta de administración
// (RequireStaff) y panel de mensajes (RequireStaffSession).
func buildTestApp() *fiber.App {
	app := fiber.New()
	ok := func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c)})
	}
	app.Get("/protected", apphttp.AuthMiddleware(testJWTSecret), ok)
	app.Get("/admin", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequireStaff(), ok)
	app.Get("/admin-messages", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequireStaffSession(), ok)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUserName, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET a path y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: Sin header Authorization → HTTP 401.
func TestAuthMiddleware_SinHeaderRetorna401(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/protected", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"respCode":"401"`,
		"la respuesta de error viaja en el envelope estándar")
}

// Caso 2: Header sin el prefijo Bearer → HTTP 401.
func TestAuthMiddleware_FormatoInvalidoRetorna401(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/protected", "Token abc.def.ghi")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 3: Token malformado o con firma ajena → HTTP 401.
func TestAuthMiddleware_TokenInvalidoRetorna401(t *testing.T) {
	app := buildTestApp()

	resp := doRequest(t, app, "/protected", "Bearer token.invalido.aqui")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	ajeno, err := pkgjwt.Generate("otro-secret-distinto", testUserID, testUserName, "admin", testIssuer, testExpMin)
	require.NoError(t, err)
	resp2 := doRequest(t, app, "/protected", "Bearer "+ajeno)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode,
		"un token firmado con otro secret no debe pasar")
}

// Caso 4: Token válido → pasa y los claims quedan en locals.
func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   apphttp.GetUserID(c),
			"user_name": apphttp.GetUserName(c),
			"role":      apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, "customer"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testUserName, body["user_name"])
	assert.Equal(t, "customer", body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireStaff — rutas de administración generales
// ──────────────────────────────────────────────────────────────────────────────

// Caso 5: admin y staff acceden a rutas de administración → HTTP 200.
func TestRequireStaff_PersonalAccede(t *testing.T) {
	app := buildTestApp()
	for _, role := range []string{"admin", "staff"} {
		resp := doRequest(t, app, "/admin", tokenForRole(t, role))
		assert.Equal(t, http.StatusOK, resp.StatusCode,
			"%s debe poder acceder a las rutas de administración", role)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, role, body["role"])
		resp.Body.Close()
	}
}

// Caso 6: cliente bloqueado en administración → HTTP 403 (no es un problema de sesión).
func TestRequireStaff_ClienteBloqueadoCon403(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/admin", tokenForRole(t, "customer"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"customer no debe poder acceder a rutas de administración")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"respCode":"403"`)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireStaffSession — panel de mensajes
// ──────────────────────────────────────────────────────────────────────────────

// Caso 7: en el panel de mensajes el cliente recibe 401, no 403: el frontend
// trata la respuesta como sesión inválida y redirige al login del panel.
func TestRequireStaffSession_ClienteRecibe401(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/admin-messages", tokenForRole(t, "customer"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"la sesión de cliente no es válida en el panel de mensajes")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"respCode":"401"`)
}

// Caso 8: el personal sí entra al panel de mensajes.
func TestRequireStaffSession_PersonalAccede(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/admin-messages", tokenForRole(t, "staff"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg — integridad de generate/parse
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUserName, "staff", testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, name, role, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testUserID, userID)
	assert.Equal(t, testUserName, name)
	assert.Equal(t, "staff", role)
}

func TestJWT_TokenExpiradoRetornaError(t *testing.T) {
	// Token con expiración -1 minuto (ya expirado)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUserName, "admin", testIssuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}
