package payment_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain"
	"github.com/cafeto/storefront-api/internal/infrastructure/payment"
	"github.com/cafeto/storefront-api/pkg/config"
)

// ─────────────────────────── helpers ───────────────────────────

func gatewayFor(t *testing.T, handler http.HandlerFunc) *payment.GatewayClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return payment.NewGatewayClient(config.PaymentConfig{
		GatewayURL: srv.URL,
		ReturnURL:  "https://tienda.example.com/checkout/retorno",
	})
}

func testIntent() dto.OrderIntent {
	return dto.OrderIntent{UserID: "user-1", Total: decimal.NewFromInt(210000)}
}

// ─────────────────────────── tests ───────────────────────────

func TestRequestRedirect_ExitoDevuelvePayURL(t *testing.T) {
	var got map[string]any
	client := gatewayFor(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{
			"respCode": "000",
			"respDesc": "éxito",
			"data":     map[string]any{"pay_url": "https://pasarela.example.com/pago/abc"},
		})
	})

	payURL, err := client.RequestRedirect(testIntent())
	require.NoError(t, err)
	assert.Equal(t, "https://pasarela.example.com/pago/abc", payURL)
	assert.Equal(t, "user-1", got["reference"])
	assert.Equal(t, "https://tienda.example.com/checkout/retorno", got["return_url"])
}

func TestRequestRedirect_RechazoDeLaPasarela(t *testing.T) {
	client := gatewayFor(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"respCode": "05", "respDesc": "fondos insuficientes"})
	})

	_, err := client.RequestRedirect(testIntent())
	assert.ErrorIs(t, err, domain.ErrGatewayRejected,
		"un respCode distinto de éxito debe señalar el rechazo de la pasarela")
}

func TestRequestRedirect_ExitoSinPayURLEsRechazo(t *testing.T) {
	client := gatewayFor(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"respCode": "000", "respDesc": "éxito", "data": map[string]any{}})
	})

	_, err := client.RequestRedirect(testIntent())
	assert.ErrorIs(t, err, domain.ErrGatewayRejected)
}

func TestRequestRedirect_StatusHTTPNo200EsErrorDeTransporte(t *testing.T) {
	client := gatewayFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.RequestRedirect(testIntent())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrGatewayRejected,
		"un fallo de transporte no es un rechazo de negocio")
}
