// Package payment implementa el cliente HTTP hacia la pasarela de pago online.
package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cafeto/storefront-api/internal/application/checkout"
	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain"
	"github.com/cafeto/storefront-api/pkg/config"
)

var _ checkout.PaymentGateway = (*GatewayClient)(nil)

// GatewayClient adaptador que implementa checkout.PaymentGateway contra la
// API REST de la pasarela. La pasarela responde con el mismo envelope de la
// plataforma: cualquier respCode distinto de éxito se trata como rechazo.
type GatewayClient struct {
	gatewayURL string
	returnURL  string
	httpClient *http.Client
}

// NewGatewayClient construye el cliente de la pasarela.
func NewGatewayClient(cfg config.PaymentConfig) *GatewayClient {
	return &GatewayClient{
		gatewayURL: cfg.GatewayURL,
		returnURL:  cfg.ReturnURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type redirectRequest struct {
	Reference string          `json:"reference"`
	Amount    json.RawMessage `json:"amount"`
	ReturnURL string          `json:"return_url"`
}

type redirectResponse struct {
	RespCode string `json:"respCode"`
	RespDesc string `json:"respDesc"`
	Data     struct {
		PayURL string `json:"pay_url"`
	} `json:"data"`
}

// RequestRedirect solicita la URL de redirección de pago para un intent.
func (c *GatewayClient) RequestRedirect(intent dto.OrderIntent) (string, error) {
	amount, err := json.Marshal(intent.Total)
	if err != nil {
		return "", fmt.Errorf("pasarela: serializar monto: %w", err)
	}
	body, err := json.Marshal(redirectRequest{
		Reference: intent.UserID,
		Amount:    amount,
		ReturnURL: c.returnURL,
	})
	if err != nil {
		return "", fmt.Errorf("pasarela: serializar solicitud: %w", err)
	}

	resp, err := c.httpClient.Post(c.gatewayURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("pasarela: enviar solicitud: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("pasarela: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pasarela: status HTTP %d", resp.StatusCode)
	}

	var out redirectResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("pasarela: decodificar respuesta: %w", err)
	}
	if out.RespCode != dto.CodeSuccess {
		return "", fmt.Errorf("%w: %s %s", domain.ErrGatewayRejected, out.RespCode, out.RespDesc)
	}
	if out.Data.PayURL == "" {
		return "", fmt.Errorf("%w: respuesta sin pay_url", domain.ErrGatewayRejected)
	}
	return out.Data.PayURL, nil
}
