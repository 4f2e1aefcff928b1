package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutSummaryResponse totales derivados de las líneas seleccionadas.
// Se recalcula en cada consulta; nunca se persiste.
type CheckoutSummaryResponse struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Total       decimal.Decimal `json:"total"`
	CanSubmit   bool            `json:"can_submit"`
}

// SubmitCheckoutRequest entrada del envío de checkout.
type SubmitCheckoutRequest struct {
	AddressID     string `json:"address_id" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cod online"`
}

// OrderIntentLine línea del intent: variante, cantidad y precios unitarios.
type OrderIntentLine struct {
	VariantID string          `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UnitDisc  decimal.Decimal `json:"unit_disc"`
}

// OrderIntent payload transitorio del checkout; se escribe en staging (Redis, TTL)
// y se sobreescribe en cada checkout.
type OrderIntent struct {
	UserID        string            `json:"user_id"`
	AddressID     string            `json:"address_id"`
	PaymentMethod string            `json:"payment_method"`
	Lines         []OrderIntentLine `json:"lines"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Discount      decimal.Decimal   `json:"discount"`
	ShippingFee   decimal.Decimal   `json:"shipping_fee"`
	Total         decimal.Decimal   `json:"total"`
	CreatedAt     time.Time         `json:"created_at"`
}

// CheckoutResultResponse salida del checkout: el estado al que navega el cliente
// y, para pago online, la URL de redirección.
type CheckoutResultResponse struct {
	Status  string `json:"status"` // success | failed | redirect
	OrderID string `json:"order_id,omitempty"`
	PayURL  string `json:"pay_url,omitempty"`
}
