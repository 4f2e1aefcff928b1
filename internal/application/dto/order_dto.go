package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAddressRequest entrada para registrar una dirección de envío.
type CreateAddressRequest struct {
	Recipient string `json:"recipient" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Street    string `json:"street" validate:"required"`
	City      string `json:"city" validate:"required"`
	IsDefault bool   `json:"is_default"`
}

// AddressResponse salida de una dirección.
type AddressResponse struct {
	ID        string `json:"id"`
	Recipient string `json:"recipient"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	City      string `json:"city"`
	IsDefault bool   `json:"is_default"`
}

// UpdateOrderStatusRequest cambio de estado desde el panel admin.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid failed shipped completed cancelled"`
}

// OrderItemResponse línea de pedido.
type OrderItemResponse struct {
	VariantID string          `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UnitDisc  decimal.Decimal `json:"unit_disc"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	Recipient     string              `json:"recipient"`
	Phone         string              `json:"phone"`
	Street        string              `json:"street"`
	City          string              `json:"city"`
	PaymentMethod string              `json:"payment_method"`
	Status        string              `json:"status"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Discount      decimal.Decimal     `json:"discount"`
	ShippingFee   decimal.Decimal     `json:"shipping_fee"`
	Total         decimal.Decimal     `json:"total"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
