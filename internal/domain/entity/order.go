package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago soportados en el checkout.
const (
	PaymentCOD    = "cod"    // contra entrega
	PaymentOnline = "online" // redirección a pasarela
)

// Estados de un pedido.
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderFailed    = "failed"
	OrderShipped   = "shipped"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// Address dirección de envío de un usuario.
type Address struct {
	ID        string
	UserID    string
	Recipient string
	Phone     string
	Street    string
	City      string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Order pedido confirmado. Los totales quedan congelados al crearlo;
// la dirección se copia como snapshot para que ediciones posteriores no lo alteren.
type Order struct {
	ID            string
	UserID        string
	AddressID     string
	Recipient     string
	Phone         string
	Street        string
	City          string
	PaymentMethod string // cod | online
	Status        string
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	ShippingFee   decimal.Decimal
	Total         decimal.Decimal
	Items         []OrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem línea de pedido: variante, cantidad y precios unitarios al momento de comprar.
type OrderItem struct {
	ID        string
	OrderID   string
	VariantID string
	Quantity  int
	UnitPrice decimal.Decimal
	UnitDisc  decimal.Decimal
}
