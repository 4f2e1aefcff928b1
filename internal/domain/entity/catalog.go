package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Brand marca de café (admin CRUD).
type Brand struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category categoría de producto (admin CRUD).
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Product producto del catálogo. El precio vive en las variantes.
type Product struct {
	ID          string
	BrandID     string
	CategoryID  string
	Name        string
	Description string
	ImageURL    string
	Variants    []ProductVariant
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductVariant unidad comprable (tamaño concreto de un producto).
// Es lo que referencia una línea de carrito y una línea de pedido.
type ProductVariant struct {
	ID        string
	ProductID string
	Size      string          // S, M, L
	Price     decimal.Decimal // precio de venta unitario
	Discount  decimal.Decimal // descuento unitario aplicado al precio
	Stock     int
}
