package dto

import "github.com/shopspring/decimal"

// AddCartItemRequest entrada para añadir una variante al carrito.
type AddCartItemRequest struct {
	VariantID string `json:"variant_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

// UpdateQuantityRequest cambio de cantidad de una línea.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateSelectedRequest toggle de selección de una línea.
type UpdateSelectedRequest struct {
	Selected bool `json:"selected"`
}

// SelectAllRequest selección masiva; con Selected=true solo entran las líneas
// cuya cantidad no supera el stock.
type SelectAllRequest struct {
	Selected bool `json:"selected"`
}

// CartLineResponse salida de una línea de carrito con snapshot de la variante.
type CartLineResponse struct {
	ID        string          `json:"id"`
	VariantID string          `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	Selected  bool            `json:"selected"`
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
	Stock     int             `json:"stock"`
}

// CartResponse carrito completo de un usuario.
type CartResponse struct {
	Items       []CartLineResponse `json:"items"`
	AllSelected bool               `json:"all_selected"` // true si toda línea seleccionable está seleccionada
}
