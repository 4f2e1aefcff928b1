package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine línea de carrito de un usuario. Price, Discount y Stock son una
// copia desnormalizada de la variante, refrescada en cada lectura del carrito.
// Invariante: 1 <= Quantity <= Stock; si Quantity supera el stock actual la
// línea queda deseleccionada en la reconciliación.
type CartLine struct {
	ID        string
	UserID    string
	VariantID string
	Quantity  int
	Selected  bool
	Price     decimal.Decimal
	Discount  decimal.Decimal
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Selectable indica si la línea puede participar en la selección (y por tanto
// en el checkout): su cantidad no supera el stock vigente.
func (l CartLine) Selectable() bool {
	return l.Quantity <= l.Stock
}
