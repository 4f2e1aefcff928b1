package repository

import "github.com/cafeto/storefront-api/internal/domain/entity"

// CartRepository puerto de persistencia para las líneas de carrito de un usuario.
// ListByUser devuelve las líneas con Price/Discount/Stock refrescados desde la
// variante (snapshot desnormalizado de la última lectura).
type CartRepository interface {
	ListByUser(userID string) ([]*entity.CartLine, error)
	GetByID(id string) (*entity.CartLine, error)
	GetByUserAndVariant(userID, variantID string) (*entity.CartLine, error)
	Create(line *entity.CartLine) error
	UpdateQuantity(id string, quantity int) error
	UpdateSelected(id string, selected bool) error
	UpdateSelectedByUser(userID string, selected bool, maxStockOnly bool) error
	Delete(id string) error
	DeleteSelectedByUser(userID string) error
}
