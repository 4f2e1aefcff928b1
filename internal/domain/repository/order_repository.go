package repository

import "github.com/cafeto/storefront-api/internal/domain/entity"

// AddressRepository puerto de persistencia para direcciones de envío.
type AddressRepository interface {
	Create(a *entity.Address) error
	GetByID(id string) (*entity.Address, error)
	ListByUser(userID string) ([]*entity.Address, error)
	Update(a *entity.Address) error
	Delete(id string) error
}

// OrderRepository puerto de persistencia para pedidos.
type OrderRepository interface {
	Create(o *entity.Order) error // pedido + items en una transacción
	GetByID(id string) (*entity.Order, error)
	ListByUser(userID string, limit, offset int) ([]*entity.Order, int, error)
	List(limit, offset int) ([]*entity.Order, int, error)
	UpdateStatus(id, status string) error
}
