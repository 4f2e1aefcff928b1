package checkout

import (
	"github.com/cafeto/storefront-api/internal/domain"
	"github.com/cafeto/storefront-api/internal/domain/repository"
)

// ReceiptUseCase representación PDF de un pedido para el cliente que lo creó
// (o para el panel admin/staff).
type ReceiptUseCase struct {
	orderRepo repository.OrderRepository
	generator ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(orderRepo repository.OrderRepository, generator ReceiptGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{orderRepo: orderRepo, generator: generator}
}

// Generate devuelve el PDF del pedido. allowAny permite saltar la comprobación
// de dueño (panel admin/staff).
func (uc *ReceiptUseCase) Generate(orderID, viewerID string, allowAny bool) ([]byte, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !allowAny && order.UserID != viewerID {
		return nil, domain.ErrForbidden
	}
	return uc.generator.Generate(order)
}
