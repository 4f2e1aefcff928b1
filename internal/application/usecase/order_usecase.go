package usecase

import (
	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain"
	"github.com/cafeto/storefront-api/internal/domain/entity"
	"github.com/cafeto/storefront-api/internal/domain/repository"
)

// OrderUseCase consultas de pedidos (cliente y panel) y cambio de estado.
// La creación de pedidos vive en el checkout.
type OrderUseCase struct {
	repo repository.OrderRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(repo repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{repo: repo}
}

// GetByID obtiene un pedido. allowAny salta la comprobación de dueño (panel).
func (uc *OrderUseCase) GetByID(id, viewerID string, allowAny bool) (*dto.OrderResponse, error) {
	o, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, nil
	}
	if !allowAny && o.UserID != viewerID {
		return nil, domain.ErrForbidden
	}
	return toOrderResponse(o), nil
}

// ListByUser pedidos del propio cliente.
func (uc *OrderUseCase) ListByUser(userID string, limit, offset int) (*dto.OrderListResponse, error) {
	orders, total, err := uc.repo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toOrderList(orders, limit, offset, total), nil
}

// List todos los pedidos (panel admin/staff).
func (uc *OrderUseCase) List(limit, offset int) (*dto.OrderListResponse, error) {
	orders, total, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	return toOrderList(orders, limit, offset, total), nil
}

// UpdateStatus cambia el estado de un pedido desde el panel.
func (uc *OrderUseCase) UpdateStatus(id, status string) (*dto.OrderResponse, error) {
	o, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, nil
	}
	if err := uc.repo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	o.Status = status
	return toOrderResponse(o), nil
}

func toOrderList(orders []*entity.Order, limit, offset, total int) *dto.OrderListResponse {
	out := &dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(orders)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, o := range orders {
		out.Items = append(out.Items, *toOrderResponse(o))
	}
	return out
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	out := &dto.OrderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		Recipient:     o.Recipient,
		Phone:         o.Phone,
		Street:        o.Street,
		City:          o.City,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		Subtotal:      o.Subtotal,
		Discount:      o.Discount,
		ShippingFee:   o.ShippingFee,
		Total:         o.Total,
		Items:         make([]dto.OrderItemResponse, 0, len(o.Items)),
		CreatedAt:     o.CreatedAt,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			UnitDisc:  it.UnitDisc,
		})
	}
	return out
}
