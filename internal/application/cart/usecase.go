package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain"
	"github.com/cafeto/storefront-api/internal/domain/entity"
	"github.com/cafeto/storefront-api/internal/domain/repository"
)

// CartUseCase estado del carrito: líneas, cantidades y flags de selección.
// La cantidad siempre queda en [1, stock]; la reconciliación deselecciona
// cualquier línea cuya cantidad supere el stock vigente.
type CartUseCase struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartUseCase {
	return &CartUseCase{cartRepo: cartRepo, productRepo: productRepo}
}

// GetCart lista el carrito con snapshots refrescados y ejecuta la pasada de
// reconciliación: toda línea seleccionada cuya cantidad supere el stock pierde
// la selección (y el cambio se persiste).
func (uc *CartUseCase) GetCart(userID string) (*dto.CartResponse, error) {
	lines, err := uc.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		if l.Selected && !l.Selectable() {
			if err := uc.cartRepo.UpdateSelected(l.ID, false); err != nil {
				return nil, err
			}
			l.Selected = false
		}
	}
	return toCartResponse(lines), nil
}

// AddItem añade una variante al carrito. Si ya existe una línea para la variante,
// suma cantidades; el resultado siempre se recorta a [1, stock].
func (uc *CartUseCase) AddItem(userID string, in dto.AddCartItemRequest) (*dto.CartResponse, error) {
	if in.Quantity < 1 {
		return nil, domain.ErrQuantityBelowMin
	}
	variant, err := uc.productRepo.GetVariant(in.VariantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, domain.ErrNotFound
	}
	if variant.Stock < 1 {
		return nil, domain.ErrOutOfStock
	}

	existing, err := uc.cartRepo.GetByUserAndVariant(userID, in.VariantID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		qty := clamp(existing.Quantity+in.Quantity, variant.Stock)
		if err := uc.cartRepo.UpdateQuantity(existing.ID, qty); err != nil {
			return nil, err
		}
		return uc.GetCart(userID)
	}

	now := time.Now()
	line := &entity.CartLine{
		ID:        uuid.New().String(),
		UserID:    userID,
		VariantID: in.VariantID,
		Quantity:  clamp(in.Quantity, variant.Stock),
		Selected:  true,
		Price:     variant.Price,
		Discount:  variant.Discount,
		Stock:     variant.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.cartRepo.Create(line); err != nil {
		return nil, err
	}
	return uc.GetCart(userID)
}

// UpdateQuantity cambia la cantidad de una línea. Por debajo de 1 se rechaza sin
// mutar la cantidad almacenada; por encima del stock se recorta al stock.
func (uc *CartUseCase) UpdateQuantity(userID, lineID string, requested int) (*dto.CartResponse, error) {
	line, err := uc.ownedLine(userID, lineID)
	if err != nil {
		return nil, err
	}
	if requested < 1 {
		return nil, domain.ErrQuantityBelowMin
	}
	qty := clamp(requested, line.Stock)
	if err := uc.cartRepo.UpdateQuantity(line.ID, qty); err != nil {
		return nil, err
	}
	return uc.GetCart(userID)
}

// UpdateSelected cambia el flag de selección de una línea. Seleccionar una línea
// cuya cantidad supera el stock se rechaza.
func (uc *CartUseCase) UpdateSelected(userID, lineID string, selected bool) (*dto.CartResponse, error) {
	line, err := uc.ownedLine(userID, lineID)
	if err != nil {
		return nil, err
	}
	if selected && !line.Selectable() {
		return nil, domain.ErrLineNotSelectable
	}
	if err := uc.cartRepo.UpdateSelected(line.ID, selected); err != nil {
		return nil, err
	}
	return uc.GetCart(userID)
}

// SelectAll selección masiva. Al seleccionar solo entran las líneas cuya
// cantidad no supera el stock; al deseleccionar se limpian todas.
func (uc *CartUseCase) SelectAll(userID string, selected bool) (*dto.CartResponse, error) {
	if err := uc.cartRepo.UpdateSelectedByUser(userID, selected, selected); err != nil {
		return nil, err
	}
	return uc.GetCart(userID)
}

// DeleteLine elimina una línea; solo desaparece del carrito cuando el
// repositorio confirma el borrado.
func (uc *CartUseCase) DeleteLine(userID, lineID string) (*dto.CartResponse, error) {
	line, err := uc.ownedLine(userID, lineID)
	if err != nil {
		return nil, err
	}
	if err := uc.cartRepo.Delete(line.ID); err != nil {
		return nil, err
	}
	return uc.GetCart(userID)
}

// SelectedLines devuelve las líneas seleccionadas tras reconciliar (para el checkout).
func (uc *CartUseCase) SelectedLines(userID string) ([]*entity.CartLine, error) {
	if _, err := uc.GetCart(userID); err != nil {
		return nil, err
	}
	lines, err := uc.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	var selected []*entity.CartLine
	for _, l := range lines {
		if l.Selected {
			selected = append(selected, l)
		}
	}
	return selected, nil
}

// ClearPurchased elimina del carrito las líneas seleccionadas tras crear el pedido.
func (uc *CartUseCase) ClearPurchased(userID string) error {
	return uc.cartRepo.DeleteSelectedByUser(userID)
}

func (uc *CartUseCase) ownedLine(userID, lineID string) (*entity.CartLine, error) {
	line, err := uc.cartRepo.GetByID(lineID)
	if err != nil {
		return nil, err
	}
	if line == nil || line.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return line, nil
}

func clamp(qty, stock int) int {
	if qty > stock {
		return stock
	}
	if qty < 1 {
		return 1
	}
	return qty
}

func toCartResponse(lines []*entity.CartLine) *dto.CartResponse {
	out := &dto.CartResponse{Items: make([]dto.CartLineResponse, 0, len(lines))}
	allSelected := true
	selectable := 0
	for _, l := range lines {
		out.Items = append(out.Items, dto.CartLineResponse{
			ID:        l.ID,
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
			Selected:  l.Selected,
			Price:     l.Price,
			Discount:  l.Discount,
			Stock:     l.Stock,
		})
		if l.Selectable() {
			selectable++
			if !l.Selected {
				allSelected = false
			}
		}
	}
	out.AllSelected = selectable > 0 && allSelected
	return out
}
