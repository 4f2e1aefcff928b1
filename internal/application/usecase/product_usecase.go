package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain"
	"github.com/cafeto/storefront-api/internal/domain/entity"
	"github.com/cafeto/storefront-api/internal/domain/repository"
)

// ProductUseCase CRUD de productos y sus variantes comprables.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto con sus variantes. El descuento unitario no puede
// superar el precio.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		BrandID:     in.BrandID,
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, v := range in.Variants {
		if err := validateVariant(v); err != nil {
			return nil, err
		}
		p.Variants = append(p.Variants, entity.ProductVariant{
			ID:        uuid.New().String(),
			ProductID: p.ID,
			Size:      v.Size,
			Price:     v.Price,
			Discount:  v.Discount,
			Stock:     v.Stock,
		})
	}
	if err := uc.repo.Create(p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// GetByID obtiene un producto con sus variantes.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	return toProductResponse(p), nil
}

// Update actualiza un producto; las variantes entregadas se insertan o
// reemplazan por ID (upsert).
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	if in.BrandID != nil {
		p.BrandID = *in.BrandID
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(p); err != nil {
		return nil, err
	}
	for _, v := range in.Variants {
		if err := validateVariant(v); err != nil {
			return nil, err
		}
		variantID := v.ID
		if variantID == "" {
			variantID = uuid.New().String()
		}
		if err := uc.repo.UpsertVariant(&entity.ProductVariant{
			ID:        variantID,
			ProductID: p.ID,
			Size:      v.Size,
			Price:     v.Price,
			Discount:  v.Discount,
			Stock:     v.Stock,
		}); err != nil {
			return nil, err
		}
	}
	return uc.GetByID(id)
}

// List lista productos con paginación (con variantes).
func (uc *ProductUseCase) List(limit, offset int) (*dto.ProductListResponse, error) {
	products, total, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Items: make([]dto.ProductResponse, 0, len(products)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, p := range products {
		out.Items = append(out.Items, *toProductResponse(p))
	}
	return out, nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

// DeleteVariant elimina una variante concreta.
func (uc *ProductUseCase) DeleteVariant(variantID string) error {
	return uc.repo.DeleteVariant(variantID)
}

func validateVariant(v dto.VariantRequest) error {
	if v.Size == "" || v.Stock < 0 {
		return domain.ErrInvalidInput
	}
	if v.Price.LessThan(decimal.Zero) || v.Discount.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if v.Discount.GreaterThan(v.Price) {
		return domain.ErrInvalidInput
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	out := &dto.ProductResponse{
		ID:          p.ID,
		BrandID:     p.BrandID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Variants:    make([]dto.VariantResponse, 0, len(p.Variants)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, v := range p.Variants {
		out.Variants = append(out.Variants, dto.VariantResponse{
			ID:       v.ID,
			Size:     v.Size,
			Price:    v.Price,
			Discount: v.Discount,
			Stock:    v.Stock,
		})
	}
	return out
}
