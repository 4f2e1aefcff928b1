package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain"
	"github.com/cafeto/storefront-api/internal/domain/entity"
	"github.com/cafeto/storefront-api/internal/domain/repository"
)

// BrandUseCase CRUD de marcas.
type BrandUseCase struct {
	repo repository.BrandRepository
}

// NewBrandUseCase construye el caso de uso.
func NewBrandUseCase(repo repository.BrandRepository) *BrandUseCase {
	return &BrandUseCase{repo: repo}
}

// Create crea una marca.
func (uc *BrandUseCase) Create(in dto.CreateBrandRequest) (*dto.BrandResponse, error) {
	now := time.Now()
	b := &entity.Brand{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(b); err != nil {
		return nil, err
	}
	return toBrandResponse(b), nil
}

// GetByID obtiene una marca por ID.
func (uc *BrandUseCase) GetByID(id string) (*dto.BrandResponse, error) {
	b, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	return toBrandResponse(b), nil
}

// Update actualiza una marca.
func (uc *BrandUseCase) Update(id string, in dto.UpdateBrandRequest) (*dto.BrandResponse, error) {
	b, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	if in.Name != nil {
		b.Name = *in.Name
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	b.UpdatedAt = time.Now()
	if err := uc.repo.Update(b); err != nil {
		return nil, err
	}
	return toBrandResponse(b), nil
}

// List lista marcas con paginación.
func (uc *BrandUseCase) List(limit, offset int) (*dto.BrandListResponse, error) {
	brands, total, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.BrandListResponse{
		Items: make([]dto.BrandResponse, 0, len(brands)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, b := range brands {
		out.Items = append(out.Items, *toBrandResponse(b))
	}
	return out, nil
}

// Delete elimina una marca. Las referencias desde productos la bloquean (FK).
func (uc *BrandUseCase) Delete(id string) error {
	err := uc.repo.Delete(id)
	if err == domain.ErrConflict {
		return domain.ErrConflict
	}
	return err
}

func toBrandResponse(b *entity.Brand) *dto.BrandResponse {
	return &dto.BrandResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
