package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/cafeto/storefront-api/internal/application/dto"
	"github.com/cafeto/storefront-api/internal/domain"
	"github.com/cafeto/storefront-api/internal/domain/entity"
	"github.com/cafeto/storefront-api/internal/domain/repository"
)

// AddressUseCase direcciones de envío del cliente.
type AddressUseCase struct {
	repo repository.AddressRepository
}

// NewAddressUseCase construye el caso de uso.
func NewAddressUseCase(repo repository.AddressRepository) *AddressUseCase {
	return &AddressUseCase{repo: repo}
}

// Create registra una dirección del usuario.
func (uc *AddressUseCase) Create(userID string, in dto.CreateAddressRequest) (*dto.AddressResponse, error) {
	now := time.Now()
	a := &entity.Address{
		ID:        uuid.New().String(),
		UserID:    userID,
		Recipient: in.Recipient,
		Phone:     in.Phone,
		Street:    in.Street,
		City:      in.City,
		IsDefault: in.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(a); err != nil {
		return nil, err
	}
	return toAddressResponse(a), nil
}

// ListByUser direcciones del usuario.
func (uc *AddressUseCase) ListByUser(userID string) ([]dto.AddressResponse, error) {
	addrs, err := uc.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AddressResponse, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, *toAddressResponse(a))
	}
	return out, nil
}

// Delete elimina una dirección propia.
func (uc *AddressUseCase) Delete(userID, id string) error {
	a, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if a == nil || a.UserID != userID {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toAddressResponse(a *entity.Address) *dto.AddressResponse {
	return &dto.AddressResponse{
		ID:        a.ID,
		Recipient: a.Recipient,
		Phone:     a.Phone,
		Street:    a.Street,
		City:      a.City,
		IsDefault: a.IsDefault,
	}
}
