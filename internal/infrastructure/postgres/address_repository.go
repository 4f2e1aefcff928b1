package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cafeto/storefront-api/internal/domain/entity"
	"github.com/cafeto/storefront-api/internal/domain/repository"
)

var _ repository.AddressRepository = (*AddressRepo)(nil)

// AddressRepo implementación del puerto AddressRepository sobre PostgreSQL.
type AddressRepo struct {
	q Querier
}

// NewAddressRepository construye el adaptador de persistencia para direcciones.
func NewAddressRepository(q Querier) *AddressRepo {
	return &AddressRepo{q: q}
}

// Create persiste una dirección; si llega como predeterminada desmarca las demás.
func (r *AddressRepo) Create(a *entity.Address) error {
	if a.IsDefault {
		if err := r.clearDefault(a.UserID); err != nil {
			return err
		}
	}
	query := `INSERT INTO addresses (id, user_id, recipient, phone, street, city, is_default, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.UserID, a.Recipient, a.Phone, a.Street, a.City, a.IsDefault, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

// GetByID obtiene una dirección por ID.
func (r *AddressRepo) GetByID(id string) (*entity.Address, error) {
	var a entity.Address
	err := r.q.QueryRow(context.Background(),
		`SELECT id, user_id, recipient, phone, street, city, is_default, created_at, updated_at
		 FROM addresses WHERE id = $1`, id,
	).Scan(&a.ID, &a.UserID, &a.Recipient, &a.Phone, &a.Street, &a.City, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return &a, nil
}

// ListByUser lista las direcciones del usuario, la predeterminada primero.
func (r *AddressRepo) ListByUser(userID string) ([]*entity.Address, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, user_id, recipient, phone, street, city, is_default, created_at, updated_at
		 FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Address
	for rows.Next() {
		var a entity.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Recipient, &a.Phone, &a.Street, &a.City, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// Update actualiza una dirección; si pasa a predeterminada desmarca las demás.
func (r *AddressRepo) Update(a *entity.Address) error {
	if a.IsDefault {
		if err := r.clearDefault(a.UserID); err != nil {
			return err
		}
	}
	query := `UPDATE addresses SET recipient = $2, phone = $3, street = $4, city = $5,
	          is_default = $6, updated_at = $7 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.Recipient, a.Phone, a.Street, a.City, a.IsDefault, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	return nil
}

// Delete elimina una dirección. Los pedidos no se ven afectados: llevan
// su propio snapshot de la dirección.
func (r *AddressRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	return nil
}

func (r *AddressRepo) clearDefault(userID string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE addresses SET is_default = false WHERE user_id = $1 AND is_default = true`, userID)
	if err != nil {
		return fmt.Errorf("clear default address: %w", err)
	}
	return nil
}
