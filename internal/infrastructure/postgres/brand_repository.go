package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cafeto/storefront-api/internal/domain"
	"github.com/cafeto/storefront-api/internal/domain/entity"
	"github.com/cafeto/storefront-api/internal/domain/repository"
)

var _ repository.BrandRepository = (*BrandRepo)(nil)

// BrandRepo implementación del puerto BrandRepository sobre PostgreSQL.
type BrandRepo struct {
	q Querier
}

// NewBrandRepository construye el adaptador de persistencia para marcas.
func NewBrandRepository(q Querier) *BrandRepo {
	return &BrandRepo{q: q}
}

// Create persiste una nueva marca.
func (r *BrandRepo) Create(b *entity.Brand) error {
	query := `INSERT INTO brands (id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query, b.ID, b.Name, b.Description, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert brand: %w", err)
	}
	return nil
}

// GetByID obtiene una marca por ID.
func (r *BrandRepo) GetByID(id string) (*entity.Brand, error) {
	var b entity.Brand
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, description, created_at, updated_at FROM brands WHERE id = $1`, id,
	).Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get brand: %w", err)
	}
	return &b, nil
}

// Update actualiza una marca.
func (r *BrandRepo) Update(b *entity.Brand) error {
	query := `UPDATE brands SET name = $2, description = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, b.ID, b.Name, b.Description, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update brand: %w", err)
	}
	return nil
}

// List lista marcas con paginación y total.
func (r *BrandRepo) List(limit, offset int) ([]*entity.Brand, int, error) {
	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM brands`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count brands: %w", err)
	}
	rows, err := r.q.Query(context.Background(),
		`SELECT id, name, description, created_at, updated_at FROM brands ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()
	var list []*entity.Brand
	for rows.Next() {
		var b entity.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan brand: %w", err)
		}
		list = append(list, &b)
	}
	return list, total, rows.Err()
}

// Delete elimina una marca; con productos que la referencian devuelve ErrConflict.
func (r *BrandRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete brand: %w", err)
	}
	return nil
}
