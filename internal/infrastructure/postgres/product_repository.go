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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
// Las variantes se cargan junto con el producto: son la unidad comprable.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto con sus variantes iniciales.
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `INSERT INTO products (id, brand_id, category_id, name, description, image_url, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.BrandID, p.CategoryID, p.Name, p.Description, p.ImageURL, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert product: %w", err)
	}
	for i := range p.Variants {
		if err := r.UpsertVariant(&p.Variants[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene un producto por ID, incluyendo sus variantes.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(),
		`SELECT id, brand_id, category_id, name, description, image_url, created_at, updated_at
		 FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.BrandID, &p.CategoryID, &p.Name, &p.Description, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	variants, err := r.variantsFor([]string{p.ID})
	if err != nil {
		return nil, err
	}
	p.Variants = variants[p.ID]
	return &p, nil
}

// Update actualiza los campos editables del producto (no toca variantes).
func (r *ProductRepo) Update(p *entity.Product) error {
	query := `UPDATE products SET brand_id = $2, category_id = $3, name = $4, description = $5,
	          image_url = $6, updated_at = $7 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.BrandID, p.CategoryID, p.Name, p.Description, p.ImageURL, p.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// List lista productos con sus variantes, paginado, con total.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, int, error) {
	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	rows, err := r.q.Query(context.Background(),
		`SELECT id, brand_id, category_id, name, description, image_url, created_at, updated_at
		 FROM products ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	var ids []string
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.BrandID, &p.CategoryID, &p.Name, &p.Description, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(ids) > 0 {
		variants, err := r.variantsFor(ids)
		if err != nil {
			return nil, 0, err
		}
		for _, p := range list {
			p.Variants = variants[p.ID]
		}
	}
	return list, total, nil
}

// Delete elimina un producto; las variantes caen por ON DELETE CASCADE.
// Con pedidos que lo referencian devuelve ErrConflict.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// GetVariant obtiene una variante por ID.
func (r *ProductRepo) GetVariant(variantID string) (*entity.ProductVariant, error) {
	var v entity.ProductVariant
	err := r.q.QueryRow(context.Background(),
		`SELECT id, product_id, size, price, discount, stock FROM product_variants WHERE id = $1`, variantID,
	).Scan(&v.ID, &v.ProductID, &v.Size, &v.Price, &v.Discount, &v.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return &v, nil
}

// UpsertVariant inserta o actualiza una variante (clave: id).
func (r *ProductRepo) UpsertVariant(v *entity.ProductVariant) error {
	query := `INSERT INTO product_variants (id, product_id, size, price, discount, stock)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (id) DO UPDATE SET size = $3, price = $4, discount = $5, stock = $6`
	_, err := r.q.Exec(context.Background(), query, v.ID, v.ProductID, v.Size, v.Price, v.Discount, v.Stock)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("upsert variant: %w", err)
	}
	return nil
}

// DeleteVariant elimina una variante.
func (r *ProductRepo) DeleteVariant(variantID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM product_variants WHERE id = $1`, variantID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete variant: %w", err)
	}
	return nil
}

// variantsFor carga las variantes de un conjunto de productos en un solo query.
func (r *ProductRepo) variantsFor(productIDs []string) (map[string][]entity.ProductVariant, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, product_id, size, price, discount, stock FROM product_variants
		 WHERE product_id = ANY($1) ORDER BY price`, productIDs)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.ProductVariant, len(productIDs))
	for rows.Next() {
		var v entity.ProductVariant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Size, &v.Price, &v.Discount, &v.Stock); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		out[v.ProductID] = append(out[v.ProductID], v)
	}
	return out, rows.Err()
}
