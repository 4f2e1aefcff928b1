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

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo implementación del puerto CartRepository sobre PostgreSQL.
// Price, Discount y Stock no se almacenan en cart_lines: cada lectura los
// trae desde product_variants, así el snapshot siempre refleja el catálogo vigente.
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador de persistencia para el carrito.
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

const cartLineSelect = `
	SELECT cl.id, cl.user_id, cl.variant_id, cl.quantity, cl.selected,
	       pv.price, pv.discount, pv.stock, cl.created_at, cl.updated_at
	FROM cart_lines cl
	JOIN product_variants pv ON pv.id = cl.variant_id`

func scanCartLine(row pgx.Row) (*entity.CartLine, error) {
	var l entity.CartLine
	err := row.Scan(&l.ID, &l.UserID, &l.VariantID, &l.Quantity, &l.Selected,
		&l.Price, &l.Discount, &l.Stock, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListByUser devuelve las líneas del usuario en orden de creación,
// con precio/descuento/stock frescos de la variante.
func (r *CartRepo) ListByUser(userID string) ([]*entity.CartLine, error) {
	rows, err := r.q.Query(context.Background(),
		cartLineSelect+` WHERE cl.user_id = $1 ORDER BY cl.created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.CartLine
	for rows.Next() {
		l, err := scanCartLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// GetByID obtiene una línea por ID.
func (r *CartRepo) GetByID(id string) (*entity.CartLine, error) {
	l, err := scanCartLine(r.q.QueryRow(context.Background(),
		cartLineSelect+` WHERE cl.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart line: %w", err)
	}
	return l, nil
}

// GetByUserAndVariant obtiene la línea del usuario para una variante, o nil.
func (r *CartRepo) GetByUserAndVariant(userID, variantID string) (*entity.CartLine, error) {
	l, err := scanCartLine(r.q.QueryRow(context.Background(),
		cartLineSelect+` WHERE cl.user_id = $1 AND cl.variant_id = $2`, userID, variantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart line by variant: %w", err)
	}
	return l, nil
}

// Create persiste una línea nueva.
func (r *CartRepo) Create(line *entity.CartLine) error {
	query := `INSERT INTO cart_lines (id, user_id, variant_id, quantity, selected, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.UserID, line.VariantID, line.Quantity, line.Selected, line.CreatedAt, line.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert cart line: %w", err)
	}
	return nil
}

// UpdateQuantity fija la cantidad de una línea.
func (r *CartRepo) UpdateQuantity(id string, quantity int) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE cart_lines SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update cart quantity: %w", err)
	}
	return nil
}

// UpdateSelected fija la bandera de selección de una línea.
func (r *CartRepo) UpdateSelected(id string, selected bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE cart_lines SET selected = $2, updated_at = now() WHERE id = $1`, id, selected)
	if err != nil {
		return fmt.Errorf("update cart selected: %w", err)
	}
	return nil
}

// UpdateSelectedByUser fija la selección de todas las líneas del usuario.
// Con maxStockOnly solo toca las líneas cuya cantidad cabe en el stock vigente,
// de modo que un "seleccionar todo" nunca marca líneas incomprables.
func (r *CartRepo) UpdateSelectedByUser(userID string, selected bool, maxStockOnly bool) error {
	query := `UPDATE cart_lines SET selected = $2, updated_at = now() WHERE user_id = $1`
	if maxStockOnly {
		query += ` AND quantity <= (SELECT stock FROM product_variants WHERE id = variant_id)`
	}
	_, err := r.q.Exec(context.Background(), query, userID, selected)
	if err != nil {
		return fmt.Errorf("update cart selected by user: %w", err)
	}
	return nil
}

// Delete elimina una línea.
func (r *CartRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM cart_lines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	return nil
}

// DeleteSelectedByUser elimina las líneas seleccionadas del usuario
// (limpieza tras confirmar un pedido).
func (r *CartRepo) DeleteSelectedByUser(userID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM cart_lines WHERE user_id = $1 AND selected = true`, userID)
	if err != nil {
		return fmt.Errorf("delete selected cart lines: %w", err)
	}
	return nil
}
