package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cafeto/storefront-api/internal/domain"
	"github.com/cafeto/storefront-api/internal/domain/entity"
	"github.com/cafeto/storefront-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
// Necesita el pool (no solo Querier): Create abre su propia transacción
// para que pedido e items entren juntos o no entren.
type OrderRepo struct {
	pool *pgxpool.Pool
}

// NewOrderRepository construye el adaptador de persistencia para pedidos.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// Create persiste el pedido y sus items en una transacción.
func (r *OrderRepo) Create(o *entity.Order) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO orders (id, user_id, address_id, recipient, phone, street, city,
	          payment_method, status, subtotal, discount, shipping_fee, total, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = tx.Exec(ctx, query,
		o.ID, o.UserID, o.AddressID, o.Recipient, o.Phone, o.Street, o.City,
		o.PaymentMethod, o.Status, o.Subtotal, o.Discount, o.ShippingFee, o.Total, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `INSERT INTO order_items (id, order_id, variant_id, quantity, unit_price, unit_disc)
	              VALUES ($1, $2, $3, $4, $5, $6)`
	for _, it := range o.Items {
		if _, err := tx.Exec(ctx, itemQuery, it.ID, o.ID, it.VariantID, it.Quantity, it.UnitPrice, it.UnitDisc); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	// Descontar stock de las variantes compradas dentro de la misma transacción.
	// Si el stock ya no alcanza, el UPDATE guardado no toca filas: el rollback
	// diferido deshace el pedido completo en lugar de sobrevender.
	for _, it := range o.Items {
		tag, err := tx.Exec(ctx,
			`UPDATE product_variants SET stock = stock - $2 WHERE id = $1 AND stock >= $2`,
			it.VariantID, it.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrOutOfStock
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido con sus items.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	var o entity.Order
	err := r.pool.QueryRow(context.Background(),
		`SELECT id, user_id, address_id, recipient, phone, street, city, payment_method, status,
		        subtotal, discount, shipping_fee, total, created_at, updated_at
		 FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.UserID, &o.AddressID, &o.Recipient, &o.Phone, &o.Street, &o.City,
		&o.PaymentMethod, &o.Status, &o.Subtotal, &o.Discount, &o.ShippingFee, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := r.itemsFor(o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// ListByUser lista los pedidos del usuario, más reciente primero, con total.
func (r *OrderRepo) ListByUser(userID string, limit, offset int) ([]*entity.Order, int, error) {
	var total int
	if err := r.pool.QueryRow(context.Background(),
		`SELECT count(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	return r.listWhere(`WHERE user_id = $3 ORDER BY created_at DESC LIMIT $1 OFFSET $2`, total, limit, offset, userID)
}

// List lista todos los pedidos (panel admin), más reciente primero, con total.
func (r *OrderRepo) List(limit, offset int) ([]*entity.Order, int, error) {
	var total int
	if err := r.pool.QueryRow(context.Background(), `SELECT count(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	return r.listWhere(`ORDER BY created_at DESC LIMIT $1 OFFSET $2`, total, limit, offset)
}

// UpdateStatus cambia el estado de un pedido.
func (r *OrderRepo) UpdateStatus(id, status string) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) listWhere(clause string, total, limit, offset int, extra ...any) ([]*entity.Order, int, error) {
	args := append([]any{limit, offset}, extra...)
	rows, err := r.pool.Query(context.Background(),
		`SELECT id, user_id, address_id, recipient, phone, street, city, payment_method, status,
		        subtotal, discount, shipping_fee, total, created_at, updated_at
		 FROM orders `+clause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.AddressID, &o.Recipient, &o.Phone, &o.Street, &o.City,
			&o.PaymentMethod, &o.Status, &o.Subtotal, &o.Discount, &o.ShippingFee, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, o := range list {
		items, err := r.itemsFor(o.ID)
		if err != nil {
			return nil, 0, err
		}
		o.Items = items
	}
	return list, total, nil
}

func (r *OrderRepo) itemsFor(orderID string) ([]entity.OrderItem, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT id, order_id, variant_id, quantity, unit_price, unit_disc
		 FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.VariantID, &it.Quantity, &it.UnitPrice, &it.UnitDisc); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
