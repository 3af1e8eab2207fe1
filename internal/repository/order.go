package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-order-api/internal/domain/order"
	"bookstore-order-api/internal/domain/product"
)

const (
	getOrderViewSQL = `SELECT o.id, o.price_without_discount, o.discounted_price, o.campaign_id, o.user_id,
			u.username, c.description
		FROM orders o
		JOIN users u ON u.id = o.user_id
		LEFT JOIN campaigns c ON c.id = o.campaign_id
		WHERE o.id = $1`

	listOrderViewsSQL = `SELECT o.id, o.price_without_discount, o.discounted_price, o.campaign_id, o.user_id,
			u.username, c.description
		FROM orders o
		JOIN users u ON u.id = o.user_id
		LEFT JOIN campaigns c ON c.id = o.campaign_id
		ORDER BY o.id`

	orderProductsSQL = `SELECT op.order_id, p.id, p.title, p.category_id, p.author, p.list_price, p.stock_quantity, c.title
		FROM orders_products op
		JOIN products p ON p.id = op.product_id
		JOIN categories c ON c.id = p.category_id
		WHERE op.order_id = ANY($1)
		ORDER BY op.order_id, p.id`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`
)

var _ order.Views = (*OrderRepository)(nil)

// OrderRepository reads hydrated order views from PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// GetView returns one order joined with its user, winning campaign
// description, and line products.
func (r *OrderRepository) GetView(ctx context.Context, id int64) (*order.View, error) {
	rows, err := r.pool.Query(ctx, getOrderViewSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}
	v, err := pgx.CollectExactlyOneRow(rows, scanOrderView)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	lines, err := r.orderProducts(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	v.Products = lines[id]
	return &v, nil
}

// ListViews returns every order, hydrated. Line products are fetched in one
// grouped query rather than per order.
func (r *OrderRepository) ListViews(ctx context.Context) ([]order.View, error) {
	rows, err := r.pool.Query(ctx, listOrderViewsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	views, err := pgx.CollectRows(rows, scanOrderView)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	if len(views) == 0 {
		return views, nil
	}

	ids := make([]int64, len(views))
	for i := range views {
		ids[i] = views[i].ID
	}
	lines, err := r.orderProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].Products = lines[views[i].ID]
	}
	return views, nil
}

// Delete removes an order; its lines go with it via ON DELETE CASCADE.
// Returns order.ErrNotFound when the id does not exist.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return fmt.Errorf("deleting order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) orderProducts(ctx context.Context, orderIDs []int64) (map[int64][]product.WithCategory, error) {
	rows, err := r.pool.Query(ctx, orderProductsSQL, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("loading order products: %w", err)
	}
	defer rows.Close()

	byOrder := make(map[int64][]product.WithCategory, len(orderIDs))
	for rows.Next() {
		var (
			orderID int64
			p       product.WithCategory
		)
		err := rows.Scan(
			&orderID, &p.ID, &p.Title, &p.CategoryID, &p.Author,
			&p.ListPrice, &p.StockQuantity, &p.CategoryTitle,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order product: %w", err)
		}
		byOrder[orderID] = append(byOrder[orderID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading order products: %w", err)
	}
	return byOrder, nil
}

func scanOrderView(row pgx.CollectableRow) (order.View, error) {
	var v order.View
	err := row.Scan(
		&v.ID, &v.PriceWithoutDiscount, &v.DiscountedPrice, &v.CampaignID,
		&v.UserID, &v.Username, &v.CampaignDescription,
	)
	return v, err
}
