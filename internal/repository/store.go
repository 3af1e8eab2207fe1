package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-order-api/internal/domain/order"
	"bookstore-order-api/internal/domain/product"
)

var _ order.Store = (*Store)(nil)

// Store implements order.Store: each InTx call runs on one transaction from
// the pool, and the connection is returned on every exit path.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store that uses the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// InTx begins a transaction, runs fn against it, and commits. Any error from
// fn rolls the transaction back in full.
func (s *Store) InTx(ctx context.Context, fn func(tx order.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := fn(&orderTx{tx: tx}); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(ctx), "commit")
}

type orderTx struct {
	tx pgx.Tx
}

const (
	decrementStockSQL = `UPDATE products SET stock_quantity = stock_quantity - 1
		WHERE id = ANY($1) AND stock_quantity > 0`

	countProductsSQL = `SELECT count(*) FROM products WHERE id = ANY($1)`

	productsWithCategoriesSQL = `SELECT p.id, p.title, p.category_id, p.author, p.list_price, p.stock_quantity, c.title
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = ANY($1)
		ORDER BY p.id`

	insertOrderSQL = `INSERT INTO orders (price_without_discount, discounted_price, campaign_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	insertOrderProductSQL = `INSERT INTO orders_products (order_id, product_id) VALUES ($1, $2)`
)

// DecrementStock conditionally reserves one unit per product. When fewer rows
// than requested are updated, either an id does not exist or its stock is
// exhausted; a follow-up existence count tells the two apart.
func (t *orderTx) DecrementStock(ctx context.Context, productIDs []int64) error {
	tag, err := t.tx.Exec(ctx, decrementStockSQL, productIDs)
	if err != nil {
		return errors.Wrap(err, "decrement stock")
	}
	if tag.RowsAffected() == int64(len(productIDs)) {
		return nil
	}

	var existing int64
	if err := t.tx.QueryRow(ctx, countProductsSQL, productIDs).Scan(&existing); err != nil {
		return errors.Wrap(err, "count products")
	}
	if existing < int64(len(productIDs)) {
		return product.ErrNotFound
	}
	return order.ErrInsufficientStock
}

// ProductsWithCategories loads the requested products joined with their
// category titles. Stock quantities reflect the decrement already applied in
// this transaction.
func (t *orderTx) ProductsWithCategories(ctx context.Context, productIDs []int64) ([]product.WithCategory, error) {
	rows, err := t.tx.Query(ctx, productsWithCategoriesSQL, productIDs)
	if err != nil {
		return nil, errors.Wrap(err, "load products")
	}
	return pgx.CollectRows(rows, scanProductWithCategory)
}

func (t *orderTx) InsertOrder(ctx context.Context, o *order.Order) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, insertOrderSQL,
		o.PriceWithoutDiscount, o.DiscountedPrice, o.CampaignID, o.UserID,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert order")
	}
	return id, nil
}

func (t *orderTx) InsertOrderProducts(ctx context.Context, orderID int64, productIDs []int64) error {
	b := &pgx.Batch{}
	for _, pid := range productIDs {
		b.Queue(insertOrderProductSQL, orderID, pid)
	}
	br := t.tx.SendBatch(ctx, b)
	for range productIDs {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return errors.Wrap(err, "insert order product")
		}
	}
	return errors.Wrap(br.Close(), "close batch")
}

func scanProductWithCategory(row pgx.CollectableRow) (product.WithCategory, error) {
	var p product.WithCategory
	err := row.Scan(
		&p.ID, &p.Title, &p.CategoryID, &p.Author,
		&p.ListPrice, &p.StockQuantity, &p.CategoryTitle,
	)
	return p, err
}
