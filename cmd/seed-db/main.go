// Command seed-db loads a small fixture data set so the API can be exercised
// locally: a few users, book categories, books with stock, and discount
// campaigns.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"bookstore-order-api/internal/repository"
)

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedUsers(ctx, pool); err != nil {
		return errors.Wrap(err, "seed users")
	}
	if err := seedBooks(ctx, pool); err != nil {
		return errors.Wrap(err, "seed books")
	}
	if err := seedCampaigns(ctx, pool); err != nil {
		return errors.Wrap(err, "seed campaigns")
	}

	return nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool) error {
	users := []string{"alice", "bob", "carol"}

	slog.Info("upserting users", slog.Int("count", len(users)))

	for _, username := range users {
		if _, err := pool.Exec(ctx, `
			INSERT INTO users (username) VALUES ($1)
			ON CONFLICT (username) DO NOTHING`,
			username,
		); err != nil {
			return errors.Wrapf(err, "upsert user %s", username)
		}
	}
	return nil
}

type bookSeed struct {
	Title         string
	Category      string
	Author        string
	ListPrice     decimal.Decimal
	StockQuantity int
}

func seedBooks(ctx context.Context, pool *pgxpool.Pool) error {
	books := []bookSeed{
		{"The Go Programming Language", "Programming", "Alan Donovan", decimal.RequireFromString("42.500"), 12},
		{"Designing Data-Intensive Applications", "Programming", "Martin Kleppmann", decimal.RequireFromString("54.990"), 8},
		{"The Pragmatic Programmer", "Programming", "Andrew Hunt", decimal.RequireFromString("39.950"), 20},
		{"Dune", "Science Fiction", "Frank Herbert", decimal.RequireFromString("12.990"), 30},
		{"Foundation", "Science Fiction", "Isaac Asimov", decimal.RequireFromString("10.500"), 25},
		{"Hyperion", "Science Fiction", "Dan Simmons", decimal.RequireFromString("11.250"), 15},
		{"The Name of the Wind", "Fantasy", "Patrick Rothfuss", decimal.RequireFromString("14.990"), 18},
		{"A Game of Thrones", "Fantasy", "George Martin", decimal.RequireFromString("16.500"), 22},
	}

	slog.Info("upserting books", slog.Int("count", len(books)))

	for _, b := range books {
		var categoryID int64
		if err := pool.QueryRow(ctx, `
			INSERT INTO categories (title) VALUES ($1)
			ON CONFLICT (title) DO UPDATE SET title = EXCLUDED.title
			RETURNING id`,
			b.Category,
		).Scan(&categoryID); err != nil {
			return errors.Wrapf(err, "upsert category %s", b.Category)
		}

		if _, err := pool.Exec(ctx, `
			INSERT INTO products (title, category_id, author, list_price, stock_quantity)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (title) DO UPDATE SET
				category_id    = EXCLUDED.category_id,
				author         = EXCLUDED.author,
				list_price     = EXCLUDED.list_price,
				stock_quantity = EXCLUDED.stock_quantity`,
			b.Title, categoryID, b.Author, b.ListPrice, b.StockQuantity,
		); err != nil {
			return errors.Wrapf(err, "upsert book %s", b.Title)
		}

		slog.Info("upserted book", slog.String("title", b.Title), slog.String("author", b.Author))
	}
	return nil
}

func seedCampaigns(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding campaigns")

	type campaignSeed struct {
		description         string
		minPurchasePrice    *decimal.Decimal
		minPurchaseQuantity *int
		discountQuantity    *int
		discountPercent     *int
		ruleAuthor          *string
		ruleCategory        *string
	}

	intp := func(v int) *int { return &v }
	strp := func(v string) *string { return &v }
	decp := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}

	campaigns := []campaignSeed{
		{
			description:         "Buy 3 science fiction books, cheapest one free",
			minPurchaseQuantity: intp(3),
			discountQuantity:    intp(1),
			ruleCategory:        strp("Science Fiction"),
		},
		{
			description:      "10% off orders over 100",
			minPurchasePrice: decp("100.000"),
			discountPercent:  intp(10),
		},
		{
			description:         "Two Frank Herbert books, 15% off the order",
			minPurchaseQuantity: intp(2),
			discountPercent:     intp(15),
			ruleAuthor:          strp("Frank Herbert"),
		},
	}

	for _, c := range campaigns {
		if _, err := pool.Exec(ctx, `
			INSERT INTO campaigns (
				description, min_purchase_price, min_purchase_quantity,
				discount_quantity, discount_percent, rule_author, rule_category
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (description) DO NOTHING`,
			c.description, c.minPurchasePrice, c.minPurchaseQuantity,
			c.discountQuantity, c.discountPercent, c.ruleAuthor, c.ruleCategory,
		); err != nil {
			return errors.Wrapf(err, "upsert campaign %q", c.description)
		}

		slog.Info("seeded campaign", slog.String("description", c.description))
	}
	return nil
}
