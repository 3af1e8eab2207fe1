package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-order-api/internal/domain/campaign"
)

const (
	listCampaignsSQL = `SELECT id, description, min_purchase_price, min_purchase_quantity,
			discount_quantity, discount_percent, rule_author, rule_category
		FROM campaigns ORDER BY id`

	insertCampaignSQL = `INSERT INTO campaigns (description, min_purchase_price, min_purchase_quantity,
			discount_quantity, discount_percent, rule_author, rule_category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	deleteCampaignSQL = `DELETE FROM campaigns WHERE id = $1`
)

var _ campaign.Repository = (*CampaignRepository)(nil)

// CampaignRepository implements campaign.Repository backed by PostgreSQL.
// It is the authoritative source the cache falls back to.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository returns a CampaignRepository that uses the given pool.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

// List returns all campaigns ordered by id.
func (r *CampaignRepository) List(ctx context.Context) ([]campaign.Campaign, error) {
	rows, err := r.pool.Query(ctx, listCampaignsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing campaigns: %w", err)
	}
	return pgx.CollectRows(rows, scanCampaign)
}

// Create inserts a campaign row and returns its identity.
func (r *CampaignRepository) Create(ctx context.Context, c *campaign.Campaign) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, insertCampaignSQL,
		c.Description, c.MinPurchasePrice, c.MinPurchaseQuantity,
		c.DiscountQuantity, c.DiscountPercent, c.RuleAuthor, c.RuleCategory,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating campaign: %w", err)
	}
	return id, nil
}

// Delete removes a campaign row. Returns campaign.ErrNotFound when the id
// does not exist.
func (r *CampaignRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteCampaignSQL, id)
	if err != nil {
		return fmt.Errorf("deleting campaign %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return campaign.ErrNotFound
	}
	return nil
}

func scanCampaign(row pgx.CollectableRow) (campaign.Campaign, error) {
	var c campaign.Campaign
	err := row.Scan(
		&c.ID, &c.Description, &c.MinPurchasePrice, &c.MinPurchaseQuantity,
		&c.DiscountQuantity, &c.DiscountPercent, &c.RuleAuthor, &c.RuleCategory,
	)
	return c, err
}
