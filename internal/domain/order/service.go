package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bookstore-order-api/internal/domain/campaign"
	"bookstore-order-api/internal/domain/product"
	"bookstore-order-api/internal/domain/user"
)

// Sentinel errors for order validation and stock reservation.
var (
	ErrEmptyProducts = errors.New("product_ids required")
	// ErrInsufficientStock is returned when a placement would take a
	// product's stock below zero, typically under concurrent orders.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// DuplicateProductError indicates the same product id was requested twice in
// one order. Each order line is unique per (order, product).
type DuplicateProductError struct {
	ProductID int64
}

func (e *DuplicateProductError) Error() string {
	return fmt.Sprintf("product %d requested more than once", e.ProductID)
}

// Orders under freeShippingMin pay a flat shipping fee on top of the line
// subtotal; the fee is part of the pre-discount total campaigns apply to.
var (
	shippingFee     = decimal.NewFromInt(35)
	freeShippingMin = decimal.NewFromInt(150)
)

// Totals are stored with 3 decimal places, rounded half away from zero.
const priceScale = 3

// notifyTimeout bounds the post-commit notification. The enqueue must not
// inherit the request's cancellation: the order is already committed.
const notifyTimeout = 5 * time.Second

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	UserID     int64
	ProductIDs []int64
}

// Service encapsulates the order placement workflow.
type Service struct {
	users     user.Repository
	store     Store
	views     Views
	campaigns campaign.Source
	notifier  Notifier
}

// NewService creates an order Service with the required dependencies.
func NewService(
	users user.Repository,
	store Store,
	views Views,
	campaigns campaign.Source,
	notifier Notifier,
) *Service {
	return &Service{
		users:     users,
		store:     store,
		views:     views,
		campaigns: campaigns,
		notifier:  notifier,
	}
}

// Place validates the request, then runs stock reservation, cart resolution,
// campaign pricing, and persistence as one transaction. After the commit it
// emits an order-created event; a notification failure is logged and never
// fails the already-committed order.
func (s *Service) Place(ctx context.Context, req PlaceOrderRequest) (*View, error) {
	if len(req.ProductIDs) == 0 {
		return nil, ErrEmptyProducts
	}
	seen := make(map[int64]struct{}, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		if _, dup := seen[id]; dup {
			return nil, &DuplicateProductError{ProductID: id}
		}
		seen[id] = struct{}{}
	}

	u, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "validate user")
	}

	var view View
	err = s.store.InTx(ctx, func(tx Tx) error {
		if err := tx.DecrementStock(ctx, req.ProductIDs); err != nil {
			return errors.Wrap(err, "reserve stock")
		}

		prods, err := tx.ProductsWithCategories(ctx, req.ProductIDs)
		if err != nil {
			return errors.Wrap(err, "resolve cart lines")
		}
		if len(prods) != len(req.ProductIDs) {
			return product.ErrNotFound
		}

		camps, err := s.campaigns.Get(ctx)
		if err != nil {
			return errors.Wrap(err, "load campaigns")
		}

		lines := make([]campaign.Line, len(prods))
		for i, p := range prods {
			lines[i] = campaign.Line{
				ProductID: p.ID,
				Author:    p.Author,
				Category:  p.CategoryTitle,
				ListPrice: p.ListPrice,
			}
		}

		total := campaign.Subtotal(lines)
		if total.LessThan(freeShippingMin) {
			total = total.Add(shippingFee)
		}

		final, winner := campaign.SelectBest(camps, lines, total)

		o := Order{
			PriceWithoutDiscount: total.Round(priceScale),
			DiscountedPrice:      final.Round(priceScale),
			CampaignID:           winner,
			UserID:               u.ID,
		}
		id, err := tx.InsertOrder(ctx, &o)
		if err != nil {
			return errors.Wrap(err, "insert order")
		}
		o.ID = id

		if err := tx.InsertOrderProducts(ctx, id, req.ProductIDs); err != nil {
			return errors.Wrap(err, "insert order products")
		}

		view = View{Order: o, Username: u.Username, Products: prods}
		if winner != nil {
			for i := range camps {
				if camps[i].ID == *winner {
					view.CampaignDescription = &camps[i].Description
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := s.notifier.OrderCreated(notifyCtx, &view.Order); err != nil {
		zctx.From(ctx).Warn("order-created notification failed",
			zap.Int64("order_id", view.ID),
			zap.Error(err),
		)
	}
	return &view, nil
}

// Get returns one hydrated order.
func (s *Service) Get(ctx context.Context, id int64) (*View, error) {
	return s.views.GetView(ctx, id)
}

// List returns all hydrated orders.
func (s *Service) List(ctx context.Context) ([]View, error) {
	return s.views.ListViews(ctx)
}

// Delete removes a committed order and its lines. Stock is not restored:
// removal is an administrative correction, not a cancellation flow.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.views.Delete(ctx, id)
}
