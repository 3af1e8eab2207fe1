// Package handler exposes the order API over net/http.
package handler

import (
	"context"
	"net/http"

	"bookstore-order-api/internal/domain/campaign"
	"bookstore-order-api/internal/domain/order"
)

// CampaignAdmin covers the administrative campaign mutations.
type CampaignAdmin interface {
	Create(ctx context.Context, c *campaign.Campaign) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// CacheInvalidator drops derived campaign state after an admin mutation.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Handler routes API requests to the order service and campaign
// administration.
type Handler struct {
	orders      *order.Service
	admin       CampaignAdmin
	invalidator CacheInvalidator
}

// New constructs a Handler with the required dependencies.
func New(orders *order.Service, admin CampaignAdmin, invalidator CacheInvalidator) *Handler {
	return &Handler{
		orders:      orders,
		admin:       admin,
		invalidator: invalidator,
	}
}

// Routes registers the API routes on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/orders", h.placeOrder)
	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("GET /api/orders/{order_id}", h.getOrder)
	mux.HandleFunc("DELETE /api/orders/{order_id}", h.deleteOrder)
	mux.HandleFunc("POST /api/campaigns", h.createCampaign)
	mux.HandleFunc("DELETE /api/campaigns/{campaign_id}", h.deleteCampaign)
}
