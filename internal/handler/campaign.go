package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bookstore-order-api/internal/domain/campaign"
)

type campaignRequest struct {
	Description         string   `json:"description"`
	MinPurchasePrice    *float64 `json:"min_purchase_price"`
	MinPurchaseQuantity *int     `json:"min_purchase_quantity"`
	DiscountQuantity    *int     `json:"discount_quantity"`
	DiscountPercent     *int     `json:"discount_percent"`
	RuleAuthor          *string  `json:"rule_author"`
	RuleCategory        *string  `json:"rule_category"`
}

type createCampaignResponse struct {
	ID int64 `json:"id"`
}

func (h *Handler) createCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}

	c := campaign.Campaign{
		Description:         req.Description,
		MinPurchaseQuantity: req.MinPurchaseQuantity,
		DiscountQuantity:    req.DiscountQuantity,
		DiscountPercent:     req.DiscountPercent,
		RuleAuthor:          req.RuleAuthor,
		RuleCategory:        req.RuleCategory,
	}
	if req.MinPurchasePrice != nil {
		price := decimal.NewFromFloat(*req.MinPurchasePrice)
		c.MinPurchasePrice = &price
	}

	id, err := h.admin.Create(r.Context(), &c)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	h.invalidateCache(r)
	writeJSON(w, http.StatusCreated, createCampaignResponse{ID: id})
}

func (h *Handler) deleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("campaign_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}

	if err := h.admin.Delete(r.Context(), id); err != nil {
		if errors.Is(err, campaign.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeInternalError(w, r, err)
		return
	}
	h.invalidateCache(r)
	w.WriteHeader(http.StatusNoContent)
}

// invalidateCache drops the campaign cache after a mutation. The next order
// reloads from the store either way once the TTL lapses, so a failure here
// only delays visibility and is logged rather than surfaced.
func (h *Handler) invalidateCache(r *http.Request) {
	if err := h.invalidator.Invalidate(r.Context()); err != nil {
		zctx.From(r.Context()).Warn("campaign cache invalidation failed", zap.Error(err))
	}
}
