package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"

	"bookstore-order-api/internal/domain/order"
	"bookstore-order-api/internal/domain/product"
	"bookstore-order-api/internal/domain/user"
)

type orderRequest struct {
	UserID     int64   `json:"user_id"`
	ProductIDs []int64 `json:"product_ids"`
}

type orderResponse struct {
	ID                   int64             `json:"id"`
	PriceWithoutDiscount float64           `json:"price_without_discount"`
	DiscountedPrice      float64           `json:"discounted_price"`
	CampaignID           *int64            `json:"campaign_id"`
	UserID               int64             `json:"user_id"`
	User                 userResponse      `json:"user"`
	Campaign             *campaignResponse `json:"campaign"`
	Products             []productResponse `json:"products"`
}

type userResponse struct {
	Username string `json:"username"`
}

type campaignResponse struct {
	Description string `json:"description"`
}

type productResponse struct {
	ID            int64            `json:"id"`
	Title         string           `json:"title"`
	Author        string           `json:"author"`
	ListPrice     float64          `json:"list_price"`
	StockQuantity int              `json:"stock_quantity"`
	Category      categoryResponse `json:"category"`
}

type categoryResponse struct {
	Title string `json:"title"`
}

func viewResponse(v *order.View) orderResponse {
	resp := orderResponse{
		ID:                   v.ID,
		PriceWithoutDiscount: v.PriceWithoutDiscount.InexactFloat64(),
		DiscountedPrice:      v.DiscountedPrice.InexactFloat64(),
		CampaignID:           v.CampaignID,
		UserID:               v.UserID,
		User:                 userResponse{Username: v.Username},
		Products:             make([]productResponse, len(v.Products)),
	}
	if v.CampaignDescription != nil {
		resp.Campaign = &campaignResponse{Description: *v.CampaignDescription}
	}
	for i, p := range v.Products {
		resp.Products[i] = productResponse{
			ID:            p.ID,
			Title:         p.Title,
			Author:        p.Author,
			ListPrice:     p.ListPrice.InexactFloat64(),
			StockQuantity: p.StockQuantity,
			Category:      categoryResponse{Title: p.CategoryTitle},
		}
	}
	return resp
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.orders.Place(r.Context(), order.PlaceOrderRequest{
		UserID:     req.UserID,
		ProductIDs: req.ProductIDs,
	})
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewResponse(view))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("order_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	view, err := h.orders.Get(r.Context(), id)
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewResponse(view))
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("order_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.orders.Delete(r.Context(), id); err != nil {
		h.writeOrderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	views, err := h.orders.List(r.Context())
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}
	resp := make([]orderResponse, len(views))
	for i := range views {
		resp[i] = viewResponse(&views[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeOrderError maps domain errors to HTTP responses.
func (h *Handler) writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var dup *order.DuplicateProductError
	switch {
	case errors.Is(err, order.ErrEmptyProducts):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &dup):
		writeError(w, http.StatusUnprocessableEntity, dup.Error())
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, order.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient stock")
	default:
		writeInternalError(w, r, err)
	}
}
