package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-order-api/internal/domain/campaign"
	"bookstore-order-api/internal/domain/order"
	"bookstore-order-api/internal/domain/product"
	"bookstore-order-api/internal/domain/user"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

type stubUsers struct {
	user *user.User
	err  error
}

func (s *stubUsers) GetByID(_ context.Context, _ int64) (*user.User, error) {
	return s.user, s.err
}

type stubTx struct {
	products     []product.WithCategory
	decrementErr error
}

func (s *stubTx) DecrementStock(_ context.Context, _ []int64) error {
	return s.decrementErr
}

func (s *stubTx) ProductsWithCategories(_ context.Context, _ []int64) ([]product.WithCategory, error) {
	return s.products, nil
}

func (s *stubTx) InsertOrder(_ context.Context, _ *order.Order) (int64, error) {
	return 42, nil
}

func (s *stubTx) InsertOrderProducts(_ context.Context, _ int64, _ []int64) error {
	return nil
}

type stubStore struct {
	tx *stubTx
}

func (s *stubStore) InTx(_ context.Context, fn func(tx order.Tx) error) error {
	return fn(s.tx)
}

type stubCampaigns struct {
	campaigns []campaign.Campaign
}

func (s *stubCampaigns) Get(_ context.Context) ([]campaign.Campaign, error) {
	return s.campaigns, nil
}

type stubNotifier struct{}

func (s *stubNotifier) OrderCreated(_ context.Context, _ *order.Order) error {
	return nil
}

type stubViews struct {
	view    *order.View
	err     error
	deleted []int64
}

func (s *stubViews) GetView(_ context.Context, _ int64) (*order.View, error) {
	return s.view, s.err
}

func (s *stubViews) ListViews(_ context.Context) ([]order.View, error) {
	if s.view == nil {
		return nil, s.err
	}
	return []order.View{*s.view}, s.err
}

func (s *stubViews) Delete(_ context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type stubAdmin struct {
	createID  int64
	createErr error
	deleteErr error
	created   *campaign.Campaign
	deleted   []int64
}

func (s *stubAdmin) Create(_ context.Context, c *campaign.Campaign) (int64, error) {
	s.created = c
	return s.createID, s.createErr
}

func (s *stubAdmin) Delete(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return s.deleteErr
}

type stubInvalidator struct {
	calls int
	err   error
}

func (s *stubInvalidator) Invalidate(_ context.Context) error {
	s.calls++
	return s.err
}

type fixture struct {
	tx          *stubTx
	users       *stubUsers
	views       *stubViews
	admin       *stubAdmin
	invalidator *stubInvalidator
	mux         *http.ServeMux
}

func newFixture() *fixture {
	f := &fixture{
		tx: &stubTx{
			products: []product.WithCategory{{
				Product: product.Product{
					ID:            1,
					Title:         "Dune",
					Author:        "Frank Herbert",
					ListPrice:     d("12.990"),
					StockQuantity: 5,
				},
				CategoryTitle: "Science Fiction",
			}},
		},
		users:       &stubUsers{user: &user.User{ID: 7, Username: "alice"}},
		views:       &stubViews{},
		admin:       &stubAdmin{createID: 5},
		invalidator: &stubInvalidator{},
	}
	svc := order.NewService(f.users, &stubStore{tx: f.tx}, f.views, &stubCampaigns{}, &stubNotifier{})
	f.mux = http.NewServeMux()
	New(svc, f.admin, f.invalidator).Routes(f.mux)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func TestPlaceOrderEndpoint(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodPost, "/api/orders", `{"user_id":7,"product_ids":[1]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.ID)
	// 12.990 + 35 shipping.
	assert.InDelta(t, 47.990, resp.PriceWithoutDiscount, 1e-9)
	assert.InDelta(t, 47.990, resp.DiscountedPrice, 1e-9)
	assert.Nil(t, resp.CampaignID)
	assert.Nil(t, resp.Campaign)
	assert.Equal(t, "alice", resp.User.Username)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Dune", resp.Products[0].Title)
	assert.Equal(t, "Science Fiction", resp.Products[0].Category.Title)
}

func TestPlaceOrderErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		mutate   func(*fixture)
		wantCode int
	}{
		{
			name:     "malformed body",
			body:     `{"user_id":`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "empty products",
			body:     `{"user_id":7,"product_ids":[]}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "duplicate product",
			body:     `{"user_id":7,"product_ids":[1,1]}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown user",
			body: `{"user_id":99,"product_ids":[1]}`,
			mutate: func(f *fixture) {
				f.users.user = nil
				f.users.err = user.ErrNotFound
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "unknown product",
			body: `{"user_id":7,"product_ids":[8]}`,
			mutate: func(f *fixture) {
				f.tx.products = nil
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "out of stock",
			body: `{"user_id":7,"product_ids":[1]}`,
			mutate: func(f *fixture) {
				f.tx.decrementErr = order.ErrInsufficientStock
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.mutate != nil {
				tt.mutate(f)
			}
			rec := f.do(t, http.MethodPost, "/api/orders", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestGetOrderEndpoint(t *testing.T) {
	f := newFixture()
	campaignID := int64(2)
	desc := "Three sci-fi books, one free"
	f.views.view = &order.View{
		Order: order.Order{
			ID:                   42,
			PriceWithoutDiscount: d("65.000"),
			DiscountedPrice:      d("55.000"),
			CampaignID:           &campaignID,
			UserID:               7,
		},
		Username:            "alice",
		CampaignDescription: &desc,
	}

	rec := f.do(t, http.MethodGet, "/api/orders/42", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.CampaignID)
	assert.Equal(t, int64(2), *resp.CampaignID)
	require.NotNil(t, resp.Campaign)
	assert.Equal(t, desc, resp.Campaign.Description)
}

func TestGetOrderNotFound(t *testing.T) {
	f := newFixture()
	f.views.err = order.ErrNotFound

	rec := f.do(t, http.MethodGet, "/api/orders/9000", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOrderInvalidID(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodGet, "/api/orders/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrdersEndpoint(t *testing.T) {
	f := newFixture()
	f.views.view = &order.View{
		Order:    order.Order{ID: 1, UserID: 7},
		Username: "alice",
	}

	rec := f.do(t, http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, int64(1), resp[0].ID)
}

func TestDeleteOrderEndpoint(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodDelete, "/api/orders/42", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
	assert.Equal(t, []int64{42}, f.views.deleted)
}

func TestDeleteOrderNotFound(t *testing.T) {
	f := newFixture()
	f.views.err = order.ErrNotFound

	rec := f.do(t, http.MethodDelete, "/api/orders/9000", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, f.views.deleted)
}

func TestDeleteOrderInvalidID(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodDelete, "/api/orders/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCampaignEndpoint(t *testing.T) {
	f := newFixture()

	body := `{
		"description": "Three sci-fi books, one free",
		"min_purchase_quantity": 3,
		"discount_quantity": 1,
		"rule_category": "Science Fiction"
	}`
	rec := f.do(t, http.MethodPost, "/api/campaigns", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp createCampaignResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(5), resp.ID)

	require.NotNil(t, f.admin.created)
	assert.Equal(t, "Three sci-fi books, one free", f.admin.created.Description)
	require.NotNil(t, f.admin.created.MinPurchaseQuantity)
	assert.Equal(t, 3, *f.admin.created.MinPurchaseQuantity)
	require.NotNil(t, f.admin.created.RuleCategory)
	assert.Equal(t, "Science Fiction", *f.admin.created.RuleCategory)

	assert.Equal(t, 1, f.invalidator.calls, "cache must be invalidated after create")
}

func TestCreateCampaignRequiresDescription(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodPost, "/api/campaigns", `{"discount_percent":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, f.invalidator.calls)
}

func TestDeleteCampaignEndpoint(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodDelete, "/api/campaigns/3", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []int64{3}, f.admin.deleted)
	assert.Equal(t, 1, f.invalidator.calls, "cache must be invalidated after delete")
}

func TestDeleteCampaignNotFound(t *testing.T) {
	f := newFixture()
	f.admin.deleteErr = campaign.ErrNotFound

	rec := f.do(t, http.MethodDelete, "/api/campaigns/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, f.invalidator.calls)
}
