package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maryaskin70/pharma-shop/internal/domain"
	"github.com/maryaskin70/pharma-shop/internal/order"
)

func TestCheckout(t *testing.T) {
	router, submitter := setupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"product_id":"p2","quantity":2}`, "s1")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/checkout",
		`{"billing":{"first_name":"Ada","email":"ada@example.com"},"discount_code":"WELCOME10"}`, "s1")
	require.Equal(t, http.StatusOK, rec.Code)

	var confirmation domain.OrderConfirmation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &confirmation))
	assert.Equal(t, "ord-42", confirmation.OrderID)

	require.Len(t, submitter.submissions, 1)
	draft := submitter.submissions[0].Draft
	assert.Equal(t, 15.0, draft.Subtotal)
	assert.Equal(t, 10.0, draft.DiscountAmount)
	assert.Equal(t, "Ada", submitter.submissions[0].Billing.FirstName)

	// Successful checkout empties the cart.
	rec = doRequest(t, router, http.MethodGet, "/api/v1/cart/", "", "s1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCart(t, rec.Body.Bytes()).Items)
}

func TestCheckout_EmptyCart(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout",
		`{"billing":{"first_name":"Ada"}}`, "s1")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "empty_cart", resp.Code)
}

func TestCheckout_InvalidBody(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout", `{bad`, "s1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckout_SubmissionErrorSurfacedVerbatim(t *testing.T) {
	router, submitter := setupRouter(t)
	submitter.err = &order.SubmissionError{
		Status:  http.StatusConflict,
		Code:    "stock_conflict",
		Message: "variation p4-v1 out of stock",
	}

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"product_id":"p1","quantity":1}`, "s1")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/checkout",
		`{"billing":{"first_name":"Ada"}}`, "s1")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "stock_conflict", resp.Code)
	assert.Equal(t, "variation p4-v1 out of stock", resp.Error)

	// Cart survives a failed submission.
	rec = doRequest(t, router, http.MethodGet, "/api/v1/cart/", "", "s1")
	assert.Len(t, decodeCart(t, rec.Body.Bytes()).Items, 1)
}

func TestCheckout_GenericFailure(t *testing.T) {
	router, submitter := setupRouter(t)
	submitter.err = errors.New("connection refused")

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"product_id":"p1","quantity":1}`, "s1")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/checkout",
		`{"billing":{}}`, "s1")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "submission_failed", resp.Code)
}
