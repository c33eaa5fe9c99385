package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/maryaskin70/pharma-shop/internal/domain"
	"github.com/maryaskin70/pharma-shop/internal/order"
	"github.com/maryaskin70/pharma-shop/internal/service"
)

type CheckoutHandler struct {
	front   *service.Storefront
	timeout time.Duration
}

func NewCheckoutHandler(front *service.Storefront, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		front:   front,
		timeout: timeout,
	}
}

type CheckoutRequestDTO struct {
	Billing      domain.BillingDetails `json:"billing"`
	DiscountCode string                `json:"discount_code,omitempty"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	confirmation, err := h.front.Checkout(ctx, getSessionID(r.Context()), req.Billing, req.DiscountCode)
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, confirmation)
}

func handleCheckoutError(w http.ResponseWriter, err error) {
	var subErr *order.SubmissionError
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.As(err, &subErr):
		// Failures from the order endpoint are surfaced verbatim.
		respondJSON(w, http.StatusBadGateway, ErrorResponse{
			Error: subErr.Message,
			Code:  subErr.Code,
		})
	default:
		respondError(w, http.StatusBadGateway, "submission_failed", err.Error())
	}
}
