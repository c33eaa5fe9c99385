package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maryaskin70/pharma-shop/internal/cart"
	"github.com/maryaskin70/pharma-shop/internal/domain"
	"github.com/maryaskin70/pharma-shop/internal/service"
)

type CartHandler struct {
	front   *service.Storefront
	timeout time.Duration
}

func NewCartHandler(front *service.Storefront, timeout time.Duration) *CartHandler {
	return &CartHandler{
		front:   front,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID  string            `json:"product_id"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Quantity   int               `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Items     []domain.CartLine `json:"items"`
	Subtotal  float64           `json:"subtotal"`
	ItemCount int               `json:"item_count"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	c := h.front.Cart(getSessionID(r.Context()))
	respondJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	sessionID := getSessionID(r.Context())
	if _, err := h.front.AddToCart(ctx, sessionID, req.ProductID, req.Attributes, req.Quantity); err != nil {
		handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toCartResponse(h.front.Cart(sessionID)))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "item_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	sessionID := getSessionID(r.Context())
	h.front.UpdateQuantity(sessionID, itemID, req.Quantity)
	respondJSON(w, http.StatusOK, toCartResponse(h.front.Cart(sessionID)))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	h.front.RemoveFromCart(sessionID, chi.URLParam(r, "item_id"))
	respondJSON(w, http.StatusOK, toCartResponse(h.front.Cart(sessionID)))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	h.front.ClearCart(sessionID)
	respondJSON(w, http.StatusOK, toCartResponse(h.front.Cart(sessionID)))
}

func handleCartError(w http.ResponseWriter, err error) {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		respondJSON(w, http.StatusConflict, ErrorResponse{
			Error:   stockErr.Error(),
			Code:    "insufficient_stock",
			Details: stockErr.ItemID,
		})
	case errors.Is(err, service.ErrNotPurchasable):
		respondError(w, http.StatusConflict, "not_purchasable", err.Error())
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	default:
		handleProductError(w, err)
	}
}

func toCartResponse(c *cart.Store) CartResponse {
	return CartResponse{
		Items:     c.Lines(),
		Subtotal:  c.Subtotal(),
		ItemCount: c.ItemCount(),
	}
}
