package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maryaskin70/pharma-shop/internal/catalog"
	"github.com/maryaskin70/pharma-shop/internal/domain"
	"github.com/maryaskin70/pharma-shop/internal/resolver"
	"github.com/maryaskin70/pharma-shop/internal/service"
)

type ProductHandler struct {
	front   *service.Storefront
	timeout time.Duration
}

func NewProductHandler(front *service.Storefront, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		front:   front,
		timeout: timeout,
	}
}

type ProductResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Category    string             `json:"category"`
	Brand       string             `json:"brand"`
	Price       float64            `json:"price"`
	InStock     bool               `json:"in_stock"`
	SKU         string             `json:"sku"`
	Description string             `json:"description,omitempty"`
	Type        string             `json:"type"`
	Image       string             `json:"image,omitempty"`
	Attributes  []domain.Attribute `json:"attributes,omitempty"`
	Variations  []domain.Variation `json:"variations,omitempty"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

type ResolveRequestDTO struct {
	Attributes map[string]string `json:"attributes"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria := catalog.Criteria{
		Category: r.URL.Query().Get("category"),
		Brand:    r.URL.Query().Get("brand"),
		Search:   r.URL.Query().Get("search"),
	}
	if v := r.URL.Query().Get("min_price"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_price", "min_price must be a number")
			return
		}
		criteria.MinPrice = min
	}
	if v := r.URL.Query().Get("max_price"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_price", "max_price must be a number")
			return
		}
		criteria.MaxPrice = max
	}

	matched := h.front.FilterProducts(criteria)
	respondJSON(w, http.StatusOK, toProductsResponse(matched, false))
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, err := h.front.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleProductError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product, true))
}

func (h *ProductHandler) Related(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	if _, err := h.front.GetProduct(ctx, id); err != nil {
		handleProductError(w, err)
		return
	}

	limit := 4
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	respondJSON(w, http.StatusOK, toProductsResponse(h.front.RelatedProducts(id, limit), false))
}

// Resolve reports the effective price, stock and SKU for an attribute
// selection. A no_match state comes back as 200 with the state set; the
// client is expected to disable purchase actions.
func (h *ProductHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ResolveRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	offer, err := h.front.ResolveOffer(ctx, chi.URLParam(r, "id"), req.Attributes)
	if err != nil {
		handleProductError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, offer)
}

func handleProductError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", "product not found")
	case errors.Is(err, resolver.ErrUnknownAttribute), errors.Is(err, resolver.ErrUnknownOption):
		respondError(w, http.StatusBadRequest, "invalid_attribute", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func toProductResponse(p *domain.Product, detail bool) ProductResponse {
	resp := ProductResponse{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Brand:    p.Brand,
		Price:    p.Price,
		InStock:  p.InStock,
		SKU:      p.SKU,
		Type:     string(p.Type),
		Image:    p.Image(),
	}
	if detail {
		resp.Description = p.Description
		resp.Attributes = p.Attributes
		resp.Variations = p.Variations
	}
	return resp
}

func toProductsResponse(products []*domain.Product, detail bool) ProductsResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p, detail)
	}
	return ProductsResponse{Products: out}
}
