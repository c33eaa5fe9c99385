package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/maryaskin70/pharma-shop/internal/catalog"
	"github.com/maryaskin70/pharma-shop/internal/domain"
	"github.com/maryaskin70/pharma-shop/internal/order"
	"github.com/maryaskin70/pharma-shop/internal/service"
)

type mockSubmitter struct {
	mu          sync.Mutex
	submissions []*domain.OrderSubmission
	err         error
}

func (m *mockSubmitter) Submit(_ context.Context, submission *domain.OrderSubmission) (*domain.OrderConfirmation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.submissions = append(m.submissions, submission)
	return &domain.OrderConfirmation{OrderID: "ord-42", Status: "processing"}, nil
}

func testCatalog() []*domain.Product {
	return []*domain.Product{
		{
			ID: "p1", Name: "Paracetamol Tablets", Category: "Pain Relief", Brand: "MediPlus",
			Price: 4.99, Stock: 120, InStock: true, SKU: "MP-PARA-500",
			Description: "Fast acting pain relief.", Type: domain.ProductTypeSimple,
		},
		{
			ID: "p2", Name: "Ibuprofen Gel", Category: "Pain Relief", Brand: "NovaCare",
			Price: 7.50, Stock: 45, InStock: true, SKU: "NC-IBU-GEL",
			Type: domain.ProductTypeSimple,
		},
		{
			ID: "p4", Name: "Sertraline Tablets", Category: "Prescription", Brand: "MediPlus",
			Type: domain.ProductTypeVariable,
			Attributes: []domain.Attribute{
				{Name: "Dosage", Options: []string{"50mg", "100mg"}, UsedForVariation: true, Visible: true},
			},
			DefaultAttributes: map[string]string{"Dosage": "50mg"},
			Variations: []domain.Variation{
				{ID: "p4-v1", ProductID: "p4", Attributes: map[string]string{"Dosage": "50mg"}, Price: 9.99, Stock: 25, InStock: true, SKU: "MP-SERT-50"},
				{ID: "p4-v2", ProductID: "p4", Attributes: map[string]string{"Dosage": "100mg"}, Price: 14.99, Stock: 0, InStock: false, SKU: "MP-SERT-100"},
			},
		},
	}
}

// setupRouter wires the full handler stack against an in-memory catalog and
// redis, mirroring the router in cmd/main.go.
func setupRouter(t *testing.T) (*chi.Mux, *mockSubmitter) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	catalogService := catalog.NewService(catalog.NewIndex(testCatalog()), catalog.NewCache(client))
	assembler := &order.Assembler{
		Shipping: order.ShippingRule{FlatAmount: 5},
		TaxRate:  0.10,
		Discounts: order.StaticDiscounts{
			"WELCOME10": {Code: "WELCOME10", Type: order.DiscountFixed, Amount: 10},
		},
	}
	submitter := &mockSubmitter{}
	front := service.NewStorefront(catalogService, assembler, submitter)

	timeout := 5 * time.Second
	productHandler := NewProductHandler(front, timeout)
	cartHandler := NewCartHandler(front, timeout)
	checkoutHandler := NewCheckoutHandler(front, timeout)

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(SessionMiddleware)
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/{id}", productHandler.GetByID)
			r.Get("/{id}/related", productHandler.Related)
			r.Post("/{id}/resolve", productHandler.Resolve)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{item_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{item_id}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.ClearCart)
		})
		r.Post("/checkout", checkoutHandler.Checkout)
	})

	return r, submitter
}

func doRequest(t *testing.T, router http.Handler, method, path, body, sessionID string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
