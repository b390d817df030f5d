// internal/service/inventory/interfaces/http_handler_test.go
package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"medisupply/internal/service/inventory/application"
	"medisupply/internal/service/inventory/domain"
)

type stubRepo struct {
	items map[string]*domain.InventoryItem
}

func (s *stubRepo) FindByProductID(ctx context.Context, productID string) (*domain.InventoryItem, error) {
	return s.items[productID], nil
}

func (s *stubRepo) FindByProductIDs(_ context.Context, productIDs []string) (map[string]*domain.InventoryItem, error) {
	result := map[string]*domain.InventoryItem{}
	for _, id := range productIDs {
		if item, ok := s.items[id]; ok {
			copied := *item
			result[id] = &copied
		}
	}
	return result, nil
}

func (s *stubRepo) Save(_ context.Context, item *domain.InventoryItem) error {
	s.items[item.ProductID] = item
	return nil
}

func (s *stubRepo) SaveAll(_ context.Context, items []*domain.InventoryItem) error {
	for _, item := range items {
		copied := *item
		s.items[item.ProductID] = &copied
	}
	return nil
}

func newTestServer(items ...*domain.InventoryItem) *httptest.Server {
	repo := &stubRepo{items: map[string]*domain.InventoryItem{}}
	for _, item := range items {
		repo.items[item.ProductID] = item
	}
	tracer := otel.Tracer("test")
	handler := NewInventoryHandler(
		application.NewCheckStockUseCase(repo, nil, tracer),
		application.NewReserveStockUseCase(repo, nil, tracer),
	)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestCheckStockEndpoint(t *testing.T) {
	srv := newTestServer(
		&domain.InventoryItem{ProductID: "p1", AvailableQuantity: 12},
	)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/v1/inventory/check", map[string]interface{}{
		"product_ids": []string{"p1", "ghost"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Stock map[string]int `json:"stock"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, map[string]int{"p1": 12, "ghost": 0}, body.Stock)
}

func TestCheckStockEndpointValidation(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/v1/inventory/check", map[string]interface{}{
		"product_ids": []string{},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.Equal(t, "Product IDs list cannot be empty", body["detail"])
}

func TestCheckStockEndpointMalformedBody(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/v1/inventory/check", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestReserveStockEndpoint(t *testing.T) {
	srv := newTestServer(
		&domain.InventoryItem{ProductID: "p1", AvailableQuantity: 10},
	)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/v1/inventory/reserve", map[string]interface{}{
		"items": map[string]int{"p1": 4},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Reserved bool `json:"reserved"`
	}
	decodeBody(t, resp, &body)
	require.True(t, body.Reserved)
}

func TestReserveStockEndpointUnknownProduct(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/v1/inventory/reserve", map[string]interface{}{
		"items": map[string]int{"ghost": 1},
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.Equal(t, "products not found: ghost", body["detail"])
}

func TestReserveStockEndpointInsufficient(t *testing.T) {
	srv := newTestServer(
		&domain.InventoryItem{ProductID: "p1", AvailableQuantity: 2},
	)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/v1/inventory/reserve", map[string]interface{}{
		"items": map[string]int{"p1": 5},
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.Equal(t, "insufficient stock for products: p1 (requested: 5, available: 2)", body["detail"])
}

func TestInventoryEndpointsRejectWrongMethod(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/inventory/check")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
