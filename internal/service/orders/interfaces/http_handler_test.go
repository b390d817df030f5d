// internal/service/orders/interfaces/http_handler_test.go
package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"medisupply/internal/service/orders/application"
	"medisupply/internal/service/orders/domain"
)

type stubOrderRepo struct {
	orders map[string]*domain.Order
}

func (r *stubOrderRepo) Save(_ context.Context, order *domain.Order) error {
	snapshot := *order
	r.orders[order.ID] = &snapshot
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	return r.orders[id], nil
}

func (r *stubOrderRepo) FindAll(_ context.Context, limit, offset int) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	if offset > len(orders) {
		offset = len(orders)
	}
	orders = orders[offset:]
	if limit < len(orders) {
		orders = orders[:limit]
	}
	return orders, nil
}

type stubInventory struct {
	stock    map[string]int
	reserved bool
}

func (s *stubInventory) CheckStock(_ context.Context, productIDs []string) (map[string]int, error) {
	return s.stock, nil
}

func (s *stubInventory) ReserveStock(_ context.Context, items map[string]int) (bool, error) {
	return s.reserved, nil
}

type stubPublisher struct{}

func (stubPublisher) PublishOrderCreated(_ context.Context, _ *domain.Order) error { return nil }

func newTestServer(inv *stubInventory) (*httptest.Server, *stubOrderRepo) {
	repo := &stubOrderRepo{orders: map[string]*domain.Order{}}
	tracer := otel.Tracer("test")
	handler := NewOrderHandler(
		application.NewCreateOrderUseCase(repo, inv, stubPublisher{}, nil, tracer),
		application.NewGetOrderUseCase(repo),
	)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return httptest.NewServer(mux), repo
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func validRequest() map[string]interface{} {
	return map[string]interface{}{
		"client_id": "client-1",
		"vendor_id": "vendor-1",
		"items": []map[string]interface{}{
			{"product_id": "p1", "quantity": 2, "price": 10.0},
		},
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	srv, repo := newTestServer(&stubInventory{stock: map[string]int{"p1": 10}, reserved: true})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/v1/orders", validRequest())
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body application.OrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "CREATED", body.Status)
	require.Equal(t, 20.0, body.Total)
	require.Equal(t, "delivery-"+body.ID[:8], body.DeliveryID)
	require.Len(t, body.OrderNumber, 8)

	saved := repo.orders[body.ID]
	require.NotNil(t, saved)
	require.Equal(t, domain.StatusCreated, saved.Status)
}

func TestCreateOrderEndpointBusinessRule(t *testing.T) {
	srv, _ := newTestServer(&stubInventory{})
	defer srv.Close()

	req := validRequest()
	req["items"] = []map[string]interface{}{
		{"product_id": "p1", "quantity": 1, "price": 9.99},
	}
	resp := postJSON(t, srv.URL+"/api/v1/orders", req)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "Order minimum is $10", body["detail"])
}

func TestCreateOrderEndpointInsufficientStock(t *testing.T) {
	srv, _ := newTestServer(&stubInventory{stock: map[string]int{"p1": 1}})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/v1/orders", validRequest())
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "Insufficient stock for product p1. Available: 1, Required: 2", body["detail"])
}

func TestCreateOrderEndpointReservationRefused(t *testing.T) {
	srv, _ := newTestServer(&stubInventory{stock: map[string]int{"p1": 10}, reserved: false})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/v1/orders", validRequest())
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "Failed to reserve stock - items may have been sold to another customer", body["detail"])
}

func TestCreateOrderEndpointStructuralValidation(t *testing.T) {
	srv, _ := newTestServer(&stubInventory{})
	defer srv.Close()

	req := validRequest()
	req["client_id"] = "  "
	resp := postJSON(t, srv.URL+"/api/v1/orders", req)
	resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	malformed, err := http.Post(srv.URL+"/api/v1/orders", "application/json", bytes.NewReader([]byte("{oops")))
	require.NoError(t, err)
	malformed.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, malformed.StatusCode)
}

func TestGetOrderEndpoint(t *testing.T) {
	srv, repo := newTestServer(&stubInventory{})
	defer srv.Close()

	order := domain.NewOrder("client-1", "vendor-1", []domain.OrderItem{
		{ProductID: "p1", Quantity: 1, Price: 15.0},
	})
	require.NoError(t, repo.Save(context.Background(), order))

	resp, err := http.Get(srv.URL + "/api/v1/orders/" + order.ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body application.OrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, order.ID, body.ID)

	missing, err := http.Get(srv.URL + "/api/v1/orders/does-not-exist")
	require.NoError(t, err)
	missing.Body.Close()
	require.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestListOrdersEndpoint(t *testing.T) {
	srv, repo := newTestServer(&stubInventory{})
	defer srv.Close()

	for i := 0; i < 3; i++ {
		order := domain.NewOrder("client-1", "vendor-1", []domain.OrderItem{
			{ProductID: "p1", Quantity: 1, Price: 15.0},
		})
		require.NoError(t, repo.Save(context.Background(), order))
	}

	resp, err := http.Get(srv.URL + "/api/v1/orders?limit=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []application.OrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 2)
}
