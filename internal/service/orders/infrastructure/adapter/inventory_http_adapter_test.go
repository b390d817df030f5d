// internal/service/orders/infrastructure/adapter/inventory_http_adapter_test.go
package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"medisupply/internal/pkg/httpclient"
)

func newAdapter(baseURL string) *InventoryHTTPAdapter {
	return NewInventoryHTTPAdapter(httpclient.NewClient(otel.Tracer("test")), baseURL, nil)
}

func TestCheckStockReturnsRemoteAvailability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, checkStockPath, r.URL.Path)
		var req struct {
			ProductIDs []string `json:"product_ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, []string{"p1", "p2"}, req.ProductIDs)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"stock": map[string]int{"p1": 7, "p2": 0},
		})
	}))
	defer srv.Close()

	stock, err := newAdapter(srv.URL).CheckStock(context.Background(), []string{"p1", "p2"})
	require.NoError(t, err)
	require.Equal(t, map[string]int{"p1": 7, "p2": 0}, stock)
}

func TestCheckStockFailsOpenOnHTTPError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	stock, err := newAdapter(srv.URL).CheckStock(context.Background(), []string{"p1"})
	require.NoError(t, err)
	require.Empty(t, stock)
	// 对端给出了明确的错误状态码，不做重试
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCheckStockRetriesTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // 连接直接失败

	stock, err := newAdapter(srv.URL).CheckStock(context.Background(), []string{"p1"})
	require.NoError(t, err)
	require.Empty(t, stock)
}

func TestReserveStockForwardsDecision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, reserveStockPath, r.URL.Path)
		var req struct {
			Items map[string]int `json:"items"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, map[string]int{"p1": 3}, req.Items)

		_ = json.NewEncoder(w).Encode(map[string]bool{"reserved": true})
	}))
	defer srv.Close()

	reserved, err := newAdapter(srv.URL).ReserveStock(context.Background(), map[string]int{"p1": 3})
	require.NoError(t, err)
	require.True(t, reserved)
}

func TestReserveStockFailsClosedOnHTTPError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	reserved, err := newAdapter(srv.URL).ReserveStock(context.Background(), map[string]int{"p1": 3})
	require.NoError(t, err)
	require.False(t, reserved)
	// 预占绝不重试
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestReserveStockFailsClosedOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	reserved, err := newAdapter(srv.URL).ReserveStock(context.Background(), map[string]int{"p1": 3})
	require.NoError(t, err)
	require.False(t, reserved)
}
