// internal/service/inventory/application/check_stock_test.go
package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"medisupply/internal/service/inventory/domain"
)

// memCache 是 StockCache 的内存实现，用于验证旁路缓存的读写路径。
type memCache struct {
	entries map[string]int
	sets    int
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]int{}}
}

func (c *memCache) GetAvailability(_ context.Context, productIDs []string) map[string]int {
	result := map[string]int{}
	for _, id := range productIDs {
		if qty, ok := c.entries[id]; ok {
			result[id] = qty
		}
	}
	return result
}

func (c *memCache) SetAvailability(_ context.Context, availability map[string]int) {
	c.sets++
	for id, qty := range availability {
		c.entries[id] = qty
	}
}

func (c *memCache) Invalidate(_ context.Context, productIDs []string) {
	for _, id := range productIDs {
		delete(c.entries, id)
	}
}

func newCheckUseCase(repo domain.InventoryRepository, cache StockCache) *CheckStockUseCase {
	return NewCheckStockUseCase(repo, cache, otel.Tracer("test"))
}

func TestCheckStockReturnsAvailability(t *testing.T) {
	repo := newMemRepo(
		&domain.InventoryItem{ProductID: "p1", AvailableQuantity: 10, ReservedQuantity: 3},
		&domain.InventoryItem{ProductID: "p2", AvailableQuantity: 0},
	)
	uc := newCheckUseCase(repo, nil)

	stock, err := uc.Execute(context.Background(), []string{"p1", "p2"})
	require.NoError(t, err)
	// 返回的是可用量，不含预占量
	require.Equal(t, map[string]int{"p1": 10, "p2": 0}, stock)
}

func TestCheckStockUnknownProductMapsToZero(t *testing.T) {
	repo := newMemRepo(&domain.InventoryItem{ProductID: "p1", AvailableQuantity: 7})
	uc := newCheckUseCase(repo, nil)

	stock, err := uc.Execute(context.Background(), []string{"p1", "ghost"})
	require.NoError(t, err)
	require.Equal(t, map[string]int{"p1": 7, "ghost": 0}, stock)
}

func TestCheckStockValidation(t *testing.T) {
	uc := newCheckUseCase(newMemRepo(), nil)

	cases := []struct {
		name    string
		ids     []string
		message string
	}{
		{"empty", nil, "Product IDs list cannot be empty"},
		{"blank id", []string{"p1", "   "}, "Product ID cannot be empty or whitespace"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tc.ids)
			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, tc.message, validationErr.Message)
		})
	}

	tooMany := make([]string, 101)
	for i := range tooMany {
		tooMany[i] = "p"
	}
	_, err := uc.Execute(context.Background(), tooMany)
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "Too many product IDs requested. Maximum 100 allowed", validationErr.Message)
}

func TestCheckStockStorageFailure(t *testing.T) {
	repo := newMemRepo()
	repo.findErr = errors.New("storage down")
	uc := newCheckUseCase(repo, nil)

	_, err := uc.Execute(context.Background(), []string{"p1"})
	var depErr *domain.DependencyError
	require.ErrorAs(t, err, &depErr)
}

func TestCheckStockUsesCacheForRepeatLookups(t *testing.T) {
	repo := newMemRepo(&domain.InventoryItem{ProductID: "p1", AvailableQuantity: 9})
	cache := newMemCache()
	uc := newCheckUseCase(repo, cache)

	stock, err := uc.Execute(context.Background(), []string{"p1"})
	require.NoError(t, err)
	require.Equal(t, map[string]int{"p1": 9}, stock)
	require.Equal(t, 1, cache.sets)

	// 第二次查询命中缓存，即使底层数据已经变化
	repo.items["p1"].AvailableQuantity = 1
	stock, err = uc.Execute(context.Background(), []string{"p1"})
	require.NoError(t, err)
	require.Equal(t, map[string]int{"p1": 9}, stock)
	require.Equal(t, 1, cache.sets)
}

func TestReserveStockInvalidatesCache(t *testing.T) {
	repo := newMemRepo(&domain.InventoryItem{ProductID: "p1", AvailableQuantity: 9})
	cache := newMemCache()
	cache.entries["p1"] = 9

	uc := NewReserveStockUseCase(repo, cache, otel.Tracer("test"))
	reserved, err := uc.Execute(context.Background(), map[string]int{"p1": 4})
	require.NoError(t, err)
	require.True(t, reserved)
	require.NotContains(t, cache.entries, "p1")
}
