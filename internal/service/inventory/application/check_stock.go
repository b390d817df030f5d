// internal/service/inventory/application/check_stock.go
package application

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"medisupply/internal/service/inventory/domain"
)

// 一次批量查询允许的商品数上限
const maxCheckProducts = 100

// StockCache 是可用量的旁路缓存端口。查询结果是建议性的
// （下单侧的 check 本身就只是建议，预占才是事实），
// 所以短 TTL 的缓存不影响正确性。实现可以为 nil。
type StockCache interface {
	// GetAvailability 返回命中的商品可用量，未命中的不出现在结果里。
	GetAvailability(ctx context.Context, productIDs []string) map[string]int

	// SetAvailability 写入一批可用量。
	SetAvailability(ctx context.Context, availability map[string]int)

	// Invalidate 在预占成功后删除相关商品的缓存条目。
	Invalidate(ctx context.Context, productIDs []string)
}

// CheckStockUseCase 执行批量可用量查询。
type CheckStockUseCase struct {
	repo   domain.InventoryRepository
	cache  StockCache
	tracer trace.Tracer
}

// NewCheckStockUseCase 创建查询用例。cache 可以传 nil。
func NewCheckStockUseCase(repo domain.InventoryRepository, cache StockCache, tracer trace.Tracer) *CheckStockUseCase {
	return &CheckStockUseCase{repo: repo, cache: cache, tracer: tracer}
}

// Execute 返回 productID -> 可用量 的映射。
// 查不到的商品映射为 0，这是约定的 "not found = 0" 策略，不算错误。
func (uc *CheckStockUseCase) Execute(ctx context.Context, productIDs []string) (map[string]int, error) {
	ctx, span := uc.tracer.Start(ctx, "inventory.CheckStock")
	defer span.End()
	span.SetAttributes(attribute.Int("products.count", len(productIDs)))

	if len(productIDs) == 0 {
		return nil, &domain.ValidationError{Message: "Product IDs list cannot be empty"}
	}
	if len(productIDs) > maxCheckProducts {
		return nil, &domain.ValidationError{Message: "Too many product IDs requested. Maximum 100 allowed"}
	}
	for _, id := range productIDs {
		if strings.TrimSpace(id) == "" {
			return nil, &domain.ValidationError{Message: "Product ID cannot be empty or whitespace"}
		}
	}

	result := map[string]int{}

	// 先走缓存，只回源未命中的部分
	missed := productIDs
	if uc.cache != nil {
		cached := uc.cache.GetAvailability(ctx, productIDs)
		missed = missed[:0:0]
		for _, id := range productIDs {
			if qty, ok := cached[id]; ok {
				result[id] = qty
			} else {
				missed = append(missed, id)
			}
		}
	}

	if len(missed) > 0 {
		items, err := uc.repo.FindByProductIDs(ctx, missed)
		if err != nil {
			span.RecordError(err)
			log.Error().Err(err).Msg("error checking stock")
			return nil, &domain.DependencyError{Cause: err}
		}

		fetched := map[string]int{}
		for _, id := range missed {
			if item, ok := items[id]; ok {
				fetched[id] = item.AvailableQuantity
			} else {
				fetched[id] = 0
				log.Warn().Str("product_id", id).Msg("product not found in inventory")
			}
		}
		if uc.cache != nil {
			uc.cache.SetAvailability(ctx, fetched)
		}
		for id, qty := range fetched {
			result[id] = qty
		}
	}

	log.Info().Int("products", len(productIDs)).Msg("stock check completed")
	return result, nil
}
