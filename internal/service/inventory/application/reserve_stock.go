// internal/service/inventory/application/reserve_stock.go
package application

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"medisupply/internal/service/inventory/domain"
)

const (
	maxReserveItems = 50
	maxItemQuantity = 10000

	// 乐观锁冲突后的重读预算。每轮冲突意味着另一个请求已经提交，
	// 所以 M 个并发请求最多需要 M-1 次重试就能分出胜负。
	casRetryBudget = 8
)

// ReserveStockUseCase 执行批量库存预占：先对整个批次做校验，
// 全部通过后才一次性落库——部分成功是不允许的。
type ReserveStockUseCase struct {
	repo   domain.InventoryRepository
	cache  StockCache
	tracer trace.Tracer
}

// NewReserveStockUseCase 创建预占用例。cache 可以传 nil。
func NewReserveStockUseCase(repo domain.InventoryRepository, cache StockCache, tracer trace.Tracer) *ReserveStockUseCase {
	return &ReserveStockUseCase{repo: repo, cache: cache, tracer: tracer}
}

// Execute 预占 items 中的全部商品，任何一项不满足都整体拒绝。
// 并发安全依赖仓储的 version 守卫：两个请求对同一批库存先后提交时，
// 后提交者会拿到 ErrVersionConflict，这里重读重验后再试。
func (uc *ReserveStockUseCase) Execute(ctx context.Context, items map[string]int) (bool, error) {
	ctx, span := uc.tracer.Start(ctx, "inventory.ReserveStock")
	defer span.End()
	span.SetAttributes(attribute.Int("items.count", len(items)))

	if err := validateReserveInput(items); err != nil {
		return false, err
	}

	productIDs := make([]string, 0, len(items))
	for id := range items {
		productIDs = append(productIDs, id)
	}
	// 固定处理顺序，让日志和错误信息可复现
	sort.Strings(productIDs)

	log.Info().Int("items", len(items)).Msg("attempting to reserve stock")

	var lastErr error
	for attempt := 0; attempt <= casRetryBudget; attempt++ {
		inventory, err := uc.repo.FindByProductIDs(ctx, productIDs)
		if err != nil {
			span.RecordError(err)
			return false, &domain.DependencyError{Cause: err}
		}

		// 第一阶段：对整个批次做存在性与可用量校验
		var missing []string
		var shortfalls []domain.Shortfall
		for _, id := range productIDs {
			item, ok := inventory[id]
			if !ok {
				missing = append(missing, id)
				continue
			}
			if !item.CanReserve(items[id]) {
				shortfalls = append(shortfalls, domain.Shortfall{
					ProductID: id,
					Requested: items[id],
					Available: item.AvailableQuantity,
				})
			}
		}
		if len(missing) > 0 {
			err := &domain.ProductNotFoundError{ProductIDs: missing}
			log.Error().Strs("missing", missing).Msg("reservation rejected: products not found")
			return false, err
		}
		if len(shortfalls) > 0 {
			err := &domain.InsufficientStockError{Shortfalls: shortfalls}
			log.Error().Err(err).Msg("reservation rejected: insufficient stock")
			return false, err
		}

		// 第二阶段：校验全部通过，才逐项挪账并整批落库
		batch := make([]*domain.InventoryItem, 0, len(productIDs))
		for _, id := range productIDs {
			item := inventory[id]
			if !item.Reserve(items[id]) {
				// CanReserve 刚验过，这里失败说明内存状态被破坏了
				return false, &domain.ReservationPersistError{Cause: domain.ErrVersionConflict}
			}
			batch = append(batch, item)
		}

		err = uc.repo.SaveAll(ctx, batch)
		if err == nil {
			if uc.cache != nil {
				uc.cache.Invalidate(ctx, productIDs)
			}
			log.Info().Int("items", len(items)).Msg("stock reserved")
			span.AddEvent("All items reserved")
			return true, nil
		}
		if errors.Is(err, domain.ErrVersionConflict) {
			// 另一个请求抢先提交了同批次中的某一行，重读再验
			lastErr = err
			span.AddEvent("version conflict, retrying")
			continue
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist reservations")
		log.Error().Err(err).Msg("failed to save stock reservations")
		return false, &domain.ReservationPersistError{Cause: err}
	}

	log.Error().Int("attempts", casRetryBudget+1).Msg("reservation retries exhausted under contention")
	return false, &domain.ReservationPersistError{Cause: lastErr}
}

func validateReserveInput(items map[string]int) error {
	if len(items) == 0 {
		return &domain.ValidationError{Message: "Items list cannot be empty"}
	}
	if len(items) > maxReserveItems {
		return &domain.ValidationError{Message: "Too many items to reserve. Maximum 50 allowed"}
	}
	for id, qty := range items {
		if strings.TrimSpace(id) == "" {
			return &domain.ValidationError{Message: "Product ID cannot be empty or whitespace"}
		}
		if qty <= 0 {
			return &domain.ValidationError{Message: "Item quantity must be a positive integer"}
		}
		if qty > maxItemQuantity {
			return &domain.ValidationError{Message: "Item quantity too large. Maximum 10000 allowed"}
		}
	}
	return nil
}
