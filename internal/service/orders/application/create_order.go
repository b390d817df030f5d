// internal/service/orders/application/create_order.go
package application

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"medisupply/internal/pkg/metrics"
	"medisupply/internal/service/orders/domain"
	"medisupply/internal/service/orders/domain/port"
)

// CreateOrderUseCase 驱动订单创建 saga：
// 业务规则校验 -> 远端库存查询 -> 预占 -> 确认，任一步失败都以
// REJECTED 收场。每次状态流转后立即持久化快照。
type CreateOrderUseCase struct {
	orderRepo        domain.OrderRepository
	inventoryService port.InventoryService
	eventPublisher   port.EventPublisher
	policy           port.AcceptancePolicy // 可为 nil
	tracer           trace.Tracer
}

func NewCreateOrderUseCase(
	orderRepo domain.OrderRepository,
	inventoryService port.InventoryService,
	eventPublisher port.EventPublisher,
	policy port.AcceptancePolicy,
	tracer trace.Tracer,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo:        orderRepo,
		inventoryService: inventoryService,
		eventPublisher:   eventPublisher,
		policy:           policy,
		tracer:           tracer,
	}
}

// Execute 执行完整的下单流程并返回终态订单。
func (uc *CreateOrderUseCase) Execute(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	ctx, span := uc.tracer.Start(ctx, "orders.CreateOrder")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("client.id", order.ClientID),
	)

	// 1. 业务规则
	if err := order.ValidateBusinessRules(); err != nil {
		uc.rejectAndSave(ctx, order, "business_rule")
		log.Warn().Str("order_id", order.ID).Err(err).Msg("order rejected")
		return nil, err
	}
	if uc.policy != nil {
		accepted, err := uc.policy.Evaluate(ctx, order)
		if err != nil {
			log.Error().Str("order_id", order.ID).Err(err).Msg("acceptance policy evaluation failed")
		}
		if err != nil || !accepted {
			uc.rejectAndSave(ctx, order, "policy")
			return nil, &domain.BusinessRuleViolationError{Message: "Order does not satisfy acceptance policy"}
		}
	}

	// 2. 先落一条 PENDING 记录，再发起任何外部调用。
	//    中途崩溃留下的是可追查的 PENDING 行，而不是什么都没有。
	if err := uc.orderRepo.Save(ctx, order); err != nil {
		span.RecordError(err)
		return nil, err
	}
	log.Info().Str("order_id", order.ID).Msg("order created with PENDING status")

	result, err := uc.runSaga(ctx, span, order)
	if err != nil {
		// 兜底：任何让订单停留在 PENDING 的错误，在上抛前先置为
		// REJECTED 并持久化，不允许订单卡死在 PENDING。
		if order.Status == domain.StatusPending {
			uc.rejectAndSave(ctx, order, "error")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "order processing failed")
		log.Error().Str("order_id", order.ID).Err(err).Msg("error processing order")
		return nil, err
	}
	return result, nil
}

func (uc *CreateOrderUseCase) runSaga(ctx context.Context, span trace.Span, order *domain.Order) (*domain.Order, error) {
	// 3. 远端库存查询。这里的判断基于 check-stock 响应，只是建议性的：
	//    真正的裁决在预占阶段，先查一步是为了省掉注定失败的预占调用。
	stock, err := uc.inventoryService.CheckStock(ctx, order.ProductIDs())
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: "Inventory service", Cause: err}
	}
	for productID, required := range order.ItemsToReserve() {
		available := stock[productID]
		if available < required {
			uc.rejectAndSave(ctx, order, "insufficient_stock")
			insufficientErr := &domain.InsufficientStockError{
				ProductID: productID,
				Available: available,
				Required:  required,
			}
			log.Warn().Str("order_id", order.ID).Err(insufficientErr).Msg("order rejected")
			return nil, insufficientErr
		}
	}

	// 4. PENDING -> VALIDATED
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if err := uc.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	log.Info().Str("order_id", order.ID).Msg("order validated")

	// 5. 预占。返回 false 意味着远端的 check-then-commit 拒绝了请求，
	//    多半是并发订单先拿走了库存——这是正常结局，不是故障。
	reserved, err := uc.inventoryService.ReserveStock(ctx, order.ItemsToReserve())
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: "Stock reservation service", Cause: err}
	}
	if !reserved {
		uc.rejectAndSave(ctx, order, "reservation_failed")
		log.Error().Str("order_id", order.ID).Msg("order failed to reserve stock")
		return nil, &domain.StockReservationFailedError{}
	}

	// 6. VALIDATED -> CREATED，派生 delivery_id
	if err := order.Confirm(); err != nil {
		return nil, err
	}
	if err := uc.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	metrics.OrdersCreatedTotal.Inc()
	span.AddEvent("order confirmed")

	// 7. 事件是 fire-and-forget：发布失败只记日志，订单保持 CREATED。
	if err := uc.eventPublisher.PublishOrderCreated(ctx, order); err != nil {
		metrics.EventPublishFailures.Inc()
		log.Error().Str("order_id", order.ID).Err(err).Msg("failed to publish OrderCreated event")
	}

	log.Info().Str("order_id", order.ID).Str("delivery_id", order.DeliveryID).Msg("order created successfully")
	return order, nil
}

// rejectAndSave 把订单置为 REJECTED 并尽力持久化。
// 这里的保存失败只能记日志：拒绝本身不能因为存储抖动而丢失主错误。
func (uc *CreateOrderUseCase) rejectAndSave(ctx context.Context, order *domain.Order, reason string) {
	order.Reject()
	metrics.OrdersRejectedTotal.WithLabelValues(reason).Inc()
	if err := uc.orderRepo.Save(ctx, order); err != nil {
		log.Error().Str("order_id", order.ID).Err(err).Msg("CRITICAL: failed to persist order rejection")
	}
}
