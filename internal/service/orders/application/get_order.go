// internal/service/orders/application/get_order.go
package application

import (
	"context"

	"github.com/rs/zerolog/log"

	"medisupply/internal/service/orders/domain"
)

const defaultListLimit = 100

// GetOrderUseCase 提供订单读操作。
type GetOrderUseCase struct {
	orderRepo domain.OrderRepository
}

func NewGetOrderUseCase(orderRepo domain.OrderRepository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

// ByID 按 ID 查找订单，不存在时返回 *domain.OrderNotFoundError。
func (uc *GetOrderUseCase) ByID(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		log.Error().Str("order_id", orderID).Err(err).Msg("error retrieving order")
		return nil, err
	}
	if order == nil {
		return nil, &domain.OrderNotFoundError{OrderID: orderID}
	}
	return order, nil
}

// FindAll 按创建时间倒序分页返回订单。
func (uc *GetOrderUseCase) FindAll(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	orders, err := uc.orderRepo.FindAll(ctx, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("error retrieving orders")
		return nil, err
	}
	return orders, nil
}
