// internal/service/orders/domain/repository.go
package domain

import "context"

// OrderRepository 定义了订单聚合的持久化接口。
// 它位于领域层，由基础设施层实现。
type OrderRepository interface {
	// Save 保存订单当前快照。Saga 在每次状态流转后都会调用，
	// 中途失败也能留下可审计的中间状态。
	Save(ctx context.Context, order *Order) error

	// FindByID 根据 ID 查找订单，不存在时返回 (nil, nil)。
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindAll 按创建时间倒序分页返回订单。
	FindAll(ctx context.Context, limit, offset int) ([]*Order, error)
}
