// internal/service/orders/domain/port/events.go
package port

import (
	"context"

	"medisupply/internal/service/orders/domain"
)

// EventPublisher 是订单结果通知的出站端口。
// 投递是 fire-and-forget：发布失败由调用方记录，不触发补偿。
type EventPublisher interface {
	// PublishOrderCreated 发布订单创建成功事件给下游消费者。
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
}
