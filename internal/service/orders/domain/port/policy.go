// internal/service/orders/domain/port/policy.go
package port

import (
	"context"

	"medisupply/internal/service/orders/domain"
)

// AcceptancePolicy 是可配置的下单准入策略端口。
// 内置业务规则（ValidateBusinessRules）永远先行，策略只做追加收紧，
// 不能放宽内置规则。
type AcceptancePolicy interface {
	// Evaluate 返回订单是否被策略接受。
	Evaluate(ctx context.Context, order *domain.Order) (bool, error)
}
