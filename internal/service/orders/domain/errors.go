// internal/service/orders/domain/errors.go
package domain

import "fmt"

// BusinessRuleViolationError 表示订单没有通过下单业务规则，对应 HTTP 400。
type BusinessRuleViolationError struct {
	Message string
}

func (e *BusinessRuleViolationError) Error() string { return e.Message }

// InsufficientStockError 表示远端查得的可用量低于订单需求，对应 HTTP 409。
// 这是基于 check-stock 响应在客户端做出的判断，只是建议性的——
// 真正的保证来自预占。
type InsufficientStockError struct {
	ProductID string
	Available int
	Required  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for product %s. Available: %d, Required: %d",
		e.ProductID, e.Available, e.Required)
}

// StockReservationFailedError 表示远端的 check-then-commit 拒绝了预占，
// 通常是并发订单先消耗了库存。这是已处理的正常结局，不是缺陷。
type StockReservationFailedError struct{}

func (e *StockReservationFailedError) Error() string {
	return "Failed to reserve stock - items may have been sold to another customer"
}

// ExternalServiceError 表示下游依赖不可用，对应 HTTP 503，调用方可重试。
type ExternalServiceError struct {
	Service string
	Cause   error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Cause)
}

func (e *ExternalServiceError) Unwrap() error { return e.Cause }

// OrderNotFoundError 表示请求的订单不存在，对应 HTTP 404。
type OrderNotFoundError struct {
	OrderID string
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("Order %s not found", e.OrderID)
}
