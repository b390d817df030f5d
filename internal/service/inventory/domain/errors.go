// internal/service/inventory/domain/errors.go
package domain

import (
	"fmt"
	"strings"
)

// ValidationError 表示调用方输入不合法，对应 HTTP 400。
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ProductNotFoundError 聚合了一次预占请求中所有不存在的商品。
// 整个请求被拒绝，不做部分预占。
type ProductNotFoundError struct {
	ProductIDs []string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("products not found: %s", strings.Join(e.ProductIDs, ", "))
}

// Shortfall 记录一个商品的缺口：请求量与当前可用量。
type Shortfall struct {
	ProductID string
	Requested int
	Available int
}

// InsufficientStockError 聚合了一次预占请求中所有可用量不足的商品。
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	details := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		details = append(details, fmt.Sprintf("%s (requested: %d, available: %d)", s.ProductID, s.Requested, s.Available))
	}
	return fmt.Sprintf("insufficient stock for products: %s", strings.Join(details, ", "))
}

// ReservationPersistError 表示业务校验已通过、但预占结果没有成功落库。
// 对调用方来说这是一个结果未知的失败，不能当成干净的拒绝处理。
type ReservationPersistError struct {
	Cause error
}

func (e *ReservationPersistError) Error() string {
	return fmt.Sprintf("failed to persist stock reservation: %v", e.Cause)
}

func (e *ReservationPersistError) Unwrap() error { return e.Cause }

// DependencyError 表示底层存储不可用，可重试，对应 HTTP 500。
type DependencyError struct {
	Cause error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("inventory storage failure: %v", e.Cause)
}

func (e *DependencyError) Unwrap() error { return e.Cause }
