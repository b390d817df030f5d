// internal/service/orders/domain/order.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	minOrderTotal = 10.0
	maxOrderItems = 100
)

// OrderItem 是订单里的一个行项目（值对象）。
type OrderItem struct {
	ProductID string
	Quantity  int
	Price     float64
}

// Subtotal 返回该行项目的小计。
func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.Price
}

// Order 是订单聚合的根实体。
// Total 在构造时由行项目推导，之后不再变化。
type Order struct {
	ID          string
	OrderNumber string
	ClientID    string
	VendorID    string
	Items       []OrderItem
	Total       float64
	Status      Status
	CreatedAt   time.Time
	DeliveryID  string
}

// NewOrder 创建一个 PENDING 状态的新订单并推导 Total。
func NewOrder(clientID, vendorID string, items []OrderItem) *Order {
	id := uuid.New().String()
	total := 0.0
	for _, item := range items {
		total += item.Subtotal()
	}
	return &Order{
		ID:          id,
		OrderNumber: strings.ToUpper(id[:8]),
		ClientID:    clientID,
		VendorID:    vendorID,
		Items:       items,
		Total:       total,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
}

// ProductIDs 返回订单中去重后的商品 ID 列表。
func (o *Order) ProductIDs() []string {
	seen := make(map[string]struct{}, len(o.Items))
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// ItemsToReserve 返回 productID -> 数量 的映射，同一商品的多行会合并。
func (o *Order) ItemsToReserve() map[string]int {
	items := make(map[string]int, len(o.Items))
	for _, item := range o.Items {
		items[item.ProductID] += item.Quantity
	}
	return items
}

// ValidateBusinessRules 检查下单的业务规则。
// 违反时返回 *BusinessRuleViolationError，携带给客户端的具体原因。
func (o *Order) ValidateBusinessRules() error {
	if len(o.Items) == 0 {
		return &BusinessRuleViolationError{Message: "Order must have at least one item"}
	}
	if o.Total < minOrderTotal {
		return &BusinessRuleViolationError{Message: "Order minimum is $10"}
	}
	if len(o.Items) > maxOrderItems {
		return &BusinessRuleViolationError{Message: "Order cannot exceed 100 items"}
	}
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			return &BusinessRuleViolationError{Message: "Item quantity must be positive"}
		}
		if item.Price < 0 {
			return &BusinessRuleViolationError{Message: "Item price cannot be negative"}
		}
	}
	return nil
}

// Validate 将订单从 PENDING 推进到 VALIDATED。
func (o *Order) Validate() error {
	if o.Status != StatusPending {
		return fmt.Errorf("cannot validate order in %s status", o.Status)
	}
	o.Status = StatusValidated
	return nil
}

// Confirm 将订单从 VALIDATED 推进到 CREATED，并派生 DeliveryID。
func (o *Order) Confirm() error {
	if o.Status != StatusValidated {
		return fmt.Errorf("cannot confirm order in %s status", o.Status)
	}
	o.Status = StatusCreated
	o.DeliveryID = "delivery-" + o.ID[:8]
	return nil
}

// Reject 把订单置为 REJECTED。REJECTED 是吸收态，
// 任何非终态都可以进入，进入后不再流转。
func (o *Order) Reject() {
	o.Status = StatusRejected
}
