// internal/service/orders/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"medisupply/internal/service/orders/domain"
)

// OrderModel 对应数据库中的 orders 表。
type OrderModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	OrderNumber string `gorm:"size:16;index"`
	ClientID    string `gorm:"size:64;index"`
	VendorID    string `gorm:"size:64"`
	Total       float64
	Status      string `gorm:"size:16"`
	DeliveryID  string `gorm:"size:64"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName 指定 GORM 应该使用的表名。
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel 对应 order_items 表，订单创建后行项目不再变化。
type OrderItemModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	OrderID   string `gorm:"size:36;index"`
	ProductID string `gorm:"size:64"`
	Quantity  int
	Price     float64
}

// TableName 指定 GORM 应该使用的表名。
func (OrderItemModel) TableName() string {
	return "order_items"
}

func toOrderModel(o *domain.Order) *OrderModel {
	items := make([]OrderItemModel, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemModel{
			OrderID:   o.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return &OrderModel{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		ClientID:    o.ClientID,
		VendorID:    o.VendorID,
		Total:       o.Total,
		Status:      string(o.Status),
		DeliveryID:  o.DeliveryID,
		CreatedAt:   o.CreatedAt,
		Items:       items,
	}
}

func toDomainOrder(m *OrderModel) *domain.Order {
	items := make([]domain.OrderItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return &domain.Order{
		ID:          m.ID,
		OrderNumber: m.OrderNumber,
		ClientID:    m.ClientID,
		VendorID:    m.VendorID,
		Items:       items,
		Total:       m.Total,
		Status:      domain.Status(m.Status),
		CreatedAt:   m.CreatedAt,
		DeliveryID:  m.DeliveryID,
	}
}
