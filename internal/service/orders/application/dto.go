// internal/service/orders/application/dto.go
package application

import (
	"time"

	"medisupply/internal/service/orders/domain"
)

// CreateOrderRequest 是下单接口的请求体。
type CreateOrderRequest struct {
	ClientID string             `json:"client_id"`
	VendorID string             `json:"vendor_id"`
	Items    []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// ToDomain 把请求体转换为领域订单实体。
func (r *CreateOrderRequest) ToDomain() *domain.Order {
	items := make([]domain.OrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return domain.NewOrder(r.ClientID, r.VendorID, items)
}

// OrderResponse 是订单读写接口共用的响应体。
type OrderResponse struct {
	ID          string              `json:"id"`
	OrderNumber string              `json:"order_number"`
	ClientID    string              `json:"client_id"`
	VendorID    string              `json:"vendor_id"`
	Items       []OrderItemResponse `json:"items"`
	Total       float64             `json:"total"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	DeliveryID  string              `json:"delivery_id,omitempty"`
}

type OrderItemResponse struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// FromOrder 把领域实体映射为响应体。
func FromOrder(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		ClientID:    o.ClientID,
		VendorID:    o.VendorID,
		Items:       items,
		Total:       o.Total,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		DeliveryID:  o.DeliveryID,
	}
}
