// internal/service/orders/infrastructure/adapter/event_kafka_adapter.go
package adapter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"medisupply/internal/pkg/mq"
	"medisupply/internal/service/orders/domain"
)

const orderCreatedEventType = "OrderCreated"

// EventKafkaAdapter 实现了 port.EventPublisher，
// 把订单结果以 {event_type, payload} 信封发到 Kafka。
type EventKafkaAdapter struct {
	writer *kafka.Writer
}

// NewEventKafkaAdapter 创建一个新的事件发布适配器。
func NewEventKafkaAdapter(writer *kafka.Writer) *EventKafkaAdapter {
	return &EventKafkaAdapter{writer: writer}
}

type eventEnvelope struct {
	EventType string      `json:"event_type"`
	Payload   interface{} `json:"payload"`
}

type orderCreatedPayload struct {
	OrderID     string             `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	ClientID    string             `json:"client_id"`
	VendorID    string             `json:"vendor_id"`
	Total       float64            `json:"total"`
	Items       []orderItemPayload `json:"items"`
	DeliveryID  string             `json:"delivery_id"`
	CreatedAt   string             `json:"created_at"`
}

type orderItemPayload struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// PublishOrderCreated 发布订单创建成功事件。
// 投递语义是 at-least-once 的 fire-and-forget，失败由调用方记录。
func (a *EventKafkaAdapter) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	items := make([]orderItemPayload, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemPayload{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	event := eventEnvelope{
		EventType: orderCreatedEventType,
		Payload: orderCreatedPayload{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			ClientID:    order.ClientID,
			VendorID:    order.VendorID,
			Total:       order.Total,
			Items:       items,
			DeliveryID:  order.DeliveryID,
			CreatedAt:   order.CreatedAt.Format(time.RFC3339),
		},
	}
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to marshal OrderCreated event")
	}

	return mq.ProduceMessage(ctx, a.writer, []byte(order.ID), eventBytes)
}

// Close 关闭底层的 Kafka writer。
func (a *EventKafkaAdapter) Close() error {
	return a.writer.Close()
}
