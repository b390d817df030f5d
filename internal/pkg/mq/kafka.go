// internal/pkg/mq/kafka.go
package mq

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
)

// NewWriter 创建一个指向单一 topic 的 Kafka writer。
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

// KafkaHeaderCarrier 让 kafka.Header 切片适配 otel 的 TextMapCarrier，
// 使追踪上下文可以随消息一起传播。
type KafkaHeaderCarrier []kafka.Header

func (c *KafkaHeaderCarrier) Get(key string) string {
	for _, h := range *c {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *KafkaHeaderCarrier) Set(key, value string) {
	for i, h := range *c {
		if h.Key == key {
			(*c)[i].Value = []byte(value)
			return
		}
	}
	*c = append(*c, kafka.Header{Key: key, Value: []byte(value)})
}

func (c *KafkaHeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(*c))
	for _, h := range *c {
		keys = append(keys, h.Key)
	}
	return keys
}

// ProduceMessage 发送一条消息，并自动把当前追踪上下文注入消息头。
func ProduceMessage(ctx context.Context, writer *kafka.Writer, key, value []byte) error {
	carrier := KafkaHeaderCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, &carrier)

	return writer.WriteMessages(ctx, kafka.Message{
		Key:     key,
		Value:   value,
		Headers: carrier,
	})
}
