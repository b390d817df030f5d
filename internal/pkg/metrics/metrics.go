// internal/pkg/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 订单与预占的业务计数器。两个服务各自只使用属于自己的一组，
// 统一放在这里避免重复注册逻辑。
var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Number of orders that reached the CREATED state.",
	})

	OrdersRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Number of orders that ended in the REJECTED state, by reason.",
	}, []string{"reason"})

	StockReservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_reservations_total",
		Help: "Number of stock reservation attempts, by outcome.",
	}, []string{"outcome"})

	EventPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_event_publish_failures_total",
		Help: "OrderCreated events that could not be published.",
	})
)
