// cmd/orders-service/main.go
package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"medisupply/internal/pkg/bootstrap"
	"medisupply/internal/pkg/config"
	"medisupply/internal/pkg/httpclient"
	"medisupply/internal/pkg/mq"
	"medisupply/internal/service/orders/application"
	"medisupply/internal/service/orders/domain/port"
	"medisupply/internal/service/orders/infrastructure"
	"medisupply/internal/service/orders/infrastructure/adapter"
	"medisupply/internal/service/orders/infrastructure/rule"
	"medisupply/internal/service/orders/interfaces"
)

const serviceName = "orders-service"

// main 是 orders-service 的组装根：创建并组装所有依赖项，然后启动应用。
func main() {
	cfg, err := config.Load(config.Config{
		Port:                8001,
		LogLevel:            "info",
		DatabaseDSN:         "root:root@tcp(localhost:3306)/medisupply?charset=utf8mb4&parseTime=True&loc=UTC",
		InventoryServiceURL: "http://localhost:8002",
		JaegerEndpoint:      "http://localhost:14268/api/traces",
		Kafka: config.KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "order-events",
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := gorm.Open(mysql.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.AutoMigrate(&infrastructure.OrderModel{}, &infrastructure.OrderItemModel{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database schema")
	}

	kafkaWriter := mq.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)

	// 可选的 CEL 准入策略，表达式非法直接拒绝启动
	var policy port.AcceptancePolicy
	if cfg.AcceptancePolicy != "" {
		celPolicy, err := rule.NewCELPolicyAdapter(cfg.AcceptancePolicy)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid acceptance policy expression")
		}
		policy = celPolicy
	}

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Cfg:         cfg,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			tracer := otel.Tracer(serviceName)

			orderRepo := infrastructure.NewGormOrderRepository(db)
			inventorySvc := adapter.NewInventoryHTTPAdapter(
				httpclient.NewClient(tracer),
				cfg.InventoryServiceURL,
				appCtx.Nacos,
			)
			eventPublisher := adapter.NewEventKafkaAdapter(kafkaWriter)

			createOrder := application.NewCreateOrderUseCase(orderRepo, inventorySvc, eventPublisher, policy, tracer)
			getOrder := application.NewGetOrderUseCase(orderRepo)

			interfaces.NewOrderHandler(createOrder, getOrder).RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: func(ctx context.Context) {
			if err := kafkaWriter.Close(); err != nil {
				log.Error().Err(err).Msg("error closing kafka writer")
			}
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	})
}
