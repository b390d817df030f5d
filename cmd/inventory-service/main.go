// cmd/inventory-service/main.go
package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"medisupply/internal/pkg/bootstrap"
	"medisupply/internal/pkg/config"
	"medisupply/internal/pkg/redis"
	"medisupply/internal/service/inventory/application"
	"medisupply/internal/service/inventory/infrastructure"
	"medisupply/internal/service/inventory/interfaces"
)

const serviceName = "inventory-service"

// main 是 inventory-service 的组装根：创建并组装所有依赖项，然后启动应用。
func main() {
	cfg, err := config.Load(config.Config{
		Port:           8002,
		LogLevel:       "info",
		DatabaseDSN:    "root:root@tcp(localhost:3306)/medisupply?charset=utf8mb4&parseTime=True&loc=UTC",
		JaegerEndpoint: "http://localhost:14268/api/traces",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := gorm.Open(mysql.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.AutoMigrate(&infrastructure.InventoryModel{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database schema")
	}

	// Redis 可用量缓存是可选的，未配置地址就直连数据库
	var redisClient *redis.Client
	var cache application.StockCache
	if cfg.RedisAddr != "" {
		redisClient, err = redis.NewClient(cfg.RedisAddr)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		cache = infrastructure.NewRedisStockCache(redisClient)
	}

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Cfg:         cfg,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			tracer := otel.Tracer(serviceName)

			repo := infrastructure.NewGormInventoryRepository(db)
			checkStock := application.NewCheckStockUseCase(repo, cache, tracer)
			reserveStock := application.NewReserveStockUseCase(repo, cache, tracer)

			interfaces.NewInventoryHandler(checkStock, reserveStock).RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: func(ctx context.Context) {
			if redisClient != nil {
				if err := redisClient.Close(); err != nil {
					log.Error().Err(err).Msg("error closing redis client")
				}
			}
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	})
}
