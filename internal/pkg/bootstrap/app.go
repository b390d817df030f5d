// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"medisupply/internal/pkg/config"
	"medisupply/internal/pkg/logger"
	"medisupply/internal/pkg/nacos"
	"medisupply/internal/pkg/tracing"
)

// AppCtx 传递给各服务的路由注册回调。
type AppCtx struct {
	Mux   *http.ServeMux
	Nacos *nacos.Client
}

// AppInfo 包含启动一个微服务所需的所有特定信息。
type AppInfo struct {
	ServiceName      string
	Cfg              *config.Config
	RegisterHandlers func(appCtx AppCtx)
	// OnShutdown 在 HTTP 服务器停止后执行（关闭 DB、Kafka writer 等）
	OnShutdown func(ctx context.Context)
}

// StartService 封装了所有微服务的通用启动和优雅关停逻辑。
func StartService(info AppInfo) {
	logger.Init(info.ServiceName, info.Cfg.LogLevel)

	// Tracer
	tp, err := tracing.InitTracerProvider(info.ServiceName, info.Cfg.JaegerEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	// 可选的服务注册：未配置 Nacos 地址时直接跳过
	var namingClient *nacos.Client
	var ip string
	if info.Cfg.Nacos.ServerAddrs != "" {
		namingClient, err = nacos.NewClient(info.Cfg.Nacos.ServerAddrs, info.Cfg.Nacos.Namespace, info.Cfg.Nacos.Group)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize nacos client")
		}
		ip, err = getOutboundIP()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get outbound IP address")
		}
		if err := namingClient.RegisterServiceInstance(info.ServiceName, ip, info.Cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to register service with nacos")
		}
	}

	mux := http.NewServeMux()
	if info.RegisterHandlers != nil {
		info.RegisterHandlers(AppCtx{Mux: mux, Nacos: namingClient})
	}
	server := &http.Server{Addr: ":" + strconv.Itoa(info.Cfg.Port), Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Msgf("%s listening on :%d", info.ServiceName, info.Cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// 阻塞直到收到退出信号或服务器异常退出
		<-gCtx.Done()
		log.Info().Msgf("Shutting down service %s...", info.ServiceName)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// 清理顺序：先摘流量，再关服务器，最后冲刷 trace (后进先出)
		if namingClient != nil {
			if err := namingClient.DeregisterServiceInstance(info.ServiceName, ip, info.Cfg.Port); err != nil {
				log.Error().Err(err).Msg("Error deregistering from Nacos")
			}
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error shutting down http server")
		}
		if info.OnShutdown != nil {
			info.OnShutdown(shutdownCtx)
		}
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error shutting down tracer provider")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msgf("service %s exited abnormally", info.ServiceName)
	}
	log.Info().Msgf("Service %s gracefully shut down.", info.ServiceName)
}

// getOutboundIP 获取本机对外通信使用的 IP，用于注册中心上报。
func getOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
