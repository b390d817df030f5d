// internal/pkg/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// KafkaConfig 描述事件发布所需的 Kafka 连接信息。
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// NacosConfig 描述可选的 Nacos 注册中心配置。
// ServerAddrs 为空时服务不注册，也不走服务发现。
type NacosConfig struct {
	ServerAddrs string `yaml:"server_addrs"`
	Namespace   string `yaml:"namespace"`
	Group       string `yaml:"group"`
}

// Config 是单个微服务的全部外部配置。
// 字段默认值由各服务的 main 提供，yaml 文件与环境变量依次覆盖。
type Config struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	DatabaseDSN string `yaml:"database_dsn"`

	// 仅 orders-service 使用
	InventoryServiceURL string `yaml:"inventory_service_url"`

	// 仅 orders-service 使用，可选的 CEL 准入表达式，留空则不启用
	AcceptancePolicy string `yaml:"acceptance_policy"`

	// 仅 inventory-service 使用，留空则关闭可用量缓存
	RedisAddr string `yaml:"redis_addr"`

	JaegerEndpoint string      `yaml:"jaeger_endpoint"`
	Kafka          KafkaConfig `yaml:"kafka"`
	Nacos          NacosConfig `yaml:"nacos"`
}

// Load 按 默认值 -> CONFIG_FILE 指向的 yaml -> 环境变量 的顺序合并配置。
func Load(defaults Config) (*Config, error) {
	cfg := defaults

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.InventoryServiceURL = getEnv("INVENTORY_SERVICE_URL", cfg.InventoryServiceURL)
	cfg.AcceptancePolicy = getEnv("ACCEPTANCE_POLICY", cfg.AcceptancePolicy)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.JaegerEndpoint = getEnv("JAEGER_ENDPOINT", cfg.JaegerEndpoint)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", cfg.Kafka.Topic)
	cfg.Nacos.ServerAddrs = getEnv("NACOS_SERVER_ADDRS", cfg.Nacos.ServerAddrs)
	cfg.Nacos.Namespace = getEnv("NACOS_NAMESPACE", cfg.Nacos.Namespace)
	cfg.Nacos.Group = getEnv("NACOS_GROUP", cfg.Nacos.Group)
}

// getEnv 从环境变量中读取配置，未设置时返回兜底值。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
