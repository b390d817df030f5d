// internal/pkg/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadUsesDefaults(t *testing.T) {
	cfg, err := Load(Config{Port: 8001, LogLevel: "info"})
	require.NoError(t, err)
	require.Equal(t, 8001, cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9000
log_level: debug
kafka:
  brokers: ["broker-1:9092", "broker-2:9092"]
  topic: order-events
`), 0o644))
	t.Setenv("CONFIG_FILE", path)
	// 环境变量优先于文件
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("KAFKA_BROKERS", "override:9092")

	cfg, err := Load(Config{Port: 8001, LogLevel: "info"})
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, []string{"override:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, "order-events", cfg.Kafka.Topic)
}

func TestLoadFailsOnMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
	_, err := Load(Config{})
	require.Error(t, err)
}
