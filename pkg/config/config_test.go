package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Name: "dpdash", Env: "test", LogLevel: "info"},
		MySQL:  MySQLConfig{DSN: "root:root@tcp(127.0.0.1:3306)/dpdash"},
		Lmstfy: LmstfyConfig{Host: "127.0.0.1", Port: 7777, Namespace: "dpdash"},
		Workers: []WorkerConfig{
			{Name: "w1", QueueName: "q1", CallbackQueue: "cb"},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("合法配置", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("缺少 app.name", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Name = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("缺少 mysql.dsn", func(t *testing.T) {
		cfg := validConfig()
		cfg.MySQL.DSN = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("缺少 worker", func(t *testing.T) {
		cfg := validConfig()
		cfg.Workers = nil
		assert.Error(t, cfg.Validate())
	})

	t.Run("比例阈值越界", func(t *testing.T) {
		cfg := validConfig()
		cfg.Insight.FeeAlertRatio = 1.5
		assert.Error(t, cfg.Validate())

		cfg = validConfig()
		cfg.Insight.UnlinkedWarnShare = -0.1
		assert.Error(t, cfg.Validate())
	})
}

func TestLoad(t *testing.T) {
	yaml := `
app:
  name: dpdash
  env: test
  log_level: debug
mysql:
  dsn: "root:root@tcp(127.0.0.1:3306)/dpdash"
redis:
  addr: "127.0.0.1:6379"
  channel: "dashboard_refresh_complete"
lmstfy:
  host: "127.0.0.1"
  port: 7777
  namespace: "dpdash"
workers:
  - name: w1
    queue_name: q1
    callback_queue: cb
    subscriber:
      threads: 2
      rate: 100ms
      timeout: 3s
      ttr: 60s
      error_backoff: 1s
    processor:
      threads: 4
      buffer_size: 64
      timeout: 30s
insight:
  min_margin_percent: 10
  fee_alert_ratio: 0.25
  disable_residual: true
`

	path := filepath.Join(t.TempDir(), "worker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "dpdash", cfg.App.Name)
	assert.Equal(t, "dashboard_refresh_complete", cfg.Redis.Channel)

	require.Len(t, cfg.Workers, 1)
	assert.Equal(t, "q1", cfg.Workers[0].QueueName)
	assert.Equal(t, 2, cfg.Workers[0].Subscriber.Threads)
	assert.Equal(t, 64, cfg.Workers[0].Processor.BufferSize)

	assert.Equal(t, 10.0, cfg.Insight.MinMarginPercent)
	assert.Equal(t, 0.25, cfg.Insight.FeeAlertRatio)
	assert.True(t, cfg.Insight.DisableResidual)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
