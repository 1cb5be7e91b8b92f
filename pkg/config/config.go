package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置
type Config struct {
	App     AppConfig      `mapstructure:"app"`
	MySQL   MySQLConfig    `mapstructure:"mysql"`
	Redis   RedisConfig    `mapstructure:"redis"`
	Lmstfy  LmstfyConfig   `mapstructure:"lmstfy"`
	Workers []WorkerConfig `mapstructure:"workers"`
	Insight InsightConfig  `mapstructure:"insight"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// MySQLConfig MySQL 配置
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"` // 刷新完成通知频道
}

// LmstfyConfig Lmstfy 配置
type LmstfyConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Token     string `mapstructure:"token"`
}

// WorkerConfig Worker 配置
type WorkerConfig struct {
	Name          string           `mapstructure:"name"`
	QueueName     string           `mapstructure:"queue_name"`
	CallbackQueue string           `mapstructure:"callback_queue"` // 回调队列名称
	Subscriber    SubscriberConfig `mapstructure:"subscriber"`
	Processor     ProcessorConfig  `mapstructure:"processor"`
}

// SubscriberConfig Subscriber 配置
type SubscriberConfig struct {
	Threads      int           `mapstructure:"threads"`       // 并发拉取数
	Rate         time.Duration `mapstructure:"rate"`          // 拉取速率
	Timeout      time.Duration `mapstructure:"timeout"`       // 拉取超时
	TTR          time.Duration `mapstructure:"ttr"`           // Time-To-Run
	ErrorBackoff time.Duration `mapstructure:"error_backoff"` // 错误退避时间
}

// ProcessorConfig Processor 配置
type ProcessorConfig struct {
	Threads    int           `mapstructure:"threads"`     // 并发处理数
	BufferSize int           `mapstructure:"buffer_size"` // Channel 缓冲大小
	Timeout    time.Duration `mapstructure:"timeout"`     // 单个任务超时
}

// InsightConfig 分析引擎业务阈值配置
// 留空的字段使用 insight.DefaultThresholds 的默认值
type InsightConfig struct {
	MinMarginPercent     float64 `mapstructure:"min_margin_percent"`     // 低利润率告警线（%）
	GoodMarginPercent    float64 `mapstructure:"good_margin_percent"`    // 利润率建议线（%）
	HealthyMarginPercent float64 `mapstructure:"healthy_margin_percent"` // 健康利润率线（%）
	FeeAlertRatio        float64 `mapstructure:"fee_alert_ratio"`        // 佣金占比告警线（0~1）
	FeeHighRatio         float64 `mapstructure:"fee_high_ratio"`         // 佣金占比高危线（0~1）
	LineFeeRatio         float64 `mapstructure:"line_fee_ratio"`         // 单笔订单高佣金线（0~1）
	UnlinkedWarnShare    float64 `mapstructure:"unlinked_warn_share"`    // 未关联成本占比告警线（0~1）
	UnlinkedHighShare    float64 `mapstructure:"unlinked_high_share"`    // 未关联成本占比高危线（0~1）
	LowTicketValue       float64 `mapstructure:"low_ticket_value"`       // 低客单价建议线（货币单位）
	ResidualTolerance    float64 `mapstructure:"residual_tolerance"`     // 差额推断容差（货币单位）
	DisableResidual      bool    `mapstructure:"disable_residual"`       // 关闭差额推断（未解释扣款不计入运费）
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	return &cfg, nil
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn is required")
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy.host is required")
	}
	if len(c.Workers) == 0 {
		return fmt.Errorf("at least one worker is required")
	}
	for _, r := range []struct {
		name  string
		value float64
	}{
		{"insight.fee_alert_ratio", c.Insight.FeeAlertRatio},
		{"insight.fee_high_ratio", c.Insight.FeeHighRatio},
		{"insight.line_fee_ratio", c.Insight.LineFeeRatio},
		{"insight.unlinked_warn_share", c.Insight.UnlinkedWarnShare},
		{"insight.unlinked_high_share", c.Insight.UnlinkedHighShare},
	} {
		if r.value < 0 || r.value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", r.name)
		}
	}
	return nil
}
