package framework

import "time"

// 配置缺省值（配置留空时兜底，避免 0 并发/0 缓冲把流水线卡死）
const (
	defaultConcurrency  = 1
	defaultBufferSize   = 16
	defaultPullTimeout  = 3 * time.Second
	defaultTTR          = 60 * time.Second
	defaultProcTimeout  = 30 * time.Second
	defaultErrorBackoff = time.Second
)

// SubscriberConfig Subscriber 配置
type SubscriberConfig struct {
	QueueName    string        // 拉取的 Job 队列
	Concurrency  int           // 并发拉取数
	Timeout      time.Duration // 单次拉取超时
	TTR          time.Duration // Time-To-Run：超时未 ACK 由队列重投
	Rate         time.Duration // 拉取间隔（速率限制）
	ErrorBackoff time.Duration // 拉取出错后的退避时间
}

// WithDefaults 空字段填充缺省值
func (c *SubscriberConfig) WithDefaults() *SubscriberConfig {
	if c.Concurrency < 1 {
		c.Concurrency = defaultConcurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultPullTimeout
	}
	if c.TTR <= 0 {
		c.TTR = defaultTTR
	}
	if c.ErrorBackoff <= 0 {
		c.ErrorBackoff = defaultErrorBackoff
	}
	return c
}

// ProcessorConfig Processor 配置
type ProcessorConfig struct {
	Concurrency int           // 并发处理数
	BufferSize  int           // Subscriber → Processor 的 channel 缓冲
	Timeout     time.Duration // 单个 Job 的处理超时
}

// WithDefaults 空字段填充缺省值
func (c *ProcessorConfig) WithDefaults() *ProcessorConfig {
	if c.Concurrency < 1 {
		c.Concurrency = defaultConcurrency
	}
	if c.BufferSize < 1 {
		c.BufferSize = defaultBufferSize
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultProcTimeout
	}
	return c
}
