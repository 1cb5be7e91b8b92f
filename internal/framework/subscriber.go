package framework

import (
	"context"
	"sync"
	"time"
)

// Subscriber 刷新/关联 Job 的拉取端：从 lmstfy 队列消费，转交 Processor 处理
// 拉取出错只退避不退出，队列抖动不影响看板刷新
type Subscriber struct {
	cfg    *SubscriberConfig
	source MessageSource
	logger Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSubscriber 创建拉取端
func NewSubscriber(cfg *SubscriberConfig, source MessageSource, logger Logger) *Subscriber {
	return &Subscriber{
		cfg:    cfg.WithDefaults(),
		source: source,
		logger: logger,
	}
}

// Start 启动拉取协程，消息写入 inputChan
func (s *Subscriber) Start(parentCtx context.Context, inputChan chan<- *Message) error {
	ctx, cancel := context.WithCancel(parentCtx)
	s.cancel = cancel

	s.logger.Infof(ctx, "[Subscriber] %s: starting %d pullers", s.cfg.QueueName, s.cfg.Concurrency)

	for i := 0; i < s.cfg.Concurrency; i++ {
		s.wg.Add(1)
		go s.pull(ctx, i, inputChan)
	}

	return nil
}

// Stop 停止拉取新消息（已入 channel 的消息由 Processor 排空）
func (s *Subscriber) Stop() {
	s.logger.Infof(context.Background(), "[Subscriber] %s: stopping", s.cfg.QueueName)
	if s.cancel != nil {
		s.cancel()
	}
}

// Wait 等待拉取协程全部退出
func (s *Subscriber) Wait() {
	s.wg.Wait()
	s.logger.Infof(context.Background(), "[Subscriber] %s: all pullers exited", s.cfg.QueueName)
}

// pull 单协程拉取循环
func (s *Subscriber) pull(ctx context.Context, id int, inputChan chan<- *Message) {
	defer s.wg.Done()
	s.logger.Infof(ctx, "[Subscriber-%d] started on queue %s", id, s.cfg.QueueName)

	for {
		if s.stopping(ctx) {
			s.logger.Infof(ctx, "[Subscriber-%d] shutdown, exiting", id)
			return
		}

		msg, err := s.source.Consume(s.cfg.QueueName, s.cfg.Timeout, s.cfg.TTR)
		if err != nil {
			s.logger.Warnf(ctx, "[Subscriber-%d] consume failed: %v", id, err)
			s.sleep(ctx, s.cfg.ErrorBackoff)
			continue
		}
		if msg == nil {
			// 超时无消息
			continue
		}

		// 停机时未入 channel 的消息不 ACK，由 TTR 重投
		select {
		case inputChan <- msg:
			s.logger.Debugf(ctx, "[Subscriber-%d] dispatched: %s", id, msg.ID)
		case <-ctx.Done():
			s.logger.Warnf(ctx, "[Subscriber-%d] shutdown before dispatch, message left for TTR: %s", id, msg.ID)
			return
		}

		s.sleep(ctx, s.cfg.Rate)
	}
}

// stopping 判断是否已收到停机信号
func (s *Subscriber) stopping(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// sleep 可被停机信号打断的等待
func (s *Subscriber) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
