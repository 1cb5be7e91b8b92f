package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/atomic"

	"mip/dpdash/internal/business"
	"mip/dpdash/internal/business/insight"
	"mip/dpdash/internal/domains"
	"mip/dpdash/internal/framework"
	"mip/dpdash/pkg/config"
	"mip/dpdash/pkg/infra/mysql"
	"mip/dpdash/pkg/infra/redis"
	"mip/dpdash/pkg/lmstfy"
	"mip/dpdash/pkg/logger"
)

// Manager 接口
type Manager interface {
	Start() error
	Shutdown()
}

// ManagerInstance Manager 实例
type ManagerInstance struct {
	ctx           context.Context
	cfg           *config.Config
	dao           *mysql.DashboardDAO
	pubsub        *redis.PubSub
	lmstfyClient  *lmstfy.Client
	deps          *domains.Deps
	callbackQueue string
	workers       []Worker
	closing       *atomic.Bool
	shutdownCh    chan struct{}
	wg            sync.WaitGroup
	mu            sync.RWMutex
	logger        logger.Logger
}

// NewManagerInstance 创建 Manager（初始化全部基础设施和业务服务）
func NewManagerInstance(cfg *config.Config, log logger.Logger) (Manager, error) {
	ctx := context.Background()

	// 初始化 MySQL DAO
	dao, err := mysql.NewDashboardDAO(cfg.MySQL.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard dao: %w", err)
	}

	// 初始化 Redis PubSub
	pubsub, err := redis.NewPubSub(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis pubsub: %w", err)
	}

	// 初始化 lmstfy 客户端
	lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create lmstfy client: %w", err)
	}

	var callbackQueue string
	if len(cfg.Workers) > 0 {
		callbackQueue = cfg.Workers[0].CallbackQueue
	}
	if callbackQueue == "" {
		return nil, fmt.Errorf("callback_queue is required in worker config")
	}

	// 初始化业务服务
	thresholds := toThresholds(cfg.Insight)
	deps := &domains.Deps{
		Dashboard: business.NewDashboardService(dao, pubsub, lmstfyClient, callbackQueue, cfg.Redis.Channel, thresholds),
		CostLink:  business.NewCostLinkService(dao, pubsub, lmstfyClient, callbackQueue, cfg.Redis.Channel),
	}

	log.Infof(ctx, "[Manager] Initialized with callback_queue: %s, notify_channel: %s",
		callbackQueue, cfg.Redis.Channel)

	return &ManagerInstance{
		ctx:           ctx,
		cfg:           cfg,
		dao:           dao,
		pubsub:        pubsub,
		lmstfyClient:  lmstfyClient,
		deps:          deps,
		callbackQueue: callbackQueue,
		closing:       atomic.NewBool(false),
		shutdownCh:    make(chan struct{}),
		workers:       make([]Worker, 0),
		logger:        log,
	}, nil
}

// Start 启动 Manager
func (m *ManagerInstance) Start() error {
	m.logger.Infof(m.ctx, "[Manager] Starting...")

	// 1. 加载所有 Worker
	if err := m.loadWorkers(); err != nil {
		return fmt.Errorf("failed to load workers: %w", err)
	}

	m.logger.Infof(m.ctx, "[Manager] All workers loaded, count: %d", len(m.workers))

	// 2. 启动所有 Worker（每个 Worker 在独立 goroutine）
	for _, worker := range m.workers {
		w := worker
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			w.Start()
		}()
		m.logger.Infof(m.ctx, "[Manager] Worker started: %s", w.GetName())
	}

	m.logger.Infof(m.ctx, "[Manager] Start success")

	// 3. 阻塞等待退出信号
	<-m.shutdownCh

	return nil
}

// Shutdown 优雅退出
func (m *ManagerInstance) Shutdown() {
	m.logger.Infof(m.ctx, "[Manager] Began to close")

	// 原子操作，保证并发安全
	if m.closing.CAS(false, true) {
		// 1. 所有 Worker 安全退出
		for _, worker := range m.workers {
			m.logger.Infof(m.ctx, "[Manager] Shutting down worker: %s", worker.GetName())
			worker.Shutdown()
		}

		// 2. 等待所有 Worker 退出
		m.wg.Wait()

		// 3. 关闭基础设施连接
		if err := m.pubsub.Close(); err != nil {
			m.logger.Warnf(m.ctx, "[Manager] Close redis failed: %v", err)
		}
		if err := m.dao.Close(); err != nil {
			m.logger.Warnf(m.ctx, "[Manager] Close mysql failed: %v", err)
		}

		// 4. 关闭信号通道
		close(m.shutdownCh)

		m.logger.Infof(m.ctx, "[Manager] Shutdown complete")
	}
}

// loadWorkers 加载所有 Worker
func (m *ManagerInstance) loadWorkers() error {
	// 路由表只构建一次，所有 Worker 共享
	handlerMap := domains.BuildHandlerMap(m.deps)

	// 遍历配置中的所有 Worker
	for _, workerCfg := range m.cfg.Workers {
		// 创建 Subscriber 配置
		subCfg := &framework.SubscriberConfig{
			QueueName:    workerCfg.QueueName,
			Concurrency:  workerCfg.Subscriber.Threads,
			Rate:         workerCfg.Subscriber.Rate,
			Timeout:      workerCfg.Subscriber.Timeout,
			TTR:          workerCfg.Subscriber.TTR,
			ErrorBackoff: workerCfg.Subscriber.ErrorBackoff,
		}

		// 创建 Processor 配置
		procCfg := &framework.ProcessorConfig{
			Concurrency: workerCfg.Processor.Threads,
			BufferSize:  workerCfg.Processor.BufferSize,
			Timeout:     workerCfg.Processor.Timeout,
		}

		// 获取 GetProcess 函数
		getProcess := domains.GetProcess(m.logger, handlerMap)

		// 创建 Worker 实例
		worker, err := NewWorkerInstance(
			m.ctx,
			workerCfg.Name,
			subCfg,
			procCfg,
			m.lmstfyClient, // MessageSource
			getProcess,     // lmstfyx.Proc
			m.logger,
		)
		if err != nil {
			return fmt.Errorf("failed to create worker %s: %w", workerCfg.Name, err)
		}

		m.workers = append(m.workers, worker)
	}

	return nil
}

// toThresholds 配置 → 引擎阈值（留空字段由引擎回落默认值）
func toThresholds(cfg config.InsightConfig) insight.Thresholds {
	return insight.Thresholds{
		MinMarginPercent:     cfg.MinMarginPercent,
		GoodMarginPercent:    cfg.GoodMarginPercent,
		HealthyMarginPercent: cfg.HealthyMarginPercent,
		FeeAlertRatio:        cfg.FeeAlertRatio,
		FeeHighRatio:         cfg.FeeHighRatio,
		LineFeeRatio:         cfg.LineFeeRatio,
		UnlinkedWarnShare:    cfg.UnlinkedWarnShare,
		UnlinkedHighShare:    cfg.UnlinkedHighShare,
		LowTicketValue:       cfg.LowTicketValue,
		ResidualTolerance:    cfg.ResidualTolerance,
		DisableResidual:      cfg.DisableResidual,
	}
}
