package business

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mip/dpdash/internal/business/insight"
	"mip/dpdash/internal/entity"
	"mip/dpdash/internal/model"
	"mip/dpdash/pkg/errorutil"
	"mip/dpdash/pkg/infra/redis"
)

// RefreshInput 看板刷新输入
type RefreshInput struct {
	RequestID  string
	SnapshotID string
	AccountID  int64
	Period     insight.Period
}

// DashboardService 看板刷新服务
// 职责：加载输入 → 运行分析引擎 → 回填快照 → 通知 → 回调
type DashboardService struct {
	store         Store
	notifier      Notifier
	callbacks     CallbackPublisher
	callbackQueue string
	notifyChannel string
	thresholds    insight.Thresholds
}

// NewDashboardService 创建看板刷新服务实例
func NewDashboardService(
	store Store,
	notifier Notifier,
	callbacks CallbackPublisher,
	callbackQueue string,
	notifyChannel string,
	thresholds insight.Thresholds,
) *DashboardService {
	return &DashboardService{
		store:         store,
		notifier:      notifier,
		callbacks:     callbacks,
		callbackQueue: callbackQueue,
		notifyChannel: notifyChannel,
		thresholds:    thresholds.OrDefaults(),
	}
}

// ExecuteRefresh 执行一次看板全量重算
// 引擎本身是纯函数不会失败；基础设施错误标记为可重试，交给队列重投
func (s *DashboardService) ExecuteRefresh(ctx context.Context, input *RefreshInput) (*insight.Result, error) {
	// 1. 加载引擎输入（订单原始数据 + 成本目录 + 关联映射）
	rawOrders, err := s.store.ListOrdersByAccount(ctx, input.AccountID)
	if err != nil {
		return nil, errorutil.RetriableWithDetails("load orders failed", err.Error())
	}

	items, err := s.store.ListCostItems(ctx, input.AccountID)
	if err != nil {
		return nil, errorutil.RetriableWithDetails("load cost items failed", err.Error())
	}

	links, err := s.store.ListCostLinks(ctx, input.AccountID)
	if err != nil {
		return nil, errorutil.RetriableWithDetails("load cost links failed", err.Error())
	}

	// 2. 全量重算（纯函数，对相同输入产出相同结果）
	result := insight.Recompute(rawOrders, toCatalog(items), toLinkMap(links), input.Period, s.thresholds)

	// 3. 回填快照
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := s.store.UpdateSnapshotResult(ctx, input.SnapshotID, resultJSON, entity.SnapshotStatusReady, ""); err != nil {
		return nil, errorutil.RetriableWithDetails("update snapshot failed", err.Error())
	}

	// 4. 发布刷新完成通知
	notification := &redis.RefreshNotification{
		AccountID:  input.AccountID,
		SnapshotID: input.SnapshotID,
		Action:     model.ActionDashboardRefresh,
		Status:     entity.SnapshotStatusReady,
		Timestamp:  time.Now().Unix(),
	}
	if err := s.notifier.PublishRefreshComplete(ctx, s.notifyChannel, notification); err != nil {
		return nil, errorutil.RetriableWithDetails("publish notification failed", err.Error())
	}

	// 5. 发送回调
	if err := s.sendCallback(ctx, input, nil); err != nil {
		return nil, err
	}

	return result, nil
}

// sendCallback 发送处理结果回调到 callback 队列
func (s *DashboardService) sendCallback(ctx context.Context, input *RefreshInput, procErr error) error {
	callback := model.RefreshCallback{
		RequestID:   input.RequestID,
		ActionType:  model.ActionDashboardRefresh,
		SnapshotID:  input.SnapshotID,
		AccountID:   input.AccountID,
		ProcessedAt: time.Now().Unix(),
	}

	if procErr != nil {
		callback.Status = model.CallbackStatusFailed
		callback.Error = procErr.Error()
	} else {
		callback.Status = model.CallbackStatusSuccess
	}

	// 序列化回调消息为 JSON
	callbackJSON, err := json.Marshal(callback)
	if err != nil {
		return fmt.Errorf("failed to marshal callback: %w", err)
	}

	// ttl=0 表示永不过期, delay=0 表示立即可用
	if err := s.callbacks.Publish(s.callbackQueue, callbackJSON, 0, 0); err != nil {
		return errorutil.RetriableWithDetails("publish callback failed", err.Error())
	}

	return nil
}

// MarkRefreshFailed 不可重试错误的收尾动作：快照置 FAILED 并发送失败回调
// 不收尾的话快照会永远停在 REFRESHING，dpmain 也收不到失败通知
func (s *DashboardService) MarkRefreshFailed(ctx context.Context, input *RefreshInput, procErr error) error {
	msg := ""
	if procErr != nil {
		msg = procErr.Error()
	}

	if err := s.store.UpdateSnapshotResult(ctx, input.SnapshotID, nil, entity.SnapshotStatusFailed, msg); err != nil {
		return fmt.Errorf("failed to mark snapshot failed: %w", err)
	}

	return s.sendCallback(ctx, input, procErr)
}

// toCatalog 成本目录实体 → 引擎输入
func toCatalog(items []entity.CostItem) []insight.CostCatalogEntry {
	catalog := make([]insight.CostCatalogEntry, 0, len(items))
	for _, item := range items {
		catalog = append(catalog, insight.CostCatalogEntry{
			ID:       item.ID,
			Name:     item.Name,
			BaseCost: item.BaseCost,
		})
	}
	return catalog
}

// toLinkMap 成本关联实体 → 引擎输入
func toLinkMap(links []entity.CostLink) insight.CostLinkMap {
	linkMap := insight.CostLinkMap{
		BySKU:   make(map[string]string, len(links)),
		ByTitle: make(map[string]string, len(links)),
	}
	for _, link := range links {
		switch link.Kind {
		case entity.CostLinkKindSKU:
			linkMap.BySKU[link.NormKey] = link.CostItemID
		case entity.CostLinkKindTitle:
			linkMap.ByTitle[link.NormKey] = link.CostItemID
		}
	}
	return linkMap
}
