package business

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"mip/dpdash/internal/business/insight"
	"mip/dpdash/internal/entity"
	"mip/dpdash/internal/model"
	"mip/dpdash/pkg/errorutil"
	"mip/dpdash/pkg/infra/redis"
)

// LinkInput 成本关联输入
type LinkInput struct {
	RequestID  string
	AccountID  int64
	SKU        string
	Title      string
	CostItemID string
}

// CostLinkService 成本关联服务
// 职责：校验目录条目 → 计算规范化映射增量 → 落库 → 通知 → 回调
type CostLinkService struct {
	store         Store
	notifier      Notifier
	callbacks     CallbackPublisher
	callbackQueue string
	notifyChannel string
}

// NewCostLinkService 创建成本关联服务实例
func NewCostLinkService(
	store Store,
	notifier Notifier,
	callbacks CallbackPublisher,
	callbackQueue string,
	notifyChannel string,
) *CostLinkService {
	return &CostLinkService{
		store:         store,
		notifier:      notifier,
		callbacks:     callbacks,
		callbackQueue: callbackQueue,
		notifyChannel: notifyChannel,
	}
}

// ExecuteLink 执行一次人工成本关联
func (s *CostLinkService) ExecuteLink(ctx context.Context, input *LinkInput) error {
	// 1. 校验成本目录条目存在
	item, err := s.store.GetCostItemByID(ctx, input.AccountID, input.CostItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorutil.NonRetriable(fmt.Sprintf("cost item not found: %s", input.CostItemID))
		}
		return errorutil.RetriableWithDetails("load cost item failed", err.Error())
	}

	// 2. 计算映射增量（键规范化由引擎统一负责）
	entries := insight.ComputeLink(input.SKU, input.Title, item.ID)
	links := toLinkEntities(input.AccountID, entries)
	if len(links) == 0 {
		return errorutil.NonRetriable("sku and title are both empty after normalization")
	}

	// 3. 落库
	if err := s.store.UpsertCostLinks(ctx, links); err != nil {
		return errorutil.RetriableWithDetails("upsert cost links failed", err.Error())
	}

	// 4. 发布通知（关联变化意味着看板需要重算）
	notification := &redis.RefreshNotification{
		AccountID: input.AccountID,
		Action:    model.ActionCostLink,
		Status:    entity.SnapshotStatusReady,
		Timestamp: time.Now().Unix(),
	}
	if err := s.notifier.PublishRefreshComplete(ctx, s.notifyChannel, notification); err != nil {
		return errorutil.RetriableWithDetails("publish notification failed", err.Error())
	}

	// 5. 发送回调
	return s.sendCallback(ctx, input, nil)
}

// MarkLinkFailed 不可重试错误的收尾动作：发送失败回调通知 dpmain
func (s *CostLinkService) MarkLinkFailed(ctx context.Context, input *LinkInput, procErr error) error {
	return s.sendCallback(ctx, input, procErr)
}

// sendCallback 发送处理结果回调到 callback 队列
func (s *CostLinkService) sendCallback(ctx context.Context, input *LinkInput, procErr error) error {
	callback := model.RefreshCallback{
		RequestID:   input.RequestID,
		ActionType:  model.ActionCostLink,
		AccountID:   input.AccountID,
		ProcessedAt: time.Now().Unix(),
	}

	if procErr != nil {
		callback.Status = model.CallbackStatusFailed
		callback.Error = procErr.Error()
	} else {
		callback.Status = model.CallbackStatusSuccess
	}

	callbackJSON, err := json.Marshal(callback)
	if err != nil {
		return fmt.Errorf("failed to marshal callback: %w", err)
	}

	if err := s.callbacks.Publish(s.callbackQueue, callbackJSON, 0, 0); err != nil {
		return errorutil.RetriableWithDetails("publish callback failed", err.Error())
	}

	return nil
}

// toLinkEntities 映射增量 → 落库实体
func toLinkEntities(accountID int64, entries insight.CostLinkMap) []entity.CostLink {
	now := time.Now()
	links := make([]entity.CostLink, 0, len(entries.BySKU)+len(entries.ByTitle))

	for key, itemID := range entries.BySKU {
		links = append(links, entity.CostLink{
			AccountID:  accountID,
			Kind:       entity.CostLinkKindSKU,
			NormKey:    key,
			CostItemID: itemID,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	for key, itemID := range entries.ByTitle {
		links = append(links, entity.CostLink{
			AccountID:  accountID,
			Kind:       entity.CostLinkKindTitle,
			NormKey:    key,
			CostItemID: itemID,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	return links
}
