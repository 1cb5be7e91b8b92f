package business

import (
	"context"

	"mip/dpdash/internal/entity"
	"mip/dpdash/pkg/infra/redis"
)

// Store 看板数据读写接口（mysql.DashboardDAO 实现）
type Store interface {
	ListOrdersByAccount(ctx context.Context, accountID int64) ([]map[string]interface{}, error)
	ListCostItems(ctx context.Context, accountID int64) ([]entity.CostItem, error)
	GetCostItemByID(ctx context.Context, accountID int64, itemID string) (*entity.CostItem, error)
	ListCostLinks(ctx context.Context, accountID int64) ([]entity.CostLink, error)
	UpsertCostLinks(ctx context.Context, links []entity.CostLink) error
	UpdateSnapshotResult(ctx context.Context, snapshotID string, resultJSON []byte, status string, errorMsg string) error
}

// Notifier 刷新完成通知接口（redis.PubSub 实现）
type Notifier interface {
	PublishRefreshComplete(ctx context.Context, channel string, notification *redis.RefreshNotification) error
}

// CallbackPublisher 回调消息发布接口（lmstfy.Client 实现）
type CallbackPublisher interface {
	Publish(queue string, data []byte, ttl, delay uint32) error
}
