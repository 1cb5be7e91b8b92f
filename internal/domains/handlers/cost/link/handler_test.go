package link

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mip/dpdash/internal/business"
	"mip/dpdash/internal/domains/common/job"
	"mip/dpdash/internal/entity"
	"mip/dpdash/internal/model"
	"mip/dpdash/pkg/infra/redis"
)

// stubStore 内存 Store，只认一个成本条目
type stubStore struct {
	item     *entity.CostItem
	upserted []entity.CostLink
}

func (s *stubStore) ListOrdersByAccount(ctx context.Context, accountID int64) ([]map[string]interface{}, error) {
	return nil, nil
}

func (s *stubStore) ListCostItems(ctx context.Context, accountID int64) ([]entity.CostItem, error) {
	return nil, nil
}

func (s *stubStore) GetCostItemByID(ctx context.Context, accountID int64, itemID string) (*entity.CostItem, error) {
	if s.item != nil && s.item.ID == itemID {
		return s.item, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStore) ListCostLinks(ctx context.Context, accountID int64) ([]entity.CostLink, error) {
	return nil, nil
}

func (s *stubStore) UpsertCostLinks(ctx context.Context, links []entity.CostLink) error {
	s.upserted = append(s.upserted, links...)
	return nil
}

func (s *stubStore) UpdateSnapshotResult(ctx context.Context, snapshotID string, resultJSON []byte, status string, errorMsg string) error {
	return nil
}

type stubNotifier struct{}

func (stubNotifier) PublishRefreshComplete(ctx context.Context, channel string, notification *redis.RefreshNotification) error {
	return nil
}

type stubPublisher struct {
	payloads [][]byte
}

func (p *stubPublisher) Publish(queue string, data []byte, ttl, delay uint32) error {
	p.payloads = append(p.payloads, data)
	return nil
}

func newTestService(store *stubStore, publisher *stubPublisher) *business.CostLinkService {
	return business.NewCostLinkService(store, stubNotifier{}, publisher, "q_callback", "ch_notify")
}

func TestNewHandler_Validation(t *testing.T) {
	factory := NewHandler(nil)
	meta := &job.Meta{RequestID: "req-1", ActionType: "cost_link"}

	t.Run("合法业务数据", func(t *testing.T) {
		payload := map[string]interface{}{
			"account_id":   42,
			"sku":          "SKU-1",
			"title":        "Caneca Azul",
			"cost_item_id": "p1",
		}
		h, err := factory(context.Background(), meta, payload)
		require.NoError(t, err)
		require.NotNil(t, h)
	})

	t.Run("只有标题也合法", func(t *testing.T) {
		payload := map[string]interface{}{
			"account_id":   42,
			"title":        "Caneca Azul",
			"cost_item_id": "p1",
		}
		_, err := factory(context.Background(), meta, payload)
		assert.NoError(t, err)
	})

	t.Run("account_id 缺失", func(t *testing.T) {
		payload := map[string]interface{}{"sku": "SKU-1", "cost_item_id": "p1"}
		_, err := factory(context.Background(), meta, payload)
		assert.Error(t, err)
	})

	t.Run("cost_item_id 缺失", func(t *testing.T) {
		payload := map[string]interface{}{"account_id": 42, "sku": "SKU-1"}
		_, err := factory(context.Background(), meta, payload)
		assert.Error(t, err)
	})

	t.Run("sku 和标题都缺失", func(t *testing.T) {
		payload := map[string]interface{}{"account_id": 42, "cost_item_id": "p1"}
		_, err := factory(context.Background(), meta, payload)
		assert.Error(t, err)
	})
}

func TestGetProcess_Success(t *testing.T) {
	store := &stubStore{item: &entity.CostItem{ID: "p1", AccountID: 42, Name: "Caneca Azul", BaseCost: 5}}
	publisher := &stubPublisher{}
	factory := NewHandler(newTestService(store, publisher))

	meta := &job.Meta{RequestID: "req-1", ActionType: "cost_link"}
	payload := map[string]interface{}{
		"account_id":   42,
		"sku":          "SKU-1",
		"cost_item_id": "p1",
	}
	h, err := factory(context.Background(), meta, payload)
	require.NoError(t, err)

	resp := h.GetProcess()
	assert.True(t, resp.Processed)
	assert.Nil(t, resp.Error)
	assert.NotEmpty(t, store.upserted)
	assert.Len(t, publisher.payloads, 1)
}

// 成本条目不存在属于不可重试失败，要通知 dpmain 而不是留给队列重投
func TestGetProcess_MissingItemSendsFailedCallback(t *testing.T) {
	store := &stubStore{}
	publisher := &stubPublisher{}
	factory := NewHandler(newTestService(store, publisher))

	meta := &job.Meta{RequestID: "req-1", ActionType: "cost_link"}
	payload := map[string]interface{}{
		"account_id":   42,
		"sku":          "SKU-1",
		"cost_item_id": "missing",
	}
	h, err := factory(context.Background(), meta, payload)
	require.NoError(t, err)

	resp := h.GetProcess()
	assert.False(t, resp.Processed)
	require.NotNil(t, resp.Error)
	assert.False(t, resp.Error.Retryable)
	assert.Empty(t, store.upserted)

	require.Len(t, publisher.payloads, 1)
	var cb model.RefreshCallback
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &cb))
	assert.Equal(t, model.CallbackStatusFailed, cb.Status)
	assert.Equal(t, model.ActionCostLink, cb.ActionType)
	assert.NotEmpty(t, cb.Error)
}
