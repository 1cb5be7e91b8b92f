package business

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mip/dpdash/internal/business/insight"
	"mip/dpdash/internal/entity"
	"mip/dpdash/internal/model"
	"mip/dpdash/pkg/errorutil"
	"mip/dpdash/pkg/infra/redis"
)

// fakeStore 内存版 Store，记录快照与关联写入
type fakeStore struct {
	orders    []map[string]interface{}
	ordersErr error
	items     []entity.CostItem
	links     []entity.CostLink

	upserted  []entity.CostLink
	upsertErr error

	snapshotID     string
	snapshotStatus string
	snapshotErrMsg string
	snapshotResult []byte
	updateErr      error
}

func (f *fakeStore) ListOrdersByAccount(ctx context.Context, accountID int64) ([]map[string]interface{}, error) {
	return f.orders, f.ordersErr
}

func (f *fakeStore) ListCostItems(ctx context.Context, accountID int64) ([]entity.CostItem, error) {
	return f.items, nil
}

func (f *fakeStore) GetCostItemByID(ctx context.Context, accountID int64, itemID string) (*entity.CostItem, error) {
	for i := range f.items {
		if f.items[i].ID == itemID {
			return &f.items[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) ListCostLinks(ctx context.Context, accountID int64) ([]entity.CostLink, error) {
	return f.links, nil
}

func (f *fakeStore) UpsertCostLinks(ctx context.Context, links []entity.CostLink) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, links...)
	return nil
}

func (f *fakeStore) UpdateSnapshotResult(ctx context.Context, snapshotID string, resultJSON []byte, status string, errorMsg string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.snapshotID = snapshotID
	f.snapshotResult = resultJSON
	f.snapshotStatus = status
	f.snapshotErrMsg = errorMsg
	return nil
}

// fakeNotifier 记录发布的通知
type fakeNotifier struct {
	channel       string
	notifications []*redis.RefreshNotification
}

func (f *fakeNotifier) PublishRefreshComplete(ctx context.Context, channel string, notification *redis.RefreshNotification) error {
	f.channel = channel
	f.notifications = append(f.notifications, notification)
	return nil
}

// fakePublisher 记录发布的回调消息
type fakePublisher struct {
	queue    string
	payloads [][]byte
}

func (f *fakePublisher) Publish(queue string, data []byte, ttl, delay uint32) error {
	f.queue = queue
	f.payloads = append(f.payloads, data)
	return nil
}

func (f *fakePublisher) lastCallback(t *testing.T) model.RefreshCallback {
	t.Helper()
	require.NotEmpty(t, f.payloads)

	var cb model.RefreshCallback
	require.NoError(t, json.Unmarshal(f.payloads[len(f.payloads)-1], &cb))
	return cb
}

func newDashboardFixture() (*DashboardService, *fakeStore, *fakeNotifier, *fakePublisher) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	svc := NewDashboardService(store, notifier, publisher, "q_callback", "ch_notify", insight.Thresholds{})
	return svc, store, notifier, publisher
}

func refreshInput() *RefreshInput {
	return &RefreshInput{
		RequestID:  "req-1",
		SnapshotID: "snap-1",
		AccountID:  42,
	}
}

func TestExecuteRefresh_SnapshotReadyAndCallbackSuccess(t *testing.T) {
	svc, store, notifier, publisher := newDashboardFixture()

	result, err := svc.ExecuteRefresh(context.Background(), refreshInput())
	require.NoError(t, err)
	require.NotNil(t, result)

	// 快照回填为 READY，结果 JSON 已写入
	assert.Equal(t, "snap-1", store.snapshotID)
	assert.Equal(t, entity.SnapshotStatusReady, store.snapshotStatus)
	assert.Empty(t, store.snapshotErrMsg)
	assert.NotEmpty(t, store.snapshotResult)

	// 通知与回调都已发出
	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, "ch_notify", notifier.channel)
	assert.Equal(t, entity.SnapshotStatusReady, notifier.notifications[0].Status)

	cb := publisher.lastCallback(t)
	assert.Equal(t, "q_callback", publisher.queue)
	assert.Equal(t, model.CallbackStatusSuccess, cb.Status)
	assert.Equal(t, "req-1", cb.RequestID)
	assert.Equal(t, "snap-1", cb.SnapshotID)
	assert.Empty(t, cb.Error)
}

func TestExecuteRefresh_LoadFailureIsRetryable(t *testing.T) {
	svc, store, _, publisher := newDashboardFixture()
	store.ordersErr = assert.AnError

	_, err := svc.ExecuteRefresh(context.Background(), refreshInput())
	require.Error(t, err)

	// 基础设施错误交给队列重投，快照不动、回调不发
	assert.True(t, errorutil.IsRetryable(err))
	assert.Empty(t, store.snapshotStatus)
	assert.Empty(t, publisher.payloads)
}

func TestMarkRefreshFailed_SnapshotFailedAndCallbackFailed(t *testing.T) {
	svc, store, _, publisher := newDashboardFixture()

	procErr := errorutil.NonRetriable("period_end is before period_start")
	require.NoError(t, svc.MarkRefreshFailed(context.Background(), refreshInput(), procErr))

	// 快照置 FAILED 并带上错误信息，不再停留在 REFRESHING
	assert.Equal(t, "snap-1", store.snapshotID)
	assert.Equal(t, entity.SnapshotStatusFailed, store.snapshotStatus)
	assert.Equal(t, "period_end is before period_start", store.snapshotErrMsg)
	assert.Empty(t, store.snapshotResult)

	cb := publisher.lastCallback(t)
	assert.Equal(t, model.CallbackStatusFailed, cb.Status)
	assert.Equal(t, "period_end is before period_start", cb.Error)
	assert.Equal(t, "snap-1", cb.SnapshotID)
}

func TestMarkRefreshFailed_StoreErrorPropagates(t *testing.T) {
	svc, store, _, publisher := newDashboardFixture()
	store.updateErr = assert.AnError

	err := svc.MarkRefreshFailed(context.Background(), refreshInput(), errorutil.NonRetriable("boom"))
	require.Error(t, err)
	assert.Empty(t, publisher.payloads)
}
