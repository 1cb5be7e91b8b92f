package domains

import (
	"context"
	"fmt"
	"testing"

	"github.com/bitleak/lmstfy/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mip/dpdash/internal/domains/common"
	"mip/dpdash/internal/domains/common/job"
	"mip/dpdash/internal/domains/common/response"
	"mip/dpdash/pkg/errorutil"
	"mip/dpdash/pkg/lmstfyx"
)

// nopLogger 测试用空日志实现
type nopLogger struct{}

func (nopLogger) Debugf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Infof(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Warnf(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Errorf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Sync() error                                                    { return nil }

func TestParseJob(t *testing.T) {
	log := nopLogger{}

	t.Run("标准消息", func(t *testing.T) {
		lmstfyJob := &client.Job{
			ID: "job-1",
			Data: []byte(`{
				"payload": {
					"data": {
						"request_id": "req-1",
						"org_id": "0",
						"action_type": "dashboard_refresh",
						"id": "snap-1",
						"data": {"account_id": 42}
					}
				}
			}`),
		}

		standardJob, meta, bizPayload, err := parseJob(context.Background(), lmstfyJob, log)
		require.NoError(t, err)

		assert.Equal(t, "req-1", meta.RequestID)
		assert.Equal(t, "dashboard_refresh", meta.ActionType)
		assert.Equal(t, "snap-1", meta.ID)
		assert.Equal(t, "dashboard_refresh", standardJob.Payload.Data.ActionType)

		biz, ok := bizPayload.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(42), biz["account_id"])
	})

	t.Run("request_id 缺失时自动生成", func(t *testing.T) {
		lmstfyJob := &client.Job{
			ID:   "job-2",
			Data: []byte(`{"payload":{"data":{"action_type":"cost_link","data":{}}}}`),
		}

		_, meta, _, err := parseJob(context.Background(), lmstfyJob, log)
		require.NoError(t, err)
		assert.NotEmpty(t, meta.RequestID)
	})

	t.Run("非法 JSON", func(t *testing.T) {
		lmstfyJob := &client.Job{ID: "job-3", Data: []byte(`{broken`)}
		_, _, _, err := parseJob(context.Background(), lmstfyJob, log)
		assert.Error(t, err)
	})

	t.Run("payload.data 缺失", func(t *testing.T) {
		lmstfyJob := &client.Job{ID: "job-4", Data: []byte(`{"payload":{}}`)}
		_, _, _, err := parseJob(context.Background(), lmstfyJob, log)
		assert.Error(t, err)
	})
}

func TestDoJobReport(t *testing.T) {
	log := nopLogger{}
	meta := &job.Meta{RequestID: "req-1", ActionType: "dashboard_refresh", ID: "snap-1"}

	t.Run("处理成功 ACK", func(t *testing.T) {
		resp := &response.Response{}
		resp.WrapResponse(response.NewRefreshResult(), meta, nil)

		jobResp := doJobReport(context.Background(), resp, log)
		assert.Equal(t, lmstfyx.JobRespStatusSuccess, jobResp.Action)
		assert.NotEmpty(t, jobResp.Data)
	})

	t.Run("可重试错误 Release", func(t *testing.T) {
		resp := &response.Response{}
		resp.WrapResponse(response.NewRefreshResult(), meta, errorutil.Retriable("load orders failed"))

		jobResp := doJobReport(context.Background(), resp, log)
		assert.Equal(t, lmstfyx.JobRespStatusRelease, jobResp.Action)
	})

	t.Run("函数链包装后的可重试错误仍然 Release", func(t *testing.T) {
		wrapped := fmt.Errorf("step[1] failed: %w", errorutil.Retriable("load orders failed"))
		resp := &response.Response{}
		resp.WrapResponse(response.NewRefreshResult(), meta, wrapped)

		jobResp := doJobReport(context.Background(), resp, log)
		assert.Equal(t, lmstfyx.JobRespStatusRelease, jobResp.Action)
	})

	t.Run("不可重试错误 Bury", func(t *testing.T) {
		resp := &response.Response{}
		resp.WrapResponse(response.NewRefreshResult(), meta, errorutil.NonRetriable("cost item not found"))

		jobResp := doJobReport(context.Background(), resp, log)
		assert.Equal(t, lmstfyx.JobRespStatusBury, jobResp.Action)
	})
}

func TestGetProcess_UnknownAction(t *testing.T) {
	proc := GetProcess(nopLogger{}, map[string]common.HandlerServProc{})

	lmstfyJob := &client.Job{
		ID:   "job-5",
		Data: []byte(`{"payload":{"data":{"action_type":"unknown_action","data":{}}}}`),
	}

	resp := proc(context.Background(), lmstfyJob)
	assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
}
