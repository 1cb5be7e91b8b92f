package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mip/dpdash/internal/business"
	"mip/dpdash/internal/business/insight"
	"mip/dpdash/internal/domains/common"
	"mip/dpdash/internal/domains/common/job"
	"mip/dpdash/internal/domains/common/response"
	"mip/dpdash/internal/framework"
	"mip/dpdash/internal/model"
	"mip/dpdash/pkg/errorutil"
)

// Handler 看板刷新 Handler
type Handler struct {
	ctx     context.Context
	meta    *job.Meta
	bizData *model.DashboardRefreshBusinessData
	service *business.DashboardService
	result  *insight.Result
}

// NewHandler 返回看板刷新 Handler 构造函数（绑定服务依赖）
// 构造时解析并校验标准化 Job 消息
func NewHandler(service *business.DashboardService) common.HandlerServProc {
	return func(ctx context.Context, meta *job.Meta, payload interface{}) (common.HandlerServ, error) {
		// 解析 payload（业务数据）
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload failed: %w", err)
		}

		var bizData model.DashboardRefreshBusinessData
		if err := json.Unmarshal(payloadBytes, &bizData); err != nil {
			return nil, fmt.Errorf("unmarshal business data failed: %w", err)
		}

		// 校验必填字段
		if bizData.AccountID <= 0 {
			return nil, fmt.Errorf("account_id is required")
		}
		// 快照 ID 缺失时回落到 Job 的业务 ID
		if bizData.SnapshotID == "" {
			bizData.SnapshotID = meta.ID
		}
		if bizData.SnapshotID == "" {
			return nil, fmt.Errorf("snapshot_id is required")
		}

		return &Handler{
			ctx:     ctx,
			meta:    meta,
			bizData: &bizData,
			service: service,
		}, nil
	}
}

// GetProcess 处理刷新请求
func (h *Handler) GetProcess() *response.Response {
	// 创建结果
	result := response.NewRefreshResult()

	// 处理业务逻辑（函数链）
	chain := framework.NewPreProcessor(h.preCheck, h.execute)
	err := chain.Run(h.ctx)

	if err == nil {
		result.Data = h.summary()
	} else if !errorutil.IsRetryable(err) {
		// 不可重试失败：快照置 FAILED 并发送失败回调，消息随后被丢弃不再重投
		if markErr := h.service.MarkRefreshFailed(h.ctx, h.input(), err); markErr != nil {
			err = fmt.Errorf("%w; mark snapshot failed: %v", err, markErr)
		}
	}

	// 包装响应
	resp := &response.Response{}
	resp.WrapResponse(result, h.meta, err)

	return resp
}

// preCheck 周期参数校验
func (h *Handler) preCheck(ctx context.Context) error {
	if h.bizData.PeriodStart > 0 && h.bizData.PeriodEnd > 0 &&
		h.bizData.PeriodEnd < h.bizData.PeriodStart {
		return fmt.Errorf("period_end is before period_start")
	}
	return nil
}

// execute 执行刷新
func (h *Handler) execute(ctx context.Context) error {
	result, err := h.service.ExecuteRefresh(ctx, h.input())
	if err != nil {
		return err
	}

	h.result = result
	return nil
}

// input 组装服务层输入
func (h *Handler) input() *business.RefreshInput {
	return &business.RefreshInput{
		RequestID:  h.meta.RequestID,
		SnapshotID: h.bizData.SnapshotID,
		AccountID:  h.bizData.AccountID,
		Period:     toPeriod(h.bizData.PeriodStart, h.bizData.PeriodEnd),
	}
}

// summary 回执里只带统计摘要，完整结果走快照表
func (h *Handler) summary() map[string]interface{} {
	return map[string]interface{}{
		"snapshot_id":    h.bizData.SnapshotID,
		"orders_count":   h.result.Stats.OrdersCount,
		"gross_revenue":  h.result.Stats.GrossRevenue,
		"margin_percent": h.result.Stats.MarginPercent,
		"alerts_count":   len(h.result.Alerts),
	}
}

// toPeriod Unix 秒边界 → 引擎周期（0 表示不限）
func toPeriod(start, end int64) insight.Period {
	p := insight.Period{}
	if start > 0 {
		p.Start = time.Unix(start, 0).UTC()
	}
	if end > 0 {
		p.End = time.Unix(end, 0).UTC()
	}
	return p
}
