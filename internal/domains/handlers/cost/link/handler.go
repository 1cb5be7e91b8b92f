package link

import (
	"context"
	"encoding/json"
	"fmt"

	"mip/dpdash/internal/business"
	"mip/dpdash/internal/domains/common"
	"mip/dpdash/internal/domains/common/job"
	"mip/dpdash/internal/domains/common/response"
	"mip/dpdash/internal/model"
	"mip/dpdash/pkg/errorutil"
)

// Handler 成本关联 Handler
type Handler struct {
	ctx     context.Context
	meta    *job.Meta
	bizData *model.CostLinkBusinessData
	service *business.CostLinkService
}

// NewHandler 返回成本关联 Handler 构造函数（绑定服务依赖）
func NewHandler(service *business.CostLinkService) common.HandlerServProc {
	return func(ctx context.Context, meta *job.Meta, payload interface{}) (common.HandlerServ, error) {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload failed: %w", err)
		}

		var bizData model.CostLinkBusinessData
		if err := json.Unmarshal(payloadBytes, &bizData); err != nil {
			return nil, fmt.Errorf("unmarshal business data failed: %w", err)
		}

		// 校验必填字段
		if bizData.AccountID <= 0 {
			return nil, fmt.Errorf("account_id is required")
		}
		if bizData.CostItemID == "" {
			return nil, fmt.Errorf("cost_item_id is required")
		}
		if bizData.SKU == "" && bizData.Title == "" {
			return nil, fmt.Errorf("sku or title is required")
		}

		return &Handler{
			ctx:     ctx,
			meta:    meta,
			bizData: &bizData,
			service: service,
		}, nil
	}
}

// GetProcess 处理成本关联请求
func (h *Handler) GetProcess() *response.Response {
	result := response.NewRefreshResult()

	err := h.service.ExecuteLink(h.ctx, h.input())

	if err == nil {
		result.Data = map[string]interface{}{
			"cost_item_id": h.bizData.CostItemID,
		}
	} else if !errorutil.IsRetryable(err) {
		// 不可重试失败：发送失败回调，消息随后被丢弃不再重投
		if cbErr := h.service.MarkLinkFailed(h.ctx, h.input(), err); cbErr != nil {
			err = fmt.Errorf("%w; send failure callback failed: %v", err, cbErr)
		}
	}

	resp := &response.Response{}
	resp.WrapResponse(result, h.meta, err)

	return resp
}

// input 组装服务层输入
func (h *Handler) input() *business.LinkInput {
	return &business.LinkInput{
		RequestID:  h.meta.RequestID,
		AccountID:  h.bizData.AccountID,
		SKU:        h.bizData.SKU,
		Title:      h.bizData.Title,
		CostItemID: h.bizData.CostItemID,
	}
}
