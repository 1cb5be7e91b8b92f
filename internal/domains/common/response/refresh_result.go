package response

import (
	"mip/dpdash/internal/domains/common/job"
	"mip/dpdash/pkg/errorutil"
)

// RefreshResult 刷新/关联处理结果（实现 ResultI 接口）
type RefreshResult struct {
	ID     string           `json:"id"`
	Status string           `json:"status"`
	Data   interface{}      `json:"data"`
	Error  *errorutil.Error `json:"error,omitempty"`
}

// 处理结果状态常量
const (
	RefreshStatusSuccess = "SUCCESS"
	RefreshStatusFailed  = "FAILED"
)

// NewRefreshResult 创建刷新结果
func NewRefreshResult() *RefreshResult {
	return &RefreshResult{}
}

// Set 实现 ResultI 接口
func (r *RefreshResult) Set(meta *job.Meta, err error) {
	r.ID = meta.ID
	if err != nil {
		r.Status = RefreshStatusFailed
		r.Error = errorutil.Wrap(err)
	} else {
		r.Status = RefreshStatusSuccess
	}
}

// GetStatus 实现 ResultI 接口
func (r *RefreshResult) GetStatus() string {
	return r.Status
}
