package model

// RefreshCallback 看板刷新回调消息（标准化）
// 用于 dpdash → dpmain callback consumer 的消息传递
type RefreshCallback struct {
	RequestID   string `json:"request_id"`           // 对应请求的 request_id（链路追踪）
	ActionType  string `json:"action_type"`          // 触发回调的动作类型
	SnapshotID  string `json:"snapshot_id,omitempty"` // 快照 ID（刷新动作返回）
	AccountID   int64  `json:"account_id"`           // 账户 ID
	Status      string `json:"status"`               // 回调状态: SUCCESS / FAILED
	Error       string `json:"error,omitempty"`      // 错误信息（失败时返回）
	ProcessedAt int64  `json:"processed_at"`         // 处理时间戳（Unix timestamp）
}

// 回调状态常量
const (
	CallbackStatusSuccess = "SUCCESS" // 处理成功
	CallbackStatusFailed  = "FAILED"  // 处理失败
)
