package model

// 动作类型常量（HandlerMap 路由键）
const (
	ActionDashboardRefresh = "dashboard_refresh"
	ActionCostLink         = "cost_link"
)

// DashboardRefreshJob 看板刷新任务消息（标准化）
// 用于 dpmain → dpdash 的消息传递
type DashboardRefreshJob struct {
	Payload DashboardRefreshPayload `json:"payload"`
}

// DashboardRefreshPayload Job 负载
type DashboardRefreshPayload struct {
	Data DashboardRefreshData `json:"data"`
}

// DashboardRefreshData Job 数据层
type DashboardRefreshData struct {
	// 元信息
	RequestID  string `json:"request_id"`  // 请求 ID（全链路追踪）
	OrgID      string `json:"org_id"`      // 组织 ID（MVP 固定为 "0"）
	ActionType string `json:"action_type"` // 动作类型，固定值 "dashboard_refresh"
	ID         string `json:"id"`          // 快照 ID

	// 业务数据
	Data DashboardRefreshBusinessData `json:"data"`
}

// DashboardRefreshBusinessData 看板刷新业务数据
type DashboardRefreshBusinessData struct {
	SnapshotID  string `json:"snapshot_id"`  // 快照 ID（dpmain 预建的 REFRESHING 行）
	AccountID   int64  `json:"account_id"`   // 账户 ID
	PeriodStart int64  `json:"period_start"` // 聚合周期起点（Unix 秒，0 表示不限）
	PeriodEnd   int64  `json:"period_end"`   // 聚合周期终点（Unix 秒，0 表示不限）
}

// CostLinkBusinessData 成本关联业务数据
// 用户在看板上把一行销售关联到成本目录条目时触发
type CostLinkBusinessData struct {
	AccountID  int64  `json:"account_id"`   // 账户 ID
	SKU        string `json:"sku"`          // 订单行 SKU（可为空）
	Title      string `json:"title"`        // 订单行标题（可为空）
	CostItemID string `json:"cost_item_id"` // 成本目录条目 ID
}
