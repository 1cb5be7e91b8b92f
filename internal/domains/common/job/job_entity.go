package job

// Job dpmain 下发的标准 Job 信封
// 刷新与成本关联共用同一结构，由 action_type 路由到对应 Handler
type Job struct {
	Payload *JobPayload `json:"payload"`
}

// JobPayload Job 负载
type JobPayload struct {
	Data *JobPayloadData `json:"data"`
}

// JobPayloadData Job 数据：元信息 + 业务数据
type JobPayloadData struct {
	RequestID  string `json:"request_id"`  // 请求 ID（空时消费侧自动生成）
	OrgID      string `json:"org_id"`      // 组织 ID
	ActionType string `json:"action_type"` // 路由键：dashboard_refresh / cost_link
	ID         string `json:"id"`          // 业务 ID（刷新场景为快照 ID）

	Data interface{} `json:"data"` // 业务数据，由各 Handler 自行解析

	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Meta 提取元数据（业务数据留给 Handler）
func (d *JobPayloadData) Meta() *Meta {
	return &Meta{
		RequestID:  d.RequestID,
		OrgID:      d.OrgID,
		ActionType: d.ActionType,
		ID:         d.ID,
	}
}

// Meta Job 元数据
type Meta struct {
	RequestID  string // 请求 ID（贯穿日志与回调）
	OrgID      string // 组织 ID
	ActionType string // 动作类型
	ID         string // 业务 ID
}
