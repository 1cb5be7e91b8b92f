package entity

import (
	"time"

	"gorm.io/datatypes"
)

// DashboardSnapshot 看板快照（dpmain 创建，worker 回填结果）
type DashboardSnapshot struct {
	ID        string `gorm:"column:id;primaryKey;type:varchar(64)"`
	AccountID int64  `gorm:"column:account_id;not null;index:idx_snapshot_account"`

	// 聚合周期
	PeriodStart time.Time `gorm:"column:period_start;not null"`
	PeriodEnd   time.Time `gorm:"column:period_end;not null"`

	// 刷新状态与结果
	Status       string         `gorm:"column:status;type:varchar(16);not null;default:'REFRESHING'"`
	ResultData   datatypes.JSON `gorm:"column:result_data;type:json"`
	ErrorMessage string         `gorm:"column:error_message;type:varchar(512)"`

	// 时间戳
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (DashboardSnapshot) TableName() string {
	return "dashboard_snapshots"
}

// 快照状态常量
const (
	SnapshotStatusRefreshing = "REFRESHING"
	SnapshotStatusReady      = "READY"
	SnapshotStatusFailed     = "FAILED"
)
