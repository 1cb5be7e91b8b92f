package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Order 已同步的市场订单（原始 JSON 由同步应用写入，本仓库只读）
type Order struct {
	// 基础字段
	ID                 string `gorm:"column:id;primaryKey;type:varchar(64)"`
	AccountID          int64  `gorm:"column:account_id;not null;index:idx_account_created"`
	MarketplaceOrderNo string `gorm:"column:marketplace_order_no;type:varchar(128);not null;uniqueIndex:uk_account_marketplace"`

	// 订单原始数据（市场返回的完整 JSON）
	RawData datatypes.JSON `gorm:"column:raw_data;type:json;not null"`

	// 时间戳
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_account_created"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
