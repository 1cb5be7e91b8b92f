package entity

import "time"

// CostItem 产品成本目录条目（用户维护）
type CostItem struct {
	ID        string  `gorm:"column:id;primaryKey;type:varchar(64)"`
	AccountID int64   `gorm:"column:account_id;not null;index:idx_cost_account"`
	Name      string  `gorm:"column:name;type:varchar(255);not null"`
	BaseCost  float64 `gorm:"column:base_cost;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (CostItem) TableName() string {
	return "cost_items"
}

// 成本关联类型常量
const (
	CostLinkKindSKU   = "sku"
	CostLinkKindTitle = "title"
)

// CostLink 成本关联映射（规范化键 → 成本条目）
type CostLink struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	AccountID  int64  `gorm:"column:account_id;not null;uniqueIndex:uk_account_kind_key"`
	Kind       string `gorm:"column:kind;type:varchar(16);not null;uniqueIndex:uk_account_kind_key"`
	NormKey    string `gorm:"column:norm_key;type:varchar(255);not null;uniqueIndex:uk_account_kind_key"`
	CostItemID string `gorm:"column:cost_item_id;type:varchar(64);not null"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (CostLink) TableName() string {
	return "cost_links"
}
