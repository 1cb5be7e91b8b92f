package mysql

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mip/dpdash/internal/entity"
)

// DashboardDAO 看板数据访问对象
type DashboardDAO struct {
	db *gorm.DB
}

// NewDashboardDAO 创建 DashboardDAO 实例
func NewDashboardDAO(dsn string) (*DashboardDAO, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DashboardDAO{
		db: db,
	}, nil
}

// ListOrdersByAccount 读取账户下已同步的订单原始数据
// 返回松散类型的订单记录列表（分析引擎的输入）；单条 JSON 损坏时跳过该条
func (dao *DashboardDAO) ListOrdersByAccount(ctx context.Context, accountID int64) ([]map[string]interface{}, error) {
	var orders []entity.Order
	result := dao.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&orders)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list orders: %w", result.Error)
	}

	rawOrders := make([]map[string]interface{}, 0, len(orders))
	for _, order := range orders {
		var raw map[string]interface{}
		if err := json.Unmarshal(order.RawData, &raw); err != nil {
			continue
		}
		rawOrders = append(rawOrders, raw)
	}

	return rawOrders, nil
}

// ListCostItems 读取账户的产品成本目录
func (dao *DashboardDAO) ListCostItems(ctx context.Context, accountID int64) ([]entity.CostItem, error) {
	var items []entity.CostItem
	result := dao.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list cost items: %w", result.Error)
	}
	return items, nil
}

// GetCostItemByID 按 ID 读取成本目录条目
func (dao *DashboardDAO) GetCostItemByID(ctx context.Context, accountID int64, itemID string) (*entity.CostItem, error) {
	var item entity.CostItem
	result := dao.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, itemID).
		First(&item)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get cost item: %w", result.Error)
	}
	return &item, nil
}

// ListCostLinks 读取账户的成本关联映射
func (dao *DashboardDAO) ListCostLinks(ctx context.Context, accountID int64) ([]entity.CostLink, error) {
	var links []entity.CostLink
	result := dao.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Find(&links)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list cost links: %w", result.Error)
	}
	return links, nil
}

// UpsertCostLinks 写入成本关联映射（同键覆盖指向的成本条目）
func (dao *DashboardDAO) UpsertCostLinks(ctx context.Context, links []entity.CostLink) error {
	if len(links) == 0 {
		return nil
	}

	result := dao.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}, {Name: "kind"}, {Name: "norm_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"cost_item_id", "updated_at"}),
	}).Create(&links)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert cost links: %w", result.Error)
	}

	return nil
}

// UpdateSnapshotResult 回填看板快照的计算结果
// 参数：
//   - ctx: 上下文
//   - snapshotID: 快照 ID
//   - resultJSON: 分析引擎输出的 JSON（失败时可为 nil）
//   - status: 快照状态（READY/FAILED）
//   - errorMsg: 错误消息（失败时）
func (dao *DashboardDAO) UpdateSnapshotResult(
	ctx context.Context,
	snapshotID string,
	resultJSON []byte,
	status string,
	errorMsg string,
) error {
	// 构造更新字段
	updates := map[string]interface{}{
		"status": status,
	}
	if resultJSON != nil {
		updates["result_data"] = resultJSON
	}
	if errorMsg != "" {
		updates["error_message"] = errorMsg
	}

	// 执行更新
	dbResult := dao.db.WithContext(ctx).
		Model(&entity.DashboardSnapshot{}).
		Where("id = ?", snapshotID).
		Updates(updates)

	if dbResult.Error != nil {
		return fmt.Errorf("failed to update snapshot: %w", dbResult.Error)
	}

	if dbResult.RowsAffected == 0 {
		return fmt.Errorf("snapshot not found: %s", snapshotID)
	}

	return nil
}

// Close 关闭数据库连接
func (dao *DashboardDAO) Close() error {
	sqlDB, err := dao.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
