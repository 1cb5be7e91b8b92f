package insight

import "sort"

// Thresholds 分析引擎的业务阈值（经营启发式，全部可配置）
type Thresholds struct {
	MinMarginPercent     float64 // 低利润率告警线（%）
	GoodMarginPercent    float64 // 利润率建议线（%）
	HealthyMarginPercent float64 // 健康利润率线（%）
	FeeAlertRatio        float64 // 佣金占比告警线（0~1）
	FeeHighRatio         float64 // 佣金占比高危线（0~1）
	LineFeeRatio         float64 // 单笔订单高佣金线（0~1）
	UnlinkedWarnShare    float64 // 未关联成本占比告警线（0~1）
	UnlinkedHighShare    float64 // 未关联成本占比高危线（0~1）
	LowTicketValue       float64 // 低客单价建议线（货币单位）
	ResidualTolerance    float64 // 差额推断容差（货币单位）
	DisableResidual      bool    // 关闭差额推断
}

// DefaultThresholds 默认业务阈值
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinMarginPercent:     8,
		GoodMarginPercent:    18,
		HealthyMarginPercent: 20,
		FeeAlertRatio:        0.22,
		FeeHighRatio:         0.28,
		LineFeeRatio:         0.28,
		UnlinkedWarnShare:    0.15,
		UnlinkedHighShare:    0.35,
		LowTicketValue:       50,
		ResidualTolerance:    0.01,
	}
}

// OrDefaults 数值字段为 0 时回落到默认值（配置留空即用默认）
func (t Thresholds) OrDefaults() Thresholds {
	defaults := DefaultThresholds()

	if t.MinMarginPercent == 0 {
		t.MinMarginPercent = defaults.MinMarginPercent
	}
	if t.GoodMarginPercent == 0 {
		t.GoodMarginPercent = defaults.GoodMarginPercent
	}
	if t.HealthyMarginPercent == 0 {
		t.HealthyMarginPercent = defaults.HealthyMarginPercent
	}
	if t.FeeAlertRatio == 0 {
		t.FeeAlertRatio = defaults.FeeAlertRatio
	}
	if t.FeeHighRatio == 0 {
		t.FeeHighRatio = defaults.FeeHighRatio
	}
	if t.LineFeeRatio == 0 {
		t.LineFeeRatio = defaults.LineFeeRatio
	}
	if t.UnlinkedWarnShare == 0 {
		t.UnlinkedWarnShare = defaults.UnlinkedWarnShare
	}
	if t.UnlinkedHighShare == 0 {
		t.UnlinkedHighShare = defaults.UnlinkedHighShare
	}
	if t.LowTicketValue == 0 {
		t.LowTicketValue = defaults.LowTicketValue
	}
	if t.ResidualTolerance == 0 {
		t.ResidualTolerance = defaults.ResidualTolerance
	}

	return t
}

// Result 一次全量重算的输出
type Result struct {
	Stats       DashboardStats `json:"stats"`
	Lines       []LinkedLine   `json:"lines"`
	TopProducts []TopProduct   `json:"top_products"`
	Alerts      []Alert        `json:"alerts"`
	Tips        []string       `json:"tips"`
}

// Recompute 分析引擎唯一入口：对同一输入产出完全相同的结果
// 流程：规范化 → 周期过滤 → 费用/税/运费推导 → 行投影 → 成本关联 → 聚合
// 纯函数，无内部状态，调用方负责缓存
func Recompute(
	rawOrders []map[string]interface{},
	catalog []CostCatalogEntry,
	links CostLinkMap,
	period Period,
	th Thresholds,
) *Result {
	th = th.OrDefaults()

	lines := make([]LinkedLine, 0, len(rawOrders))
	for _, raw := range rawOrders {
		order := NormalizeOrder(raw)
		if !period.Contains(order.DateCreated) {
			continue
		}

		line := ProjectLine(&order, th)
		lines = append(lines, LinkLine(line, catalog, links))
	}

	// 行按订单 ID 降序输出
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].ID > lines[j].ID
	})

	stats := BuildStats(lines)

	return &Result{
		Stats:       stats,
		Lines:       lines,
		TopProducts: BuildTopProducts(lines),
		Alerts:      BuildAlerts(stats, lines, th),
		Tips:        BuildTips(stats, lines, th),
	}
}
