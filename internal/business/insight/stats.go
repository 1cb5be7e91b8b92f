package insight

import (
	"sort"
	"time"
)

// topProductLimit 排行榜条数上限
const topProductLimit = 6

// Period 聚合的时间范围，零值边界表示不限
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains 判断时间是否落在范围内（闭区间）
func (p Period) Contains(t time.Time) bool {
	if !p.Start.IsZero() && t.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && t.After(p.End) {
		return false
	}
	return true
}

// DashboardStats 看板统计（对过滤后的订单集合全量重算）
type DashboardStats struct {
	OrdersCount     int     `json:"orders_count"`
	UnitsCount      int     `json:"units_count"`
	GrossRevenue    float64 `json:"gross_revenue"`
	PaidRevenue     float64 `json:"paid_revenue"`
	NetRevenue      float64 `json:"net_revenue"`
	AverageTicket   float64 `json:"average_ticket"`
	CancelledCount  int     `json:"cancelled_count"`
	CancelledAmount float64 `json:"cancelled_amount"`
	FeesTotal       float64 `json:"fees_total"`
	TaxesTotal      float64 `json:"taxes_total"`
	ShippingTotal   float64 `json:"shipping_total"`
	CostTotal       float64 `json:"cost_total"`
	Profit          float64 `json:"profit"`
	AverageProfit   float64 `json:"average_profit"`
	MarginPercent   float64 `json:"margin_percent"`
}

// TopProduct 排行榜条目
type TopProduct struct {
	Title  string  `json:"title"`
	Units  int     `json:"units"`
	Amount float64 `json:"amount"`
	Share  float64 `json:"share"` // 占总营收的百分比（如 16.5 表示 16.5%）
}

// BuildStats 汇总统计指标
// 已取消订单只计入取消数/取消金额，不参与营收、件数和利润
func BuildStats(lines []LinkedLine) DashboardStats {
	stats := DashboardStats{}

	for _, line := range lines {
		if line.Cancelled {
			stats.CancelledCount++
			stats.CancelledAmount += line.Amount
			continue
		}

		stats.OrdersCount++
		stats.UnitsCount += line.Quantity
		stats.GrossRevenue += line.Amount
		stats.PaidRevenue += line.Paid
		stats.FeesTotal += line.Fee
		stats.TaxesTotal += line.Tax
		stats.ShippingTotal += line.Shipping
		stats.CostTotal += line.TotalCost
	}

	stats.NetRevenue = stats.GrossRevenue - stats.FeesTotal - stats.TaxesTotal - stats.ShippingTotal
	stats.Profit = stats.NetRevenue - stats.CostTotal

	if stats.OrdersCount > 0 {
		stats.AverageTicket = stats.GrossRevenue / float64(stats.OrdersCount)
		stats.AverageProfit = stats.Profit / float64(stats.OrdersCount)
	}
	if stats.GrossRevenue > 0 {
		stats.MarginPercent = stats.Profit / stats.GrossRevenue * 100
	}

	return stats
}

// BuildTopProducts 按标题分组汇总，金额降序取前 6
func BuildTopProducts(lines []LinkedLine) []TopProduct {
	grouped := make(map[string]*TopProduct)
	gross := 0.0

	for _, line := range lines {
		if line.Cancelled {
			continue
		}
		gross += line.Amount

		product, ok := grouped[line.Title]
		if !ok {
			product = &TopProduct{Title: line.Title}
			grouped[line.Title] = product
		}
		product.Units += line.Quantity
		product.Amount += line.Amount
	}

	products := make([]TopProduct, 0, len(grouped))
	for _, product := range grouped {
		products = append(products, *product)
	}

	// 金额降序，金额相同按标题排序保证确定性
	sort.Slice(products, func(i, j int) bool {
		if products[i].Amount != products[j].Amount {
			return products[i].Amount > products[j].Amount
		}
		return products[i].Title < products[j].Title
	})

	if len(products) > topProductLimit {
		products = products[:topProductLimit]
	}

	if gross > 0 {
		for i := range products {
			products[i].Share = products[i].Amount / gross * 100
		}
	}

	return products
}
