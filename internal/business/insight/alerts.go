package insight

import "fmt"

// maxAlerts 告警条数上限
const maxAlerts = 4

// 告警级别常量
const (
	AlertLevelLow    = "low"
	AlertLevelMedium = "medium"
	AlertLevelHigh   = "high"
)

// 快捷过滤动作常量（供展示层收窄订单行列表）
const (
	ActionNegativeProfit = "negative_profit"
	ActionWithoutCost    = "without_cost"
	ActionHighFee        = "high_fee"
)

// Alert 风险告警
type Alert struct {
	Level  string `json:"level"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Action string `json:"action,omitempty"`
}

// BuildAlerts 生成优先级排序的告警列表（规则引擎，最多 4 条）
func BuildAlerts(stats DashboardStats, lines []LinkedLine, th Thresholds) []Alert {
	alerts := make([]Alert, 0, maxAlerts)

	// 规则 1：周期内无销售
	if stats.GrossRevenue <= 0 {
		alerts = append(alerts, Alert{
			Level:  AlertLevelLow,
			Title:  "Sem vendas no período",
			Detail: "Nenhuma venda aprovada no intervalo selecionado.",
		})
	}

	// 规则 2/3：利润率
	switch {
	case stats.MarginPercent < 0:
		alerts = append(alerts, Alert{
			Level:  AlertLevelHigh,
			Title:  "Prejuízo no período",
			Detail: fmt.Sprintf("Margem de %.1f%%. As vendas estão saindo abaixo do custo.", stats.MarginPercent),
			Action: ActionNegativeProfit,
		})
	case stats.MarginPercent < th.MinMarginPercent && stats.GrossRevenue > 0:
		alerts = append(alerts, Alert{
			Level:  AlertLevelMedium,
			Title:  "Margem apertada",
			Detail: fmt.Sprintf("Margem de %.1f%%, abaixo do mínimo de %.0f%%.", stats.MarginPercent, th.MinMarginPercent),
			Action: ActionNegativeProfit,
		})
	}

	// 规则 4：未关联成本的销售占比
	sales := stats.OrdersCount
	unlinked := countUnlinked(lines)
	if sales > 0 && unlinked > 0 {
		share := float64(unlinked) / float64(sales)
		if share >= th.UnlinkedWarnShare {
			level := AlertLevelMedium
			if share >= th.UnlinkedHighShare {
				level = AlertLevelHigh
			}
			alerts = append(alerts, Alert{
				Level:  level,
				Title:  "Custos não cadastrados",
				Detail: fmt.Sprintf("%d de %d vendas sem custo de produto vinculado.", unlinked, sales),
				Action: ActionWithoutCost,
			})
		}
	}

	// 规则 5：佣金占营收比例
	if stats.GrossRevenue > 0 {
		feeRatio := stats.FeesTotal / stats.GrossRevenue
		if feeRatio >= th.FeeAlertRatio {
			// 整体利润率仍健康时只提示费率压力，区别于真实的盈利风险
			switch {
			case stats.MarginPercent >= th.HealthyMarginPercent:
				alerts = append(alerts, Alert{
					Level:  AlertLevelLow,
					Title:  "Tarifa alta com margem saudável",
					Detail: fmt.Sprintf("Tarifas em %.1f%% da receita, mas a margem segue em %.1f%%.", feeRatio*100, stats.MarginPercent),
					Action: ActionHighFee,
				})
			case feeRatio >= th.FeeHighRatio:
				alerts = append(alerts, Alert{
					Level:  AlertLevelHigh,
					Title:  "Tarifas consumindo a receita",
					Detail: fmt.Sprintf("Tarifas em %.1f%% da receita do período.", feeRatio*100),
					Action: ActionHighFee,
				})
			default:
				alerts = append(alerts, Alert{
					Level:  AlertLevelMedium,
					Title:  "Tarifas acima do esperado",
					Detail: fmt.Sprintf("Tarifas em %.1f%% da receita do período.", feeRatio*100),
					Action: ActionHighFee,
				})
			}
		}
	}

	// 规则 6：单笔高佣金订单
	if highFee := countHighFeeLines(lines, th.LineFeeRatio); highFee > 0 {
		alerts = append(alerts, Alert{
			Level:  AlertLevelLow,
			Title:  "Vendas com tarifa elevada",
			Detail: fmt.Sprintf("%d vendas com tarifa acima de %.0f%% do valor.", highFee, th.LineFeeRatio*100),
			Action: ActionHighFee,
		})
	}

	if len(alerts) > maxAlerts {
		alerts = alerts[:maxAlerts]
	}
	return alerts
}

// countUnlinked 统计未关联成本的未取消订单行
func countUnlinked(lines []LinkedLine) int {
	count := 0
	for i := range lines {
		if !lines[i].Cancelled && !lines[i].Linked() {
			count++
		}
	}
	return count
}

// countHighFeeLines 统计佣金占比超阈值的未取消订单行
func countHighFeeLines(lines []LinkedLine, ratio float64) int {
	count := 0
	for i := range lines {
		line := &lines[i]
		if line.Cancelled || line.Amount <= 0 {
			continue
		}
		if line.Fee/line.Amount >= ratio {
			count++
		}
	}
	return count
}
