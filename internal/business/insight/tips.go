package insight

import "fmt"

// maxTips 建议条数上限
const maxTips = 6

// genericPricingTip 固定收尾的定价实验建议
const genericPricingTip = "Teste pequenos ajustes de preço (±5%) e acompanhe o efeito na margem ao longo de uma semana."

// noSalesTip 周期内无销售时的唯一建议
const noSalesTip = "Nenhuma venda no período selecionado. Amplie o intervalo de datas ou aguarde a próxima sincronização."

// BuildTips 生成经营建议（有序，最多 6 条，最后一条固定为定价实验建议）
func BuildTips(stats DashboardStats, lines []LinkedLine, th Thresholds) []string {
	if stats.GrossRevenue <= 0 {
		return []string{noSalesTip}
	}

	tips := make([]string, 0, maxTips)

	// 利润率档位建议
	switch {
	case stats.MarginPercent < 0:
		tips = append(tips, fmt.Sprintf(
			"Margem negativa de %.1f%%. Revise os custos cadastrados e considere reajustar os preços.",
			stats.MarginPercent))
	case stats.MarginPercent < th.MinMarginPercent:
		tips = append(tips, fmt.Sprintf(
			"Margem de %.1f%%, abaixo de %.0f%%. Pequenos aumentos de preço podem recuperar a rentabilidade.",
			stats.MarginPercent, th.MinMarginPercent))
	case stats.MarginPercent < th.GoodMarginPercent:
		tips = append(tips, fmt.Sprintf(
			"Margem de %.1f%%. Há espaço para melhorar: negocie custos ou revise o frete dos anúncios menos rentáveis.",
			stats.MarginPercent))
	}

	// 佣金压力建议
	if feeRatio := stats.FeesTotal / stats.GrossRevenue; feeRatio >= th.FeeAlertRatio {
		tips = append(tips, fmt.Sprintf(
			"As tarifas do marketplace somam %.1f%% da receita. Compare anúncio clássico vs. premium e a estratégia de frete grátis.",
			feeRatio*100))
	}

	// 成本关联建议
	if unlinked := countUnlinked(lines); unlinked > 0 {
		tips = append(tips, fmt.Sprintf(
			"Cadastre o custo de %d produtos para enxergar o lucro real do período.", unlinked))
	}

	// 单笔高佣金建议
	if highFee := countHighFeeLines(lines, th.LineFeeRatio); highFee > 0 {
		tips = append(tips, fmt.Sprintf(
			"%d vendas pagaram tarifa acima de %.0f%% do valor. Vale revisar o tipo de anúncio desses produtos.",
			highFee, th.LineFeeRatio*100))
	}

	// 客单价建议
	if stats.AverageTicket > 0 && stats.AverageTicket < th.LowTicketValue {
		tips = append(tips, fmt.Sprintf(
			"Ticket médio de R$ %.2f. Monte kits ou combos para diluir o custo fixo de frete e tarifa.",
			stats.AverageTicket))
	}

	// 收尾建议固定保留
	if len(tips) > maxTips-1 {
		tips = tips[:maxTips-1]
	}
	return append(tips, genericPricingTip)
}
