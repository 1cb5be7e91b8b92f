package insight

import "strings"

// feeStrategy 单级佣金推导策略
// 返回 0 表示该级没有推导出结果，交给下一级
type feeStrategy func(o *Order) float64

// feeStrategies 佣金推导级联（按优先级排列）
// 新市场只需追加策略，不改动已有级别
var feeStrategies = []feeStrategy{
	feeFromPayments,
	feeFromCharges,
	feeFromFeeDetails,
	feeFromItems,
}

// ResolveFee 推导订单的市场佣金
// 依次执行各级策略，取第一个严格为正的结果；
// 全部落空时用 total_amount - paid_amount 兜底估算，结果恒 ≥ 0
func ResolveFee(o *Order) float64 {
	for _, strategy := range feeStrategies {
		if fee := strategy(o); fee > 0 {
			return fee
		}
	}

	if residual := o.TotalAmount - o.PaidAmount; residual > 0 {
		return residual
	}
	return 0
}

// feeFromPayments 第 1 级：未取消支付上报的 marketplace_fee 之和
func feeFromPayments(o *Order) float64 {
	total := 0.0
	for _, p := range o.Payments {
		if paymentCancelled(&p) {
			continue
		}
		total += p.MarketplaceFee
	}
	return total
}

// feeFromCharges 第 2 级：名称含 "fee" 的命名扣款项之和
func feeFromCharges(o *Order) float64 {
	total := 0.0
	for _, p := range o.Payments {
		if paymentCancelled(&p) {
			continue
		}
		for _, c := range p.Charges {
			if strings.Contains(NormalizeKey(c.Name), "fee") {
				total += c.Amount
			}
		}
	}
	return total
}

// feeFromFeeDetails 第 3 级：分类费用项之和
func feeFromFeeDetails(o *Order) float64 {
	total := 0.0
	for _, p := range o.Payments {
		if paymentCancelled(&p) {
			continue
		}
		for _, f := range p.FeeDetails {
			total += f.Amount
		}
	}
	return total
}

// feeFromItems 第 4 级：商品行佣金估算 max(1, qty) × 单件佣金
// 单件佣金取行上 sale_fee，缺失依次取 listing_fee、item.sale_fee
func feeFromItems(o *Order) float64 {
	total := 0.0
	for _, it := range o.Items {
		unitFee := it.SaleFee
		if unitFee == 0 {
			unitFee = it.ListingFee
		}
		if unitFee == 0 {
			unitFee = it.ItemSaleFee
		}

		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		total += float64(qty) * unitFee
	}
	return total
}

// paymentCancelled 判断支付是否已取消
func paymentCancelled(p *Payment) bool {
	return strings.Contains(strings.ToLower(p.Status), "cancel")
}
