package insight

import "math"

// 运费判定关键词（匹配前经过 NormalizeKey，葡/英双语，不区分大小写和重音）
var (
	shippingTerms  = []string{"frete", "envio", "shipping"}
	buyerTerms     = []string{"comprador", "buyer"}
	sellerTerms    = []string{"vendedor", "seller"}
	rootBuyerTerms = []string{"comprador", "buyer", "receiver", "destinatario"}
)

// ResolveShipping 推导卖家承担的运费
// 逐笔支付按决策表判定后求和；总和为 0 时回落到订单根级 shipping_cost，
// 但根级提示表明买家承担运费时不回落，结果恒 ≥ 0
func ResolveShipping(o *Order) float64 {
	total := 0.0
	for _, p := range o.Payments {
		if paymentCancelled(&p) {
			continue
		}
		total += paymentShipping(&p)
	}

	if total > 0 {
		return total
	}
	if rootBuyerPays(o) {
		return 0
	}
	return math.Abs(o.ShippingCost)
}

// paymentShipping 单笔支付的卖家运费判定
// 决策表（按顺序）：
//  1. 有买家承担提示且无卖家承担提示 → 0
//  2. 存在正的运费命名扣款且有卖家承担提示 → 该扣款金额
//  3. 存在运费命名扣款但无卖家承担提示 → 0
//  4. 其余情况 → |payment.shipping_cost|
func paymentShipping(p *Payment) float64 {
	shippingAmount := 0.0
	hasShippingCharge := false
	buyerHint := false
	sellerHint := false

	for _, c := range p.Charges {
		name := NormalizeKey(c.Name)
		if containsAny(name, buyerTerms) {
			buyerHint = true
		}
		if containsAny(name, sellerTerms) {
			sellerHint = true
		}
		if containsAny(name, shippingTerms) {
			hasShippingCharge = true
			if c.Amount > 0 {
				shippingAmount += c.Amount
			}
		}
	}

	switch {
	case buyerHint && !sellerHint:
		return 0
	case shippingAmount > 0 && sellerHint:
		return shippingAmount
	case hasShippingCharge && !sellerHint:
		return 0
	default:
		return math.Abs(p.ShippingCost)
	}
}

// rootBuyerPays 订单根级提示是否表明买家承担运费
func rootBuyerPays(o *Order) bool {
	hints := NormalizeKey(o.ShippingPayer + " " + o.ShippingCostType + " " + o.LogisticType)
	if hints == "" {
		return false
	}
	return containsAny(hints, rootBuyerTerms) && !containsAny(hints, sellerTerms)
}

// ResidualShipping 差额推断：把买家已付与卖家实收之间未解释的差额计入运费
// totalDiscount = max(total - paid, 0)，knownDiscount = fee + tax + shipping，
// 差额超出容差时加到运费上。这是对上游数据缺口的近似估算，可经配置关闭
func ResidualShipping(o *Order, fee, tax, shipping float64, th Thresholds) float64 {
	if th.DisableResidual {
		return shipping
	}

	totalDiscount := math.Max(o.TotalAmount-o.PaidAmount, 0)
	knownDiscount := fee + tax + shipping
	if totalDiscount-knownDiscount > th.ResidualTolerance {
		shipping += totalDiscount - knownDiscount
	}
	return shipping
}
