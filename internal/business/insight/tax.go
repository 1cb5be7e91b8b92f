package insight

// ResolveTax 推导订单税额
// 优先累加未取消支付上报的 taxes_amount，总和为 0 时回落到订单级字段，结果恒 ≥ 0
func ResolveTax(o *Order) float64 {
	total := 0.0
	for _, p := range o.Payments {
		if paymentCancelled(&p) {
			continue
		}
		total += p.TaxesAmount
	}

	if total == 0 {
		total = o.TaxesAmount
	}
	if total < 0 {
		return 0
	}
	return total
}
