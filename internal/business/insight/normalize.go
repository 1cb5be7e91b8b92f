package insight

import (
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Order 规范化后的市场订单快照（只读）
type Order struct {
	ID           int64
	PackID       int64
	DateCreated  time.Time
	Status       string
	TotalAmount  float64
	PaidAmount   float64
	ShippingCost float64
	TaxesAmount  float64

	// 订单根级物流提示（运费兜底判断用）
	ShippingPayer    string
	ShippingCostType string
	LogisticType     string

	Payments []Payment
	Items    []OrderItem
}

// Payment 订单支付记录
type Payment struct {
	Status            string
	MarketplaceFee    float64 // marketplace_fee，缺失时取 fee_amount
	TaxesAmount       float64
	ShippingCost      float64
	TransactionAmount float64
	TotalPaidAmount   float64
	Charges           []Charge
	FeeDetails        []FeeDetail
}

// Charge 支付上的命名扣款项
type Charge struct {
	Name   string
	Amount float64
}

// FeeDetail 支付上的分类费用项
type FeeDetail struct {
	Type   string
	Amount float64
}

// OrderItem 订单商品行
type OrderItem struct {
	Title       string
	Quantity    int
	UnitPrice   float64
	SellerSKU   string
	Thumbnail   string
	SaleFee     float64 // 行上直接上报的销售佣金
	ListingFee  float64 // 行上的刊登费字段
	ItemSaleFee float64 // item 子对象上的销售佣金
}

// NormalizeOrder 将原始松散类型的订单记录规范化为标准结构
// 数值字段缺失/类型错误一律取 0，集合字段缺失取空列表，永不报错
func NormalizeOrder(raw map[string]interface{}) Order {
	o := Order{
		ID:           cast.ToInt64(raw["id"]),
		PackID:       cast.ToInt64(raw["pack_id"]),
		DateCreated:  parseDate(raw["date_created"]),
		Status:       strings.TrimSpace(cast.ToString(raw["status"])),
		TotalAmount:  cast.ToFloat64(raw["total_amount"]),
		PaidAmount:   cast.ToFloat64(raw["paid_amount"]),
		ShippingCost: cast.ToFloat64(raw["shipping_cost"]),
		TaxesAmount:  numField(raw, "taxes_amount", "taxes"),
	}

	// 根级物流提示
	if shipping := mapField(raw, "shipping"); shipping != nil {
		o.ShippingPayer = cast.ToString(shipping["payer"])
		o.ShippingCostType = cast.ToString(shipping["cost_type"])
		o.LogisticType = cast.ToString(shipping["logistic_type"])
		if o.ShippingCost == 0 {
			o.ShippingCost = cast.ToFloat64(shipping["cost"])
		}
	}

	// 支付列表
	for _, rawPayment := range sliceField(raw, "payments") {
		o.Payments = append(o.Payments, normalizePayment(rawPayment))
	}
	if o.Payments == nil {
		o.Payments = []Payment{}
	}

	// 商品行列表（兼容 order_items / items 两种字段名）
	rows := sliceField(raw, "order_items")
	if len(rows) == 0 {
		rows = sliceField(raw, "items")
	}
	for _, rawItem := range rows {
		o.Items = append(o.Items, normalizeItem(rawItem))
	}
	if o.Items == nil {
		o.Items = []OrderItem{}
	}

	return o
}

// normalizePayment 规范化单条支付记录
func normalizePayment(raw map[string]interface{}) Payment {
	p := Payment{
		Status:            strings.TrimSpace(cast.ToString(raw["status"])),
		MarketplaceFee:    numField(raw, "marketplace_fee", "fee_amount"),
		TaxesAmount:       cast.ToFloat64(raw["taxes_amount"]),
		ShippingCost:      cast.ToFloat64(raw["shipping_cost"]),
		TransactionAmount: cast.ToFloat64(raw["transaction_amount"]),
		TotalPaidAmount:   cast.ToFloat64(raw["total_paid_amount"]),
	}

	for _, rawCharge := range sliceField(raw, "charges") {
		p.Charges = append(p.Charges, Charge{
			Name:   cast.ToString(rawCharge["name"]),
			Amount: cast.ToFloat64(rawCharge["amount"]),
		})
	}
	if p.Charges == nil {
		p.Charges = []Charge{}
	}

	for _, rawFee := range sliceField(raw, "fee_details") {
		p.FeeDetails = append(p.FeeDetails, FeeDetail{
			Type:   cast.ToString(rawFee["type"]),
			Amount: cast.ToFloat64(rawFee["amount"]),
		})
	}
	if p.FeeDetails == nil {
		p.FeeDetails = []FeeDetail{}
	}

	return p
}

// normalizeItem 规范化单条商品行
func normalizeItem(raw map[string]interface{}) OrderItem {
	it := OrderItem{
		Title:      strings.TrimSpace(cast.ToString(raw["title"])),
		Quantity:   cast.ToInt(raw["quantity"]),
		UnitPrice:  cast.ToFloat64(raw["unit_price"]),
		SellerSKU:  strings.TrimSpace(cast.ToString(raw["seller_sku"])),
		Thumbnail:  strings.TrimSpace(cast.ToString(raw["thumbnail"])),
		SaleFee:    cast.ToFloat64(raw["sale_fee"]),
		ListingFee: cast.ToFloat64(raw["listing_fee"]),
	}

	// item 子对象兜底（标题/SKU/缩略图/佣金）
	if item := mapField(raw, "item"); item != nil {
		if it.Title == "" {
			it.Title = strings.TrimSpace(cast.ToString(item["title"]))
		}
		if it.SellerSKU == "" {
			it.SellerSKU = strings.TrimSpace(cast.ToString(item["seller_sku"]))
		}
		if it.Thumbnail == "" {
			it.Thumbnail = strings.TrimSpace(cast.ToString(item["thumbnail"]))
		}
		it.ItemSaleFee = cast.ToFloat64(item["sale_fee"])
	}

	return it
}

// numField 按顺序取第一个能转成非零数值的字段
// 字段值本身是嵌套对象时尝试其 amount 子字段（如 taxes.amount）
func numField(raw map[string]interface{}, keys ...string) float64 {
	for _, key := range keys {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}
		if nested, isMap := value.(map[string]interface{}); isMap {
			if v := cast.ToFloat64(nested["amount"]); v != 0 {
				return v
			}
			continue
		}
		if v := cast.ToFloat64(value); v != 0 {
			return v
		}
	}
	return 0
}

// mapField 取嵌套对象字段，非对象返回 nil
func mapField(raw map[string]interface{}, key string) map[string]interface{} {
	value, ok := raw[key].(map[string]interface{})
	if !ok {
		return nil
	}
	return value
}

// sliceField 取对象列表字段，缺失/类型错误返回空列表
func sliceField(raw map[string]interface{}, key string) []map[string]interface{} {
	list, ok := raw[key].([]interface{})
	if !ok {
		return nil
	}

	rows := make([]map[string]interface{}, 0, len(list))
	for _, element := range list {
		if row, isMap := element.(map[string]interface{}); isMap {
			rows = append(rows, row)
		}
	}
	return rows
}

// parseDate 解析创建时间（RFC3339 字符串或 Unix 秒），解析失败取零值
func parseDate(value interface{}) time.Time {
	if value == nil {
		return time.Time{}
	}

	if s := cast.ToString(value); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}

	if sec := cast.ToInt64(value); sec > 0 {
		return time.Unix(sec, 0).UTC()
	}

	return time.Time{}
}
