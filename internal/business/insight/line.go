package insight

import (
	"strings"
	"time"
)

// placeholderTitle 无标题订单的展示兜底
const placeholderTitle = "Produto sem título"

// OrderLine 每单一行的展示数据（派生、瞬态）
type OrderLine struct {
	ID        int64     `json:"id"`
	PackID    int64     `json:"pack_id,omitempty"`
	Title     string    `json:"title"`
	SKU       string    `json:"sku"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Date      time.Time `json:"date"`
	Quantity  int       `json:"quantity"`
	Amount    float64   `json:"amount"`
	Paid      float64   `json:"paid"`
	Fee       float64   `json:"fee"`
	Tax       float64   `json:"tax"`
	Shipping  float64   `json:"shipping"`
	Profit    float64   `json:"profit"` // 扣除产品成本前的毛利估计
	Status    string    `json:"status"`
	Cancelled bool      `json:"cancelled"`
}

// statusLabels 市场订单状态 → 展示标签
var statusLabels = map[string]string{
	"paid":      "Pago",
	"confirmed": "Confirmado",
	"shipped":   "Enviado",
	"delivered": "Entregue",
	"cancelled": "Cancelado",
	"invalid":   "Inválido",
}

// ProjectLine 把一个规范化订单投影为一行展示数据
// 代表商品取第一个有标题的行；佣金/税/运费用各自级联推导
func ProjectLine(o *Order, th Thresholds) OrderLine {
	fee := ResolveFee(o)
	tax := ResolveTax(o)
	shipping := ResidualShipping(o, fee, tax, ResolveShipping(o), th)

	line := OrderLine{
		ID:        o.ID,
		PackID:    o.PackID,
		Title:     placeholderTitle,
		SKU:       "-",
		Date:      o.DateCreated,
		Amount:    o.TotalAmount,
		Paid:      o.PaidAmount,
		Fee:       fee,
		Tax:       tax,
		Shipping:  shipping,
		Profit:    o.TotalAmount - fee - tax - shipping,
		Status:    statusLabel(o.Status),
		Cancelled: orderCancelled(o),
	}

	representativeFound := false
	for _, it := range o.Items {
		line.Quantity += it.Quantity

		if !representativeFound && it.Title != "" {
			representativeFound = true
			line.Title = it.Title
			if it.SellerSKU != "" {
				line.SKU = it.SellerSKU
			}
		}
		if line.Thumbnail == "" && it.Thumbnail != "" {
			line.Thumbnail = it.Thumbnail
		}
	}

	return line
}

// statusLabel 规范化状态标签，未知状态原样返回
func statusLabel(status string) string {
	if label, ok := statusLabels[strings.ToLower(status)]; ok {
		return label
	}
	return status
}

// orderCancelled 判断订单是否已取消
func orderCancelled(o *Order) bool {
	return strings.Contains(strings.ToLower(o.Status), "cancel")
}
