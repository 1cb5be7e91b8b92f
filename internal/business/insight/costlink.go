package insight

import "strings"

// CostCatalogEntry 产品成本目录条目（外部维护）
type CostCatalogEntry struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	BaseCost float64 `json:"base_cost"`
}

// CostLinkMap 用户维护的成本关联映射（键均已规范化）
type CostLinkMap struct {
	BySKU   map[string]string `json:"by_sku"`
	ByTitle map[string]string `json:"by_title"`
}

// MatchKind 成本匹配方式（用于审计模糊命中）
type MatchKind string

const (
	MatchNone     MatchKind = ""         // 未关联
	MatchSKU      MatchKind = "sku"      // 显式 SKU 关联
	MatchTitle    MatchKind = "title"    // 显式标题关联
	MatchExact    MatchKind = "exact"    // 规范化名称精确匹配
	MatchContains MatchKind = "contains" // 包含匹配（最低优先级，可能误判）
)

// LinkedLine 关联了产品成本的订单行
type LinkedLine struct {
	OrderLine

	CostItemID string    `json:"cost_item_id,omitempty"`
	UnitCost   float64   `json:"unit_cost"`
	TotalCost  float64   `json:"total_cost"`
	NetProfit  float64   `json:"net_profit"`
	Match      MatchKind `json:"match,omitempty"`
}

// Linked 行是否关联到了成本条目
func (l *LinkedLine) Linked() bool {
	return l.Match != MatchNone
}

// LinkLine 把订单行与成本目录关联
// totalCost = 单件成本 × max(1, qty)，netProfit = amount - fee - shipping - totalCost
func LinkLine(line OrderLine, catalog []CostCatalogEntry, links CostLinkMap) LinkedLine {
	itemID, match := resolveCostItem(line.SKU, line.Title, catalog, links)

	unitCost := 0.0
	if itemID != "" {
		entry, found := catalogEntry(catalog, itemID)
		if !found {
			// 映射指向已删除的目录条目，按未关联处理
			itemID, match = "", MatchNone
		} else {
			unitCost = entry.BaseCost
		}
	}

	qty := line.Quantity
	if qty < 1 {
		qty = 1
	}
	totalCost := unitCost * float64(qty)

	return LinkedLine{
		OrderLine:  line,
		CostItemID: itemID,
		UnitCost:   unitCost,
		TotalCost:  totalCost,
		NetProfit:  line.Amount - line.Fee - line.Shipping - totalCost,
		Match:      match,
	}
}

// resolveCostItem 按优先级解析成本条目，命中即止
//  1. 显式 SKU 关联  2. 显式标题关联  3. 规范化名称精确匹配
//  4. 包含匹配（目录顺序内第一个，双向包含均可）
func resolveCostItem(sku, title string, catalog []CostCatalogEntry, links CostLinkMap) (string, MatchKind) {
	if key := NormalizeKey(sku); key != "" {
		if id := links.BySKU[key]; id != "" {
			return id, MatchSKU
		}
	}

	titleKey := NormalizeKey(title)
	if titleKey == "" {
		return "", MatchNone
	}

	if id := links.ByTitle[titleKey]; id != "" {
		return id, MatchTitle
	}

	for _, entry := range catalog {
		if NormalizeKey(entry.Name) == titleKey {
			return entry.ID, MatchExact
		}
	}

	for _, entry := range catalog {
		nameKey := NormalizeKey(entry.Name)
		if nameKey == "" {
			continue
		}
		if strings.Contains(nameKey, titleKey) || strings.Contains(titleKey, nameKey) {
			return entry.ID, MatchContains
		}
	}

	return "", MatchNone
}

// catalogEntry 按 ID 查目录条目
func catalogEntry(catalog []CostCatalogEntry, id string) (CostCatalogEntry, bool) {
	for _, entry := range catalog {
		if entry.ID == id {
			return entry, true
		}
	}
	return CostCatalogEntry{}, false
}

// ComputeLink 计算一次人工关联动作产生的新映射条目
// 只返回增量，持久化由调用方（设置存储）负责
func ComputeLink(sku, title, costItemID string) CostLinkMap {
	entries := CostLinkMap{
		BySKU:   map[string]string{},
		ByTitle: map[string]string{},
	}

	if key := NormalizeKey(sku); key != "" {
		entries.BySKU[key] = costItemID
	}
	if key := NormalizeKey(title); key != "" {
		entries.ByTitle[key] = costItemID
	}
	return entries
}
