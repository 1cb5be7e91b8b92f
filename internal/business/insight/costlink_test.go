package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCatalog() []CostCatalogEntry {
	return []CostCatalogEntry{
		{ID: "p1", Name: "Caneca Azul", BaseCost: 5},
		{ID: "p2", Name: "Caneca", BaseCost: 3},
		{ID: "p3", Name: "Kit Caneca Azul Premium", BaseCost: 9},
	}
}

func TestResolveCostItem_Priority(t *testing.T) {
	catalog := testCatalog()
	links := CostLinkMap{
		BySKU:   map[string]string{"sku 1": "p2"},
		ByTitle: map[string]string{"caneca vermelha": "p3"},
	}

	tests := []struct {
		name      string
		sku       string
		title     string
		wantID    string
		wantMatch MatchKind
	}{
		{"SKU 关联最高优先", "SKU-1", "Caneca Azul", "p2", MatchSKU},
		{"标题关联其次", "", "Caneca Vermelha", "p3", MatchTitle},
		{"规范化名称精确匹配", "", "CANECA AZUL", "p1", MatchExact},
		{"包含匹配兜底", "", "Caneca Azul Premium 500ml", "p1", MatchContains},
		{"无命中", "", "Chaveiro", "", MatchNone},
		{"SKU 和标题都为空", "", "", "", MatchNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, match := resolveCostItem(tt.sku, tt.title, catalog, links)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantMatch, match)
		})
	}
}

func TestResolveCostItem_ContainsIsDeterministic(t *testing.T) {
	// 包含匹配按目录顺序取第一个命中
	catalog := testCatalog()
	for i := 0; i < 50; i++ {
		id, match := resolveCostItem("", "Caneca Azul e Branca", catalog, CostLinkMap{})
		assert.Equal(t, "p1", id)
		assert.Equal(t, MatchContains, match)
	}
}

func TestLinkLine(t *testing.T) {
	catalog := testCatalog()

	t.Run("总成本和净利润", func(t *testing.T) {
		line := OrderLine{Title: "Caneca Azul", Quantity: 2, Amount: 100, Fee: 16, Shipping: 4}
		linked := LinkLine(line, catalog, CostLinkMap{})

		assert.Equal(t, "p1", linked.CostItemID)
		assert.Equal(t, MatchExact, linked.Match)
		assert.Equal(t, 5.0, linked.UnitCost)
		assert.Equal(t, 10.0, linked.TotalCost)
		// netProfit = amount - fee - shipping - totalCost
		assert.Equal(t, 70.0, linked.NetProfit)
		assert.True(t, linked.Linked())
	})

	t.Run("qty=0 按 1 计成本", func(t *testing.T) {
		line := OrderLine{Title: "Caneca Azul", Quantity: 0, Amount: 50}
		linked := LinkLine(line, catalog, CostLinkMap{})
		assert.Equal(t, 5.0, linked.TotalCost)
	})

	t.Run("映射指向已删除条目时按未关联处理", func(t *testing.T) {
		links := CostLinkMap{BySKU: map[string]string{"sku 9": "ghost"}}
		line := OrderLine{SKU: "SKU-9", Title: "Chaveiro", Amount: 30}
		linked := LinkLine(line, catalog, links)

		assert.Empty(t, linked.CostItemID)
		assert.Equal(t, MatchNone, linked.Match)
		assert.Equal(t, 0.0, linked.TotalCost)
		assert.False(t, linked.Linked())
	})
}

func TestComputeLink(t *testing.T) {
	t.Run("SKU 和标题都生成映射", func(t *testing.T) {
		entries := ComputeLink("SKU-1", "Caneca Açaí", "p1")
		assert.Equal(t, map[string]string{"sku 1": "p1"}, entries.BySKU)
		assert.Equal(t, map[string]string{"caneca acai": "p1"}, entries.ByTitle)
	})

	t.Run("空值不生成映射", func(t *testing.T) {
		entries := ComputeLink("", "---", "p1")
		assert.Empty(t, entries.BySKU)
		assert.Empty(t, entries.ByTitle)
	})
}
