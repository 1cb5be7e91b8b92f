package insight

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saleLine(id int64, title string, qty int, amount, fee, tax, shipping, cost float64) LinkedLine {
	match := MatchNone
	if cost > 0 {
		match = MatchExact
	}
	return LinkedLine{
		OrderLine: OrderLine{
			ID:       id,
			Title:    title,
			Quantity: qty,
			Amount:   amount,
			Paid:     amount - fee,
			Fee:      fee,
			Tax:      tax,
			Shipping: shipping,
		},
		TotalCost: cost,
		NetProfit: amount - fee - shipping - cost,
		Match:     match,
	}
}

func cancelledLine(id int64, amount float64) LinkedLine {
	return LinkedLine{
		OrderLine: OrderLine{
			ID:        id,
			Amount:    amount,
			Status:    "Cancelado",
			Cancelled: true,
		},
	}
}

func TestBuildStats(t *testing.T) {
	lines := []LinkedLine{
		saleLine(1, "Caneca Azul", 2, 100, 16, 2, 4, 10),
		saleLine(2, "Chaveiro", 1, 50, 8, 0, 0, 0),
		cancelledLine(3, 30),
	}

	stats := BuildStats(lines)

	assert.Equal(t, 2, stats.OrdersCount)
	assert.Equal(t, 3, stats.UnitsCount)
	assert.Equal(t, 150.0, stats.GrossRevenue)
	assert.Equal(t, 1, stats.CancelledCount)
	assert.Equal(t, 30.0, stats.CancelledAmount)
	assert.Equal(t, 24.0, stats.FeesTotal)
	assert.Equal(t, 2.0, stats.TaxesTotal)
	assert.Equal(t, 4.0, stats.ShippingTotal)
	assert.Equal(t, 10.0, stats.CostTotal)

	// netRevenue = gross - fees - taxes - shipping
	assert.Equal(t, 120.0, stats.NetRevenue)
	// profit = netRevenue - cost
	assert.Equal(t, 110.0, stats.Profit)
	assert.Equal(t, 75.0, stats.AverageTicket)
	assert.Equal(t, 55.0, stats.AverageProfit)
	assert.InDelta(t, 73.33, stats.MarginPercent, 0.01)
}

func TestBuildStats_EmptyAndZeroGross(t *testing.T) {
	t.Run("空输入", func(t *testing.T) {
		stats := BuildStats(nil)
		assert.Zero(t, stats.OrdersCount)
		assert.Zero(t, stats.AverageTicket)
		assert.Zero(t, stats.MarginPercent)
	})

	t.Run("gross<=0 时 margin 为 0", func(t *testing.T) {
		stats := BuildStats([]LinkedLine{saleLine(1, "X", 1, 0, 0, 0, 0, 0)})
		assert.Equal(t, 0.0, stats.MarginPercent)
	})
}

func TestBuildTopProducts(t *testing.T) {
	lines := []LinkedLine{
		saleLine(1, "Caneca Azul", 2, 100, 0, 0, 0, 0),
		saleLine(2, "Caneca Azul", 1, 50, 0, 0, 0, 0),
		saleLine(3, "Chaveiro", 1, 50, 0, 0, 0, 0),
		cancelledLine(4, 500),
	}

	products := BuildTopProducts(lines)
	require.Len(t, products, 2)

	assert.Equal(t, "Caneca Azul", products[0].Title)
	assert.Equal(t, 3, products[0].Units)
	assert.Equal(t, 150.0, products[0].Amount)
	assert.Equal(t, 75.0, products[0].Share)

	assert.Equal(t, "Chaveiro", products[1].Title)
	assert.Equal(t, 25.0, products[1].Share)
}

func TestBuildTopProducts_LimitAndTiebreak(t *testing.T) {
	lines := make([]LinkedLine, 0, 10)
	for i := 0; i < 10; i++ {
		lines = append(lines, saleLine(int64(i+1), fmt.Sprintf("Produto %d", i), 1, 10, 0, 0, 0, 0))
	}

	products := BuildTopProducts(lines)
	require.Len(t, products, topProductLimit)

	// 金额相同按标题升序保证确定性
	for i := 1; i < len(products); i++ {
		assert.Less(t, products[i-1].Title, products[i].Title)
	}
}

func TestPeriodContains(t *testing.T) {
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name   string
		period Period
		ts     time.Time
		want   bool
	}{
		{"区间内", Period{Start: start, End: end}, start.AddDate(0, 0, 10), true},
		{"闭区间含边界", Period{Start: start, End: end}, start, true},
		{"区间前", Period{Start: start, End: end}, start.Add(-time.Second), false},
		{"区间后", Period{Start: start, End: end}, end.Add(time.Second), false},
		{"零值边界不限", Period{}, time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"只限起点", Period{Start: start}, end.AddDate(1, 0, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.period.Contains(tt.ts))
		})
	}
}
