package core_test

import (
	"testing"
	"time"

	"pos-engine/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(productID, qty int, lineTotal int64) core.SaleLine {
	return core.SaleLine{
		ProductID: productID,
		Quantity:  qty,
		LineTotal: decimal.NewFromInt(lineTotal),
	}
}

func TestSummarize(t *testing.T) {
	products := []core.Product{
		product(1, "Airpod", 500000, 10),
		product(2, "Headphone", 500000, 10),
		product(3, "Headset", 200000, 5),
	}
	lines := []core.SaleLine{
		line(1, 2, 1000000),
		line(3, 3, 600000),
		line(1, 1, 500000),
	}

	a := core.Summarize(lines, products)

	assert.Equal(t, 3, a.TotalProducts)
	assert.True(t, a.TotalRevenue.Equal(decimal.NewFromInt(2100000)), "revenue = %s", a.TotalRevenue)
	assert.Equal(t, 3, a.TotalQuantitySold)
	require.NotNil(t, a.MostSoldProduct)
	assert.Equal(t, "Airpod", a.MostSoldProduct.Name)
	assert.Equal(t, map[int]int{1: 3, 3: 3}, a.QuantityByProduct)
}

func TestSummarize_QuantitySoldIsWinnersAggregate(t *testing.T) {
	products := []core.Product{
		product(1, "Airpod", 500000, 10),
		product(3, "Headset", 200000, 5),
	}
	lines := []core.SaleLine{
		line(1, 3, 1500000),
		line(3, 2, 400000),
	}

	a := core.Summarize(lines, products)

	// The winner's quantity, not the 5-unit grand total across products.
	require.NotNil(t, a.MostSoldProduct)
	assert.Equal(t, 1, a.MostSoldProduct.ID)
	assert.Equal(t, 3, a.TotalQuantitySold)
}

func TestSummarize_TieBreakFollowsEncounterOrder(t *testing.T) {
	products := []core.Product{
		product(1, "Airpod", 500000, 10),
		product(2, "Headphone", 500000, 10),
	}

	// Both products sell 2 units; product 2 appears first in the line stream.
	lines := []core.SaleLine{
		line(2, 2, 1000000),
		line(1, 2, 1000000),
	}

	a := core.Summarize(lines, products)
	require.NotNil(t, a.MostSoldProduct)
	assert.Equal(t, 2, a.MostSoldProduct.ID)

	// Reversed stream flips the winner.
	a = core.Summarize([]core.SaleLine{lines[1], lines[0]}, products)
	require.NotNil(t, a.MostSoldProduct)
	assert.Equal(t, 1, a.MostSoldProduct.ID)
}

func TestSummarize_CountsOnlyActiveProducts(t *testing.T) {
	retired := product(9, "Old Model", 100000, 0)
	retired.IsActive = false
	products := []core.Product{product(1, "Airpod", 500000, 10), retired}

	// The retired product still resolves for MostSoldProduct.
	a := core.Summarize([]core.SaleLine{line(9, 4, 400000)}, products)

	assert.Equal(t, 1, a.TotalProducts)
	require.NotNil(t, a.MostSoldProduct)
	assert.Equal(t, 9, a.MostSoldProduct.ID)
}

func TestSummarize_Empty(t *testing.T) {
	a := core.Summarize(nil, nil)

	assert.Equal(t, 0, a.TotalProducts)
	assert.True(t, a.TotalRevenue.IsZero())
	assert.Equal(t, 0, a.TotalQuantitySold)
	assert.Nil(t, a.MostSoldProduct)
	assert.Empty(t, a.QuantityByProduct)
}

func sale(customer string, soldAt time.Time, lineTotals ...int64) core.Sale {
	s := core.Sale{CustomerName: customer, SoldAt: soldAt}
	for _, total := range lineTotals {
		s.Lines = append(s.Lines, core.SaleLine{LineTotal: decimal.NewFromInt(total)})
	}
	return s
}

func TestMonthlySeries(t *testing.T) {
	april := time.Date(2025, time.April, 10, 12, 0, 0, 0, time.UTC)
	sales := []core.Sale{
		sale("Budi", april, 500000, 200000),
		sale("Siti", april.AddDate(0, 0, 5), 1000000),
		sale("Budi", april.AddDate(0, 0, 9), 50000),
	}

	chart := core.MonthlySeries(sales)

	require.Equal(t, []string{"April"}, chart.Labels)
	require.Len(t, chart.IncomeByMonth, 1)
	assert.True(t, chart.IncomeByMonth[0].Equal(decimal.NewFromInt(1750000)), "income = %s", chart.IncomeByMonth[0])
	// Budi bought twice but counts once.
	assert.Equal(t, []int{2}, chart.UniqueCustomersByMonth)
}

func TestMonthlySeries_MonthOrderIsCalendar(t *testing.T) {
	sales := []core.Sale{
		sale("Agus", time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC), 100000),
		sale("Dewi", time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), 200000),
		sale("Maya", time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), 300000),
	}

	chart := core.MonthlySeries(sales)
	assert.Equal(t, []string{"February", "July", "November"}, chart.Labels)
}

func TestMonthlySeries_Empty(t *testing.T) {
	chart := core.MonthlySeries(nil)

	assert.Empty(t, chart.Labels)
	assert.Empty(t, chart.IncomeByMonth)
	assert.Empty(t, chart.UniqueCustomersByMonth)
}
