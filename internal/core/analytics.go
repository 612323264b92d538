package core

import (
	"time"

	"github.com/shopspring/decimal"
)

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Summarize folds sale lines into the dashboard summary. Lines must arrive in
// stable (sale, line number) order: when two products tie on quantity, the one
// first encountered in that order wins MostSoldProduct, and reordering the
// input would change the answer.
func Summarize(lines []SaleLine, products []Product) Analytics {
	byID := make(map[int]*Product, len(products))
	activeCount := 0
	for i := range products {
		byID[products[i].ID] = &products[i]
		if products[i].IsActive {
			activeCount++
		}
	}

	a := Analytics{
		TotalProducts:     activeCount,
		TotalRevenue:      decimal.Zero,
		QuantityByProduct: make(map[int]int),
	}

	var seen []int // product ids in first-encounter order
	for _, l := range lines {
		a.TotalRevenue = a.TotalRevenue.Add(l.LineTotal)
		if _, ok := a.QuantityByProduct[l.ProductID]; !ok {
			seen = append(seen, l.ProductID)
		}
		a.QuantityByProduct[l.ProductID] += l.Quantity
	}

	// TotalQuantitySold is the winner's aggregate quantity, not the grand
	// total across products. Zero when nothing has sold.
	best := 0
	for _, id := range seen {
		if a.QuantityByProduct[id] > best {
			best = a.QuantityByProduct[id]
			a.MostSoldProduct = byID[id]
		}
	}
	a.TotalQuantitySold = best
	return a
}

// MonthlySeries buckets sales by the calendar month of SoldAt, producing
// parallel slices of month label, summed line revenue, and distinct customer
// count. Months with no sales are dropped; the remaining buckets keep
// January-to-December order regardless of when the sales were recorded.
func MonthlySeries(sales []Sale) ChartData {
	var income [12]decimal.Decimal
	var active [12]bool
	customers := make([]map[string]struct{}, 12)
	for i := range income {
		income[i] = decimal.Zero
		customers[i] = make(map[string]struct{})
	}

	for _, sale := range sales {
		m := int(sale.SoldAt.Month()) - int(time.January)
		active[m] = true
		customers[m][sale.CustomerName] = struct{}{}
		for _, l := range sale.Lines {
			income[m] = income[m].Add(l.LineTotal)
		}
	}

	var out ChartData
	for m := 0; m < 12; m++ {
		if !active[m] {
			continue
		}
		out.Labels = append(out.Labels, monthNames[m])
		out.IncomeByMonth = append(out.IncomeByMonth, income[m])
		out.UniqueCustomersByMonth = append(out.UniqueCustomersByMonth, len(customers[m]))
	}
	return out
}
