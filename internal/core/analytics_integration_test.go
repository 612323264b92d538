package core_test

import (
	"context"
	"testing"
	"time"

	"pos-engine/internal/core"

	"github.com/shopspring/decimal"
)

func commitSale(t *testing.T, ctx context.Context, catalog core.CatalogService, sales core.SaleService, customer string, pairs ...[2]int) *core.Sale {
	t.Helper()
	cart := buildCart(t, ctx, catalog, pairs...)
	validated, err := sales.Validate(ctx, cart, customer, core.PaymentCash, cart.Total())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	sale, err := sales.Commit(ctx, validated)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	return sale
}

func TestAnalyticsService_Summary(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	catalog, sales := newSaleService(pool)
	analytics := core.NewAnalyticsService(pool, catalog, nil)

	commitSale(t, ctx, catalog, sales, "Budi", [2]int{1, 2}, [2]int{3, 1}) // 1200000
	commitSale(t, ctx, catalog, sales, "Siti", [2]int{3, 2})              // 400000

	a, err := analytics.GetAnalytics(ctx)
	if err != nil {
		t.Fatalf("GetAnalytics failed: %v", err)
	}

	if a.TotalProducts != 4 {
		t.Errorf("Expected 4 active products, got %d", a.TotalProducts)
	}
	if !a.TotalRevenue.Equal(decimal.NewFromInt(1600000)) {
		t.Errorf("Expected revenue 1600000, got %s", a.TotalRevenue)
	}
	// Headset sold 3 units vs Airpod's 2; quantity sold tracks the winner.
	if a.MostSoldProduct == nil || a.MostSoldProduct.ID != 3 {
		t.Errorf("Expected Headset as most sold, got %+v", a.MostSoldProduct)
	}
	if a.TotalQuantitySold != 3 {
		t.Errorf("Expected 3 units sold for the best seller, got %d", a.TotalQuantitySold)
	}
}

func TestAnalyticsService_SummaryEmptyStore(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	catalog := core.NewCatalogService(pool)
	analytics := core.NewAnalyticsService(pool, catalog, nil)

	a, err := analytics.GetAnalytics(ctx)
	if err != nil {
		t.Fatalf("GetAnalytics failed: %v", err)
	}
	if a.MostSoldProduct != nil {
		t.Errorf("Expected nil most-sold with no sales, got %+v", a.MostSoldProduct)
	}
	if !a.TotalRevenue.IsZero() || a.TotalQuantitySold != 0 {
		t.Errorf("Expected zero revenue and quantity, got %s / %d", a.TotalRevenue, a.TotalQuantitySold)
	}
}

func TestAnalyticsService_MonthlyChart(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	catalog, sales := newSaleService(pool)
	analytics := core.NewAnalyticsService(pool, catalog, nil)

	s1 := commitSale(t, ctx, catalog, sales, "Budi", [2]int{1, 1}) // 500000
	s2 := commitSale(t, ctx, catalog, sales, "Siti", [2]int{3, 1}) // 200000
	s3 := commitSale(t, ctx, catalog, sales, "Budi", [2]int{4, 1}) // 50000

	// Spread the sales across two months.
	march := time.Date(time.Now().Year(), time.March, 5, 10, 0, 0, 0, time.UTC)
	june := time.Date(time.Now().Year(), time.June, 20, 15, 0, 0, 0, time.UTC)
	for sale, soldAt := range map[int]time.Time{s1.ID: march, s2.ID: march, s3.ID: june} {
		if _, err := pool.Exec(ctx, "UPDATE sales SET sold_at = $1 WHERE id = $2", soldAt, sale); err != nil {
			t.Fatalf("Failed to backdate sale %d: %v", sale, err)
		}
	}

	chart, err := analytics.GetMonthlyChart(ctx)
	if err != nil {
		t.Fatalf("GetMonthlyChart failed: %v", err)
	}

	if len(chart.Labels) != 2 || chart.Labels[0] != "March" || chart.Labels[1] != "June" {
		t.Fatalf("Expected [March June], got %v", chart.Labels)
	}
	if !chart.IncomeByMonth[0].Equal(decimal.NewFromInt(700000)) {
		t.Errorf("Expected March income 700000, got %s", chart.IncomeByMonth[0])
	}
	if !chart.IncomeByMonth[1].Equal(decimal.NewFromInt(50000)) {
		t.Errorf("Expected June income 50000, got %s", chart.IncomeByMonth[1])
	}
	if chart.UniqueCustomersByMonth[0] != 2 || chart.UniqueCustomersByMonth[1] != 1 {
		t.Errorf("Unexpected customer counts: %v", chart.UniqueCustomersByMonth)
	}
}
