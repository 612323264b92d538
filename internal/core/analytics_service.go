package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"pos-engine/internal/metrics"
)

// AnalyticsService computes read-only projections over the sale log. It never
// writes, so it can run concurrently with commits; each call reflects whatever
// sales were durable at read time.
type AnalyticsService interface {
	GetAnalytics(ctx context.Context) (*Analytics, error)
	GetMonthlyChart(ctx context.Context) (*ChartData, error)
}

type analyticsService struct {
	pool    *pgxpool.Pool
	catalog CatalogService
	metrics *metrics.Registry // nil disables instrumentation
}

func NewAnalyticsService(pool *pgxpool.Pool, catalog CatalogService, m *metrics.Registry) AnalyticsService {
	return &analyticsService{pool: pool, catalog: catalog, metrics: m}
}

func (s *analyticsService) GetAnalytics(ctx context.Context) (*Analytics, error) {
	if s.metrics != nil {
		s.metrics.AnalyticsRequests.Inc()
	}

	products, err := s.catalog.ListAllProducts(ctx)
	if err != nil {
		return nil, err
	}

	// Stable order matters: the summary's most-sold tie break follows line
	// encounter order.
	rows, err := s.pool.Query(ctx, `
		SELECT sl.id, sl.sale_id, sl.line_number, sl.product_id, p.name,
		       sl.quantity, sl.unit_price_at_sale, sl.line_total
		FROM sale_lines sl
		JOIN products p ON p.id = sl.product_id
		ORDER BY sl.sale_id, sl.line_number
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale lines: %w", err)
	}
	defer rows.Close()

	var lines []SaleLine
	for rows.Next() {
		var l SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.LineNumber, &l.ProductID, &l.ProductName,
			&l.Quantity, &l.UnitPriceAtSale, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale lines: %w", err)
	}

	a := Summarize(lines, products)
	return &a, nil
}

func (s *analyticsService) GetMonthlyChart(ctx context.Context) (*ChartData, error) {
	if s.metrics != nil {
		s.metrics.AnalyticsRequests.Inc()
	}

	rows, err := s.pool.Query(ctx, `
		SELECT s.id, s.customer_name, s.sold_at, sl.line_total
		FROM sales s
		JOIN sale_lines sl ON sl.sale_id = s.id
		ORDER BY s.id, sl.line_number
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales for chart: %w", err)
	}
	defer rows.Close()

	var sales []Sale
	index := make(map[int]int)
	for rows.Next() {
		var (
			saleID       int
			customerName string
			soldAt       time.Time
			line         SaleLine
		)
		if err := rows.Scan(&saleID, &customerName, &soldAt, &line.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan chart row: %w", err)
		}
		i, ok := index[saleID]
		if !ok {
			i = len(sales)
			index[saleID] = i
			sales = append(sales, Sale{ID: saleID, CustomerName: customerName, SoldAt: soldAt})
		}
		sales[i].Lines = append(sales[i].Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chart rows: %w", err)
	}

	chart := MonthlySeries(sales)
	return &chart, nil
}
