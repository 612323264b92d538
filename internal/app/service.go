package app

import (
	"context"

	"pos-engine/internal/core"
)

// ApplicationService is the single interface all UI adapters (REPL, CLI) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// ListProducts returns all active catalog products.
	ListProducts(ctx context.Context) (*ProductListResult, error)

	// GetProduct returns a single product by id.
	GetProduct(ctx context.Context, id int) (*ProductResult, error)

	// CreateProduct adds a new catalog product.
	CreateProduct(ctx context.Context, req ProductRequest) (*ProductResult, error)

	// UpdateProduct edits an active product in place.
	UpdateProduct(ctx context.Context, id int, req ProductRequest) (*ProductResult, error)

	// DeleteProduct deactivates a product; historical sale lines keep their
	// reference.
	DeleteProduct(ctx context.Context, id int) error

	// CommitSale builds a cart from the request lines, validates it, and
	// commits it atomically. The returned sale carries the assigned order
	// number and the change due.
	CommitSale(ctx context.Context, req CommitSaleRequest) (*SaleResult, error)

	// ListSales returns all committed sales with their lines.
	ListSales(ctx context.Context) (*SaleListResult, error)

	// GetSale returns a single sale by id.
	GetSale(ctx context.Context, id int) (*SaleResult, error)

	// DeleteSale removes a sale and restores the stock its lines consumed.
	DeleteSale(ctx context.Context, id int) error

	// GetAnalytics returns the dashboard summary over all sales.
	GetAnalytics(ctx context.Context) (*AnalyticsResult, error)

	// GetMonthlyChart returns the monthly revenue / unique-customer series.
	GetMonthlyChart(ctx context.Context) (*core.ChartData, error)
}
