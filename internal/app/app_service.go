package app

import (
	"context"
	"fmt"

	"pos-engine/internal/core"
)

type appService struct {
	catalog   core.CatalogService
	sales     core.SaleService
	analytics core.AnalyticsService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	catalog core.CatalogService,
	sales core.SaleService,
	analytics core.AnalyticsService,
) ApplicationService {
	return &appService{
		catalog:   catalog,
		sales:     sales,
		analytics: analytics,
	}
}

// ListProducts returns all active catalog products.
func (s *appService) ListProducts(ctx context.Context) (*ProductListResult, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

// GetProduct returns a single product by id.
func (s *appService) GetProduct(ctx context.Context, id int) (*ProductResult, error) {
	product, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: product}, nil
}

// CreateProduct adds a new catalog product.
func (s *appService) CreateProduct(ctx context.Context, req ProductRequest) (*ProductResult, error) {
	product, err := s.catalog.CreateProduct(ctx, req.Name, req.UnitPrice, req.OnHand, req.Color, req.ImageRef)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: product}, nil
}

// UpdateProduct edits an active product in place.
func (s *appService) UpdateProduct(ctx context.Context, id int, req ProductRequest) (*ProductResult, error) {
	product, err := s.catalog.UpdateProduct(ctx, id, req.Name, req.UnitPrice, req.OnHand, req.Color, req.ImageRef)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: product}, nil
}

// DeleteProduct deactivates a product.
func (s *appService) DeleteProduct(ctx context.Context, id int) error {
	return s.catalog.DeleteProduct(ctx, id)
}

// CommitSale builds a cart from the request lines, validates it, and commits
// it atomically.
func (s *appService) CommitSale(ctx context.Context, req CommitSaleRequest) (*SaleResult, error) {
	cart := core.NewCart()
	for _, line := range req.Lines {
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive {
			return nil, fmt.Errorf("product %d is no longer available", line.ProductID)
		}
		if err := cart.AddLine(*product, line.Quantity); err != nil {
			return nil, err
		}
	}

	validated, err := s.sales.Validate(ctx, cart, req.CustomerName, core.PaymentMethod(req.PaymentMethod), req.AmountTendered)
	if err != nil {
		return nil, err
	}

	sale, err := s.sales.Commit(ctx, validated)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

// ListSales returns all committed sales with their lines.
func (s *appService) ListSales(ctx context.Context) (*SaleListResult, error) {
	sales, err := s.sales.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	return &SaleListResult{Sales: sales}, nil
}

// GetSale returns a single sale by id.
func (s *appService) GetSale(ctx context.Context, id int) (*SaleResult, error) {
	sale, err := s.sales.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

// DeleteSale removes a sale and restores the stock its lines consumed.
func (s *appService) DeleteSale(ctx context.Context, id int) error {
	return s.sales.DeleteSale(ctx, id)
}

// GetAnalytics returns the dashboard summary over all sales.
func (s *appService) GetAnalytics(ctx context.Context) (*AnalyticsResult, error) {
	analytics, err := s.analytics.GetAnalytics(ctx)
	if err != nil {
		return nil, err
	}
	return &AnalyticsResult{Analytics: analytics}, nil
}

// GetMonthlyChart returns the monthly revenue / unique-customer series.
func (s *appService) GetMonthlyChart(ctx context.Context) (*core.ChartData, error) {
	return s.analytics.GetMonthlyChart(ctx)
}
