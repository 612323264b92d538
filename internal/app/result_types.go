package app

import "pos-engine/internal/core"

// ProductResult is returned by single-product operations.
type ProductResult struct {
	Product *core.Product
}

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product
}

// SaleResult is returned by CommitSale and GetSale.
type SaleResult struct {
	Sale *core.Sale
}

// SaleListResult is returned by ListSales.
type SaleListResult struct {
	Sales []core.Sale
}

// AnalyticsResult is returned by GetAnalytics.
type AnalyticsResult struct {
	Analytics *core.Analytics
}
