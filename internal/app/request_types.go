package app

import "github.com/shopspring/decimal"

// ProductRequest carries the fields for creating or updating a product.
type ProductRequest struct {
	Name      string
	UnitPrice decimal.Decimal
	OnHand    int
	Color     string
	ImageRef  string
}

// CommitSaleLine is one product-quantity pair in a sale request.
type CommitSaleLine struct {
	ProductID int
	Quantity  int
}

// CommitSaleRequest carries everything needed to validate and commit a sale.
type CommitSaleRequest struct {
	CustomerName   string
	PaymentMethod  string
	AmountTendered decimal.Decimal
	Lines          []CommitSaleLine
}
