package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how the customer settled the sale.
type PaymentMethod string

const (
	PaymentQRIS PaymentMethod = "QRIS"
	PaymentCash PaymentMethod = "Cash"
)

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	return m == PaymentQRIS || m == PaymentCash
}

// SaleStatus is the lifecycle state of a persisted sale.
// Sales committed through SaleService are always Done; Pending exists for
// externally managed drafts.
type SaleStatus string

const (
	SalePending SaleStatus = "Pending"
	SaleDone    SaleStatus = "Done"
)

// Product is a catalog item. OnHand is mutated only by SaleService (decrement
// on commit, restore on delete) and by catalog management.
type Product struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	OnHand    int             `json:"on_hand"`
	Color     string          `json:"color,omitempty"`
	ImageRef  string          `json:"image_ref,omitempty"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

// CartLine is one pending line in an open cart. It exists only in memory;
// OnHand and UnitPrice are snapshots taken when the product was added.
type CartLine struct {
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	OnHand      int             `json:"on_hand"`
}

// Sale is one committed point-of-sale transaction.
type Sale struct {
	ID             int             `json:"id"`
	OrderID        string          `json:"order_id"`
	CustomerName   string          `json:"customer_name"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	Total          decimal.Decimal `json:"total"`
	AmountTendered decimal.Decimal `json:"amount_tendered"`
	ChangeDue      decimal.Decimal `json:"change_due"`
	Status         SaleStatus      `json:"status"`
	SoldAt         time.Time       `json:"sold_at"`
	Lines          []SaleLine      `json:"lines"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SaleLine is one product-quantity pair within a sale. UnitPriceAtSale is the
// price snapshot taken at commit time; later catalog edits never rewrite it.
type SaleLine struct {
	ID              int             `json:"id"`
	SaleID          int             `json:"sale_id"`
	LineNumber      int             `json:"line_number"`
	ProductID       int             `json:"product_id"`
	ProductName     string          `json:"product_name"` // joined from products
	Quantity        int             `json:"quantity"`
	UnitPriceAtSale decimal.Decimal `json:"unit_price_at_sale"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// ValidatedSale is the immutable output of SaleService.Validate and the only
// input SaleService.Commit accepts. Fields are unexported so a caller cannot
// alter quantities or amounts between validation and commit.
type ValidatedSale struct {
	customerName   string
	paymentMethod  PaymentMethod
	amountTendered decimal.Decimal
	total          decimal.Decimal
	changeDue      decimal.Decimal
	lines          []CartLine
}

func (v *ValidatedSale) CustomerName() string         { return v.customerName }
func (v *ValidatedSale) PaymentMethod() PaymentMethod { return v.paymentMethod }
func (v *ValidatedSale) AmountTendered() decimal.Decimal {
	return v.amountTendered
}
func (v *ValidatedSale) Total() decimal.Decimal     { return v.total }
func (v *ValidatedSale) ChangeDue() decimal.Decimal { return v.changeDue }

// Lines returns a copy of the validated lines.
func (v *ValidatedSale) Lines() []CartLine {
	out := make([]CartLine, len(v.lines))
	copy(out, v.lines)
	return out
}

// Analytics is the summary projection over the whole sale log.
// TotalQuantitySold is the units sold of MostSoldProduct, zero when no sales
// exist.
type Analytics struct {
	TotalProducts     int             `json:"total_products"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	MostSoldProduct   *Product        `json:"most_sold_product"` // nil when no sales exist
	TotalQuantitySold int             `json:"total_quantity_sold"`
	QuantityByProduct map[int]int     `json:"quantity_by_product"`
}

// ChartData is the monthly revenue / unique-customer time series, filtered to
// months with activity and ordered January through December.
type ChartData struct {
	Labels                 []string          `json:"labels"`
	IncomeByMonth          []decimal.Decimal `json:"income_by_month"`
	UniqueCustomersByMonth []int             `json:"unique_customers_by_month"`
}
