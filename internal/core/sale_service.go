package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pos-engine/internal/metrics"

	"github.com/shopspring/decimal"
)

// SaleService turns an open cart into a durable, stock-consistent sale record.
//
// Validate and Commit are deliberately separate defenses against overselling:
// Validate re-checks stock against the latest catalog read so the caller gets
// a correctable error early, and Commit re-checks via the conditional
// decrement inside its transaction, which is the last line of defense when two
// terminals race for the same units.
type SaleService interface {
	// Validate checks cart completeness, quantities, live stock, and payment
	// sufficiency. On success it returns an immutable ValidatedSale carrying
	// the computed total and change due.
	Validate(ctx context.Context, cart *Cart, customerName string, method PaymentMethod, amountTendered decimal.Decimal) (*ValidatedSale, error)

	// Commit atomically persists the sale header, all lines, and all stock
	// decrements in one transaction. On any failure nothing is visible
	// afterward: no line inserted, no stock changed.
	Commit(ctx context.Context, validated *ValidatedSale) (*Sale, error)

	GetSale(ctx context.Context, id int) (*Sale, error)
	// ListSales returns all sales ordered by id with their lines attached.
	ListSales(ctx context.Context) ([]Sale, error)

	// DeleteSale removes a persisted sale and symmetrically restores the
	// stock its lines consumed, under the same all-or-nothing discipline as
	// Commit. Editing a sale is modeled as delete-then-recommit.
	DeleteSale(ctx context.Context, id int) error
}

type saleService struct {
	pool      *pgxpool.Pool
	catalog   CatalogService
	sequences SequenceService
	prefix    string
	metrics   *metrics.Registry // nil disables instrumentation
}

// NewSaleService constructs a SaleService. prefix is the 3-letter order-number
// prefix ("OBZ" in the demo store); m may be nil.
func NewSaleService(pool *pgxpool.Pool, catalog CatalogService, sequences SequenceService, prefix string, m *metrics.Registry) SaleService {
	return &saleService{pool: pool, catalog: catalog, sequences: sequences, prefix: prefix, metrics: m}
}

// ── Validate ──────────────────────────────────────────────────────────────────

func (s *saleService) Validate(ctx context.Context, cart *Cart, customerName string, method PaymentMethod, amountTendered decimal.Decimal) (*ValidatedSale, error) {
	if cart == nil || cart.Len() == 0 {
		return nil, ErrEmptyCart
	}
	if strings.TrimSpace(customerName) == "" {
		return nil, ErrMissingCustomer
	}
	if !method.Valid() {
		return nil, &PaymentMethodError{Method: string(method)}
	}
	if amountTendered.IsNegative() {
		return nil, &NegativeAmountError{Field: "amount_tendered", Amount: amountTendered}
	}

	lines := cart.Lines()
	total := decimal.Zero
	for i, line := range lines {
		if line.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: line.ProductID, Quantity: line.Quantity}
		}
		if line.UnitPrice.IsNegative() {
			return nil, &NegativeAmountError{Field: "unit_price", Amount: line.UnitPrice}
		}

		// Re-check against the latest catalog read, not the cart-time
		// snapshot, so a sale that already drained stock at another terminal
		// fails here instead of at commit.
		var onHand int
		var isActive bool
		err := s.pool.QueryRow(ctx,
			"SELECT on_hand, is_active FROM products WHERE id = $1", line.ProductID,
		).Scan(&onHand, &isActive)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("product %d not found", line.ProductID)
			}
			return nil, fmt.Errorf("failed to read stock for product %d: %w", line.ProductID, err)
		}
		if !isActive {
			return nil, fmt.Errorf("product %d is no longer available", line.ProductID)
		}
		if line.Quantity > onHand {
			return nil, &InsufficientStockError{ProductID: line.ProductID, Available: onHand, Requested: line.Quantity}
		}

		// Recompute the subtotal so sum(lineTotal) == total holds regardless
		// of what the caller stuffed into the cart line.
		lines[i].Subtotal = lineSubtotal(line.UnitPrice, line.Quantity)
		total = total.Add(lines[i].Subtotal)
	}

	if amountTendered.LessThan(total) {
		return nil, &InsufficientPaymentError{Total: total, Tendered: amountTendered}
	}

	return &ValidatedSale{
		customerName:   strings.TrimSpace(customerName),
		paymentMethod:  method,
		amountTendered: amountTendered,
		total:          total,
		changeDue:      amountTendered.Sub(total),
		lines:          lines,
	}, nil
}

// ── Commit ────────────────────────────────────────────────────────────────────

func (s *saleService) Commit(ctx context.Context, validated *ValidatedSale) (*Sale, error) {
	if validated == nil || len(validated.lines) == 0 {
		return nil, ErrEmptyCart
	}

	start := time.Now()
	sale, err := s.commit(ctx, validated)
	if s.metrics != nil {
		if err != nil {
			s.metrics.CommitFailures.Inc()
			var race *StockRaceError
			if errors.As(err, &race) {
				s.metrics.StockConflicts.Inc()
			}
		} else {
			s.metrics.SalesCommitted.Inc()
			s.metrics.CommitLatencySec.Observe(time.Since(start).Seconds())
		}
	}
	return sale, err
}

func (s *saleService) commit(ctx context.Context, validated *ValidatedSale) (*Sale, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	soldAt := time.Now()
	orderID, err := s.sequences.NextOrderNumberTx(ctx, tx, s.prefix, soldAt)
	if err != nil {
		return nil, err
	}

	var saleID int
	var createdAt time.Time
	err = tx.QueryRow(ctx, `
		INSERT INTO sales (order_id, customer_name, payment_method, total, amount_tendered, change_due, status, sold_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, orderID, validated.customerName, string(validated.paymentMethod),
		validated.total, validated.amountTendered, validated.changeDue,
		string(SaleDone), soldAt).Scan(&saleID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert sale: %w", err)
	}

	for i, line := range validated.lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO sale_lines (sale_id, line_number, product_id, quantity, unit_price_at_sale, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, saleID, i+1, line.ProductID, line.Quantity, line.UnitPrice, line.Subtotal)
		if err != nil {
			return nil, fmt.Errorf("failed to insert sale line %d: %w", i+1, err)
		}

		// Last line of defense: a concurrent commit may have drained stock
		// since Validate ran. The conditional decrement aborts the whole TX.
		if err := s.catalog.DecrementStockTx(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
	}

	// Read the lines back while still inside the TX. Once Commit returns an
	// error the caller may retry the whole sale, so nothing after this point
	// is allowed to fail with the data already durable.
	lines, err := fetchSaleLinesQ(ctx, tx, saleID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}

	return &Sale{
		ID:             saleID,
		OrderID:        orderID,
		CustomerName:   validated.customerName,
		PaymentMethod:  validated.paymentMethod,
		Total:          validated.total,
		AmountTendered: validated.amountTendered,
		ChangeDue:      validated.changeDue,
		Status:         SaleDone,
		SoldAt:         soldAt,
		Lines:          lines,
		CreatedAt:      createdAt,
	}, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

const saleColumns = `s.id, s.order_id, s.customer_name, s.payment_method,
       s.total, s.amount_tendered, s.change_due, s.status, s.sold_at, s.created_at`

func scanSale(row pgx.Row, sale *Sale) error {
	return row.Scan(&sale.ID, &sale.OrderID, &sale.CustomerName, &sale.PaymentMethod,
		&sale.Total, &sale.AmountTendered, &sale.ChangeDue, &sale.Status, &sale.SoldAt, &sale.CreatedAt)
}

func (s *saleService) GetSale(ctx context.Context, id int) (*Sale, error) {
	var sale Sale
	err := scanSale(s.pool.QueryRow(ctx,
		"SELECT "+saleColumns+" FROM sales s WHERE s.id = $1", id), &sale)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sale %d not found", id)
		}
		return nil, fmt.Errorf("failed to fetch sale %d: %w", id, err)
	}

	lines, err := fetchSaleLinesQ(ctx, s.pool, id)
	if err != nil {
		return nil, err
	}
	sale.Lines = lines
	return &sale, nil
}

func (s *saleService) ListSales(ctx context.Context) ([]Sale, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+saleColumns+" FROM sales s ORDER BY s.id")
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []Sale
	index := make(map[int]int)
	for rows.Next() {
		var sale Sale
		if err := scanSale(rows, &sale); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		index[sale.ID] = len(sales)
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}

	lineRows, err := s.pool.Query(ctx, `
		SELECT sl.id, sl.sale_id, sl.line_number, sl.product_id, p.name,
		       sl.quantity, sl.unit_price_at_sale, sl.line_total
		FROM sale_lines sl
		JOIN products p ON p.id = sl.product_id
		ORDER BY sl.sale_id, sl.line_number
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var l SaleLine
		if err := lineRows.Scan(&l.ID, &l.SaleID, &l.LineNumber, &l.ProductID, &l.ProductName,
			&l.Quantity, &l.UnitPriceAtSale, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		if i, ok := index[l.SaleID]; ok {
			sales[i].Lines = append(sales[i].Lines, l)
		}
	}
	return sales, lineRows.Err()
}

// pgxRowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgxRowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func fetchSaleLinesQ(ctx context.Context, q pgxRowQuerier, saleID int) ([]SaleLine, error) {
	rows, err := q.Query(ctx, `
		SELECT sl.id, sl.sale_id, sl.line_number, sl.product_id, p.name,
		       sl.quantity, sl.unit_price_at_sale, sl.line_total
		FROM sale_lines sl
		JOIN products p ON p.id = sl.product_id
		WHERE sl.sale_id = $1
		ORDER BY sl.line_number
	`, saleID)
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
	return lines, rows.Err()
}

// ── DeleteSale ────────────────────────────────────────────────────────────────

func (s *saleService) DeleteSale(ctx context.Context, id int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the sale so a concurrent delete cannot restore stock twice.
	var saleID int
	err = tx.QueryRow(ctx, "SELECT id FROM sales WHERE id = $1 FOR UPDATE", id).Scan(&saleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("sale %d not found", id)
		}
		return fmt.Errorf("failed to lock sale %d: %w", id, err)
	}

	lines, err := fetchSaleLinesQ(ctx, tx, id)
	if err != nil {
		return err
	}

	for _, line := range lines {
		if err := s.catalog.RestoreStockTx(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return fmt.Errorf("failed to restore stock for sale %d: %w", id, err)
		}
	}

	// sale_lines cascade with the header row.
	if _, err := tx.Exec(ctx, "DELETE FROM sales WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete sale %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit sale deletion: %w", err)
	}

	if s.metrics != nil {
		s.metrics.SalesDeleted.Inc()
	}
	return nil
}
