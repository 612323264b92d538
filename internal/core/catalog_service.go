package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CatalogService manages the product catalog and owns all stock mutations.
//
// The Tx-scoped operations work within a caller-provided transaction; they
// exist so SaleService can keep stock changes atomic with the sale record.
type CatalogService interface {
	GetProduct(ctx context.Context, id int) (*Product, error)
	// ListProducts returns all active products ordered by id.
	ListProducts(ctx context.Context) ([]Product, error)
	// ListAllProducts includes soft-deleted products. Analytics needs them to
	// resolve line items against retired catalog entries.
	ListAllProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, name string, unitPrice decimal.Decimal, onHand int, color, imageRef string) (*Product, error)
	UpdateProduct(ctx context.Context, id int, name string, unitPrice decimal.Decimal, onHand int, color, imageRef string) (*Product, error)
	// DeleteProduct deactivates a product. Rows are kept so historical sale
	// lines retain their reference.
	DeleteProduct(ctx context.Context, id int) error

	// DecrementStockTx conditionally deducts stock within the caller's TX:
	// the UPDATE only matches while on_hand >= qty, so two commits racing for
	// the last units cannot both succeed. Zero rows affected means a
	// concurrent sale won the race and is surfaced as *StockRaceError.
	DecrementStockTx(ctx context.Context, tx pgx.Tx, productID, qty int) error
	// RestoreStockTx adds stock back within the caller's TX. Used when a
	// persisted sale is deleted.
	RestoreStockTx(ctx context.Context, tx pgx.Tx, productID, qty int) error
}

type catalogService struct {
	pool *pgxpool.Pool
}

func NewCatalogService(pool *pgxpool.Pool) CatalogService {
	return &catalogService{pool: pool}
}

const productColumns = "id, name, unit_price, on_hand, COALESCE(color, ''), COALESCE(image_ref, ''), is_active, created_at"

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(&p.ID, &p.Name, &p.UnitPrice, &p.OnHand, &p.Color, &p.ImageRef, &p.IsActive, &p.CreatedAt)
}

func (s *catalogService) GetProduct(ctx context.Context, id int) (*Product, error) {
	var p Product
	err := scanProduct(s.pool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d not found", id)
		}
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}
	return &p, nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]Product, error) {
	return s.listProducts(ctx, true)
}

func (s *catalogService) ListAllProducts(ctx context.Context) ([]Product, error) {
	return s.listProducts(ctx, false)
}

func (s *catalogService) listProducts(ctx context.Context, activeOnly bool) ([]Product, error) {
	query := "SELECT " + productColumns + " FROM products"
	if activeOnly {
		query += " WHERE is_active = true"
	}
	query += " ORDER BY id"

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *catalogService) CreateProduct(ctx context.Context, name string, unitPrice decimal.Decimal, onHand int, color, imageRef string) (*Product, error) {
	if name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if unitPrice.IsNegative() {
		return nil, &NegativeAmountError{Field: "unit_price", Amount: unitPrice}
	}
	if onHand < 0 {
		return nil, fmt.Errorf("on-hand quantity cannot be negative, got %d", onHand)
	}

	var p Product
	err := scanProduct(s.pool.QueryRow(ctx, `
		INSERT INTO products (name, unit_price, on_hand, color, image_ref)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		RETURNING `+productColumns,
		name, unitPrice, onHand, color, imageRef), &p)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &p, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id int, name string, unitPrice decimal.Decimal, onHand int, color, imageRef string) (*Product, error) {
	if unitPrice.IsNegative() {
		return nil, &NegativeAmountError{Field: "unit_price", Amount: unitPrice}
	}
	if onHand < 0 {
		return nil, fmt.Errorf("on-hand quantity cannot be negative, got %d", onHand)
	}

	var p Product
	err := scanProduct(s.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $2, unit_price = $3, on_hand = $4,
		    color = NULLIF($5, ''), image_ref = NULLIF($6, '')
		WHERE id = $1 AND is_active = true
		RETURNING `+productColumns,
		id, name, unitPrice, onHand, color, imageRef), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d not found", id)
		}
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return &p, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE products SET is_active = false WHERE id = $1 AND is_active = true", id)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d not found", id)
	}
	return nil
}

// ── TX-scoped operations ──────────────────────────────────────────────────────

func (s *catalogService) DecrementStockTx(ctx context.Context, tx pgx.Tx, productID, qty int) error {
	if qty <= 0 {
		return &InvalidQuantityError{ProductID: productID, Quantity: qty}
	}

	// Single conditional statement: the check and the write are one atomic
	// round trip, never two.
	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET on_hand = on_hand - $1
		WHERE id = $2 AND is_active = true AND on_hand >= $1
	`, qty, productID)
	if err != nil {
		return fmt.Errorf("failed to decrement stock for product %d: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		var available int
		if scanErr := tx.QueryRow(ctx,
			"SELECT on_hand FROM products WHERE id = $1 AND is_active = true", productID,
		).Scan(&available); scanErr != nil {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				return fmt.Errorf("product %d not found", productID)
			}
			return fmt.Errorf("failed to read stock for product %d: %w", productID, scanErr)
		}
		return &StockRaceError{ProductID: productID, Available: available, Requested: qty}
	}
	return nil
}

func (s *catalogService) RestoreStockTx(ctx context.Context, tx pgx.Tx, productID, qty int) error {
	if qty <= 0 {
		return &InvalidQuantityError{ProductID: productID, Quantity: qty}
	}

	tag, err := tx.Exec(ctx,
		"UPDATE products SET on_hand = on_hand + $1 WHERE id = $2", qty, productID)
	if err != nil {
		return fmt.Errorf("failed to restore stock for product %d: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d not found", productID)
	}
	return nil
}
