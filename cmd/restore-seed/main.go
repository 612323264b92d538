// restore-seed is a one-shot tool to reset the database to the demo catalog.
// It wipes all sales history and replaces the product list.
//
// Usage: go run ./cmd/restore-seed
package main

import (
	"context"
	"log"

	"pos-engine/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Clearing sales history...")
	_, err = tx.Exec(ctx, `
		DELETE FROM sale_lines;
		DELETE FROM sales;
		DELETE FROM order_sequences;
	`)
	if err != nil {
		log.Fatalf("Failed to clear sales: %v", err)
	}

	log.Println("Replacing product catalog...")
	_, err = tx.Exec(ctx, `
		DELETE FROM products;
		INSERT INTO products (name, unit_price, on_hand, color, image_ref)
		VALUES
		    ('Airpod',      500000, 10, 'white', 'airbuds.png'),
		    ('Headphone',   500000, 10, 'black', NULL),
		    ('Headset',     200000,  5, 'white', NULL),
		    ('Accessories',  50000, 15, 'black', NULL);
	`)
	if err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Println("Seed data restored.")
}
