// possim generates synthetic sales through the real validate/commit path so a
// fresh database has believable analytics. Each generated sale is backdated up
// to -days in the past to spread the monthly chart.
//
// Usage: go run ./cmd/possim [-count 50] [-days 180] [-restock]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"pos-engine/internal/core"
	"pos-engine/internal/db"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

var customers = []string{
	"Budi", "Siti", "Agus", "Dewi", "Rizky", "Putri", "Andi", "Maya", "Joko", "Lina",
}

func main() {
	_ = godotenv.Load()

	count := flag.Int("count", 50, "number of sales to generate")
	days := flag.Int("days", 180, "spread sales over this many past days")
	restock := flag.Bool("restock", false, "top every product back up to 100 units first")
	flag.Parse()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	prefix := os.Getenv("ORDER_PREFIX")
	if prefix == "" {
		prefix = "OBZ"
	}

	catalog := core.NewCatalogService(pool)
	sequences := core.NewSequenceService(pool)
	sales := core.NewSaleService(pool, catalog, sequences, prefix, nil)

	if *restock {
		if _, err := pool.Exec(ctx,
			"UPDATE products SET on_hand = 100 WHERE is_active = true AND on_hand < 100"); err != nil {
			log.Fatalf("Failed to restock: %v", err)
		}
		log.Println("Restocked all active products to 100 units.")
	}

	committed := 0
	for i := 0; i < *count; i++ {
		products, err := catalog.ListProducts(ctx)
		if err != nil {
			log.Fatalf("Failed to list products: %v", err)
		}
		sellable := products[:0]
		for _, p := range products {
			if p.OnHand > 0 {
				sellable = append(sellable, p)
			}
		}
		if len(sellable) == 0 {
			log.Println("All products out of stock, stopping. Re-run with -restock.")
			break
		}

		cart := core.NewCart()
		for _, p := range pick(sellable, 1+rand.Intn(3)) {
			qty := 1 + rand.Intn(3)
			if qty > p.OnHand {
				qty = p.OnHand
			}
			if err := cart.AddLine(p, qty); err != nil {
				log.Fatalf("Failed to build cart: %v", err)
			}
		}

		method := core.PaymentQRIS
		if rand.Intn(2) == 0 {
			method = core.PaymentCash
		}

		// Overpay cash sales so the change path gets exercised too.
		tendered := cart.Total()
		if method == core.PaymentCash {
			tendered = tendered.Add(decimal.NewFromInt(int64(rand.Intn(5)) * 10000))
		}

		customer := customers[rand.Intn(len(customers))]
		validated, err := sales.Validate(ctx, cart, customer, method, tendered)
		if err != nil {
			log.Fatalf("Validation failed: %v", err)
		}
		sale, err := sales.Commit(ctx, validated)
		if err != nil {
			log.Fatalf("Commit failed: %v", err)
		}

		// Backdate after the fact. Order numbers keep today's date stamp,
		// which is fine for generated data.
		soldAt := time.Now().AddDate(0, 0, -rand.Intn(*days))
		if _, err := pool.Exec(ctx, "UPDATE sales SET sold_at = $1 WHERE id = $2", soldAt, sale.ID); err != nil {
			log.Fatalf("Failed to backdate sale %d: %v", sale.ID, err)
		}

		committed++
		fmt.Printf("%-14s %-8s %-6s %12s\n", sale.OrderID, customer, method, sale.Total.StringFixed(2))
	}

	log.Printf("Generated %d sales.", committed)
}

// pick returns up to n distinct random products.
func pick(products []core.Product, n int) []core.Product {
	idx := rand.Perm(len(products))
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]core.Product, 0, n)
	for _, i := range idx[:n] {
		out = append(out, products[i])
	}
	return out
}
