package cli

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"pos-engine/internal/app"
	"pos-engine/internal/core"

	"github.com/shopspring/decimal"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:] — the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	switch args[0] {
	case "products", "prods":
		result, err := svc.ListProducts(ctx)
		if err != nil {
			log.Fatalf("Failed to list products: %v", err)
		}
		PrintProducts(result.Products)

	case "product", "prod":
		if len(args) < 2 {
			log.Fatal("Usage: pos product <id>")
		}
		id := mustAtoi(args[1])
		result, err := svc.GetProduct(ctx, id)
		if err != nil {
			log.Fatalf("Failed to get product: %v", err)
		}
		PrintProducts([]core.Product{*result.Product})

	case "add-product":
		// pos add-product <name> <unit-price> <on-hand> [color] [image-ref]
		if len(args) < 4 {
			log.Fatal("Usage: pos add-product <name> <unit-price> <on-hand> [color] [image-ref]")
		}
		price, err := decimal.NewFromString(args[2])
		if err != nil {
			log.Fatalf("Invalid unit price %q: %v", args[2], err)
		}
		req := app.ProductRequest{Name: args[1], UnitPrice: price, OnHand: mustAtoi(args[3])}
		if len(args) > 4 {
			req.Color = args[4]
		}
		if len(args) > 5 {
			req.ImageRef = args[5]
		}
		result, err := svc.CreateProduct(ctx, req)
		if err != nil {
			log.Fatalf("Failed to create product: %v", err)
		}
		fmt.Printf("Created product %d: %s\n", result.Product.ID, result.Product.Name)

	case "delete-product":
		if len(args) < 2 {
			log.Fatal("Usage: pos delete-product <id>")
		}
		id := mustAtoi(args[1])
		if err := svc.DeleteProduct(ctx, id); err != nil {
			log.Fatalf("Failed to delete product: %v", err)
		}
		fmt.Printf("Product %d deactivated.\n", id)

	case "sell":
		// pos sell <customer> <QRIS|Cash> <amount-tendered> <id>x<qty> [<id>x<qty>...]
		if len(args) < 5 {
			log.Fatal("Usage: pos sell <customer> <QRIS|Cash> <amount-tendered> <id>x<qty> [...]")
		}
		tendered, err := decimal.NewFromString(args[3])
		if err != nil {
			log.Fatalf("Invalid amount %q: %v", args[3], err)
		}
		req := app.CommitSaleRequest{
			CustomerName:   args[1],
			PaymentMethod:  args[2],
			AmountTendered: tendered,
		}
		for _, spec := range args[4:] {
			line, err := parseLineSpec(spec)
			if err != nil {
				log.Fatalf("Invalid line %q: %v", spec, err)
			}
			req.Lines = append(req.Lines, line)
		}
		result, err := svc.CommitSale(ctx, req)
		if err != nil {
			log.Fatalf("Sale failed: %v", err)
		}
		PrintSale(result.Sale)

	case "sales":
		result, err := svc.ListSales(ctx)
		if err != nil {
			log.Fatalf("Failed to list sales: %v", err)
		}
		PrintSalesList(result.Sales)

	case "sale":
		if len(args) < 2 {
			log.Fatal("Usage: pos sale <id>")
		}
		result, err := svc.GetSale(ctx, mustAtoi(args[1]))
		if err != nil {
			log.Fatalf("Failed to get sale: %v", err)
		}
		PrintSale(result.Sale)

	case "delete-sale":
		if len(args) < 2 {
			log.Fatal("Usage: pos delete-sale <id>")
		}
		id := mustAtoi(args[1])
		if err := svc.DeleteSale(ctx, id); err != nil {
			log.Fatalf("Failed to delete sale: %v", err)
		}
		fmt.Printf("Sale %d deleted, stock restored.\n", id)

	case "analytics", "stats":
		result, err := svc.GetAnalytics(ctx)
		if err != nil {
			log.Fatalf("Failed to compute analytics: %v", err)
		}
		PrintAnalytics(result.Analytics)

	case "chart":
		chart, err := svc.GetMonthlyChart(ctx)
		if err != nil {
			log.Fatalf("Failed to compute chart: %v", err)
		}
		PrintChart(chart)

	default:
		log.Fatalf("Unknown command: %s\nAvailable: products, product, add-product, delete-product, sell, sales, sale, delete-sale, analytics, chart", args[0])
	}
}

func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("Invalid number %q: %v", s, err)
	}
	return n
}

// parseLineSpec parses "<productID>x<quantity>", e.g. "3x2".
func parseLineSpec(spec string) (app.CommitSaleLine, error) {
	parts := strings.SplitN(strings.ToLower(spec), "x", 2)
	if len(parts) != 2 {
		return app.CommitSaleLine{}, fmt.Errorf("expected <id>x<qty>")
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return app.CommitSaleLine{}, fmt.Errorf("bad product id: %w", err)
	}
	qty, err := strconv.Atoi(parts[1])
	if err != nil {
		return app.CommitSaleLine{}, fmt.Errorf("bad quantity: %w", err)
	}
	return app.CommitSaleLine{ProductID: id, Quantity: qty}, nil
}

// Print helpers are exported so the REPL can reuse the same table layouts.

func PrintProducts(products []core.Product) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 66))
	fmt.Printf("  %-62s\n", "PRODUCTS")
	fmt.Println(strings.Repeat("=", 66))
	fmt.Printf("  %-4s %-26s %14s %8s %-8s\n", "ID", "NAME", "PRICE", "STOCK", "COLOR")
	fmt.Println(strings.Repeat("-", 66))
	for _, p := range products {
		fmt.Printf("  %-4d %-26s %14s %8d %-8s\n", p.ID, p.Name, p.UnitPrice.StringFixed(2), p.OnHand, p.Color)
	}
	fmt.Println(strings.Repeat("=", 66))
}

func PrintSale(sale *core.Sale) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 66))
	fmt.Printf("  SALE %s\n", sale.OrderID)
	fmt.Printf("  Customer : %s\n", sale.CustomerName)
	fmt.Printf("  Payment  : %s\n", sale.PaymentMethod)
	fmt.Printf("  Date     : %s\n", sale.SoldAt.Format("2006-01-02 15:04"))
	fmt.Println(strings.Repeat("-", 66))
	fmt.Printf("  %-26s %6s %14s %14s\n", "PRODUCT", "QTY", "PRICE", "TOTAL")
	fmt.Println(strings.Repeat("-", 66))
	for _, l := range sale.Lines {
		fmt.Printf("  %-26s %6d %14s %14s\n", l.ProductName, l.Quantity, l.UnitPriceAtSale.StringFixed(2), l.LineTotal.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 66))
	fmt.Printf("  %-48s %14s\n", "Total", sale.Total.StringFixed(2))
	fmt.Printf("  %-48s %14s\n", "Tendered", sale.AmountTendered.StringFixed(2))
	fmt.Printf("  %-48s %14s\n", "Change", sale.ChangeDue.StringFixed(2))
	fmt.Println(strings.Repeat("=", 66))
}

func PrintSalesList(sales []core.Sale) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 66))
	fmt.Printf("  %-62s\n", "SALES")
	fmt.Println(strings.Repeat("=", 66))
	fmt.Printf("  %-4s %-16s %-18s %-6s %14s\n", "ID", "ORDER", "CUSTOMER", "PAY", "TOTAL")
	fmt.Println(strings.Repeat("-", 66))
	for _, s := range sales {
		fmt.Printf("  %-4d %-16s %-18s %-6s %14s\n", s.ID, s.OrderID, s.CustomerName, s.PaymentMethod, s.Total.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 66))
}

func PrintAnalytics(a *core.Analytics) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("  %-46s\n", "STORE ANALYTICS")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("  Active products    : %d\n", a.TotalProducts)
	fmt.Printf("  Total revenue      : %s\n", a.TotalRevenue.StringFixed(2))
	fmt.Printf("  Units sold         : %d\n", a.TotalQuantitySold)
	if a.MostSoldProduct != nil {
		fmt.Printf("  Most sold product  : %s (%d units)\n",
			a.MostSoldProduct.Name, a.QuantityByProduct[a.MostSoldProduct.ID])
	} else {
		fmt.Println("  Most sold product  : (no sales yet)")
	}
	fmt.Println(strings.Repeat("=", 50))
}

func PrintChart(chart *core.ChartData) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 56))
	fmt.Printf("  %-52s\n", "MONTHLY SALES")
	fmt.Println(strings.Repeat("=", 56))
	fmt.Printf("  %-12s %18s %12s\n", "MONTH", "INCOME", "CUSTOMERS")
	fmt.Println(strings.Repeat("-", 56))
	for i, label := range chart.Labels {
		fmt.Printf("  %-12s %18s %12d\n", label, chart.IncomeByMonth[i].StringFixed(2), chart.UniqueCustomersByMonth[i])
	}
	fmt.Println(strings.Repeat("=", 56))
}
