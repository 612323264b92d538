package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"pos-engine/internal/adapters/cli"
	"pos-engine/internal/app"
	"pos-engine/internal/core"
	"pos-engine/internal/db"
	"pos-engine/internal/metrics"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	prefix := os.Getenv("ORDER_PREFIX")
	if prefix == "" {
		prefix = "OBZ"
	}

	reg := metrics.NewRegistry()
	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", reg.Handler())
		go func() {
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Printf("metrics listener stopped: %v", err)
			}
		}()
	}

	catalog := core.NewCatalogService(pool)
	sequences := core.NewSequenceService(pool)
	sales := core.NewSaleService(pool, catalog, sequences, prefix, reg)
	analytics := core.NewAnalyticsService(pool, catalog, reg)
	svc := app.NewAppService(catalog, sales, analytics)

	if len(os.Args) > 1 {
		cli.Run(ctx, svc, os.Args[1:])
		return
	}

	runREPL(ctx, svc)
}

func runREPL(ctx context.Context, svc app.ApplicationService) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Point-of-Sale REPL")
	fmt.Println("Type 'help' for commands.")
	fmt.Println("-----------------------")

	for {
		fmt.Print("\n> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		switch strings.ToLower(strings.Fields(input)[0]) {
		case "exit", "quit":
			return

		case "help":
			fmt.Println("Available commands: products, sales, analytics, chart, help, exit")
			fmt.Println("Writes (sell, add-product, delete-sale, ...) run as one-shot commands:")
			fmt.Println("  pos sell Budi Cash 1000000 1x2 3x1")

		case "products":
			result, err := svc.ListProducts(ctx)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			cli.PrintProducts(result.Products)

		case "sales":
			result, err := svc.ListSales(ctx)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			cli.PrintSalesList(result.Sales)

		case "analytics":
			result, err := svc.GetAnalytics(ctx)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			cli.PrintAnalytics(result.Analytics)

		case "chart":
			chart, err := svc.GetMonthlyChart(ctx)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			cli.PrintChart(chart)

		default:
			fmt.Printf("Unknown command: %s\n", strings.Fields(input)[0])
		}
	}
}
