package core_test

import (
	"context"
	"testing"

	"pos-engine/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCatalogService_CreateAndGet(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	catalog := core.NewCatalogService(pool)

	name := "Speaker " + uuid.NewString()
	p, err := catalog.CreateProduct(ctx, name, decimal.NewFromInt(750000), 8, "grey", "speaker.png")
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if !p.IsActive {
		t.Error("New product should be active")
	}

	got, err := catalog.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if got.Name != name || got.OnHand != 8 || got.Color != "grey" {
		t.Errorf("Unexpected product: %+v", got)
	}
	if !got.UnitPrice.Equal(decimal.NewFromInt(750000)) {
		t.Errorf("Expected price 750000, got %s", got.UnitPrice)
	}
}

func TestCatalogService_CreateRejectsBadInput(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	catalog := core.NewCatalogService(pool)

	if _, err := catalog.CreateProduct(ctx, "", decimal.NewFromInt(1000), 1, "", ""); err == nil {
		t.Error("Expected error for empty name")
	}
	if _, err := catalog.CreateProduct(ctx, "X", decimal.NewFromInt(-1), 1, "", ""); err == nil {
		t.Error("Expected error for negative price")
	}
	if _, err := catalog.CreateProduct(ctx, "X", decimal.NewFromInt(1000), -1, "", ""); err == nil {
		t.Error("Expected error for negative stock")
	}
}

func TestCatalogService_Update(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	catalog := core.NewCatalogService(pool)

	p, err := catalog.UpdateProduct(ctx, 3, "Headset Pro", decimal.NewFromInt(250000), 7, "red", "")
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if p.Name != "Headset Pro" || p.OnHand != 7 || p.Color != "red" {
		t.Errorf("Unexpected product after update: %+v", p)
	}
}

func TestCatalogService_SoftDelete(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	catalog := core.NewCatalogService(pool)

	if err := catalog.DeleteProduct(ctx, 2); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}

	active, err := catalog.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	for _, p := range active {
		if p.ID == 2 {
			t.Error("Deactivated product still listed as active")
		}
	}

	// The row survives for historical sale lines.
	all, err := catalog.ListAllProducts(ctx)
	if err != nil {
		t.Fatalf("ListAllProducts failed: %v", err)
	}
	found := false
	for _, p := range all {
		if p.ID == 2 {
			found = true
			if p.IsActive {
				t.Error("Expected is_active=false")
			}
		}
	}
	if !found {
		t.Error("Soft-deleted product missing from ListAllProducts")
	}

	// Inactive products cannot be edited or sold.
	if _, err := catalog.UpdateProduct(ctx, 2, "Zombie", decimal.NewFromInt(1), 1, "", ""); err == nil {
		t.Error("Expected error updating deactivated product")
	}
	if err := catalog.DeleteProduct(ctx, 2); err == nil {
		t.Error("Expected error deleting an already-deactivated product")
	}
}
