package core_test

import (
	"testing"

	"pos-engine/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int, name string, price int64, onHand int) core.Product {
	return core.Product{
		ID:        id,
		Name:      name,
		UnitPrice: decimal.NewFromInt(price),
		OnHand:    onHand,
		IsActive:  true,
	}
}

func TestCart_AddLine(t *testing.T) {
	cart := core.NewCart()

	require.NoError(t, cart.AddLine(product(1, "Airpod", 500000, 10), 2))
	require.Equal(t, 1, cart.Len())
	assert.True(t, cart.Total().Equal(decimal.NewFromInt(1000000)), "total = %s", cart.Total())
}

func TestCart_AddLine_MergesSameProduct(t *testing.T) {
	cart := core.NewCart()
	p := product(1, "Airpod", 500000, 10)

	require.NoError(t, cart.AddLine(p, 2))
	require.NoError(t, cart.AddLine(p, 3))

	require.Equal(t, 1, cart.Len())
	lines := cart.Lines()
	assert.Equal(t, 5, lines[0].Quantity)
	assert.True(t, lines[0].Subtotal.Equal(decimal.NewFromInt(2500000)))
}

func TestCart_AddLine_RejectsInvalidQuantity(t *testing.T) {
	cart := core.NewCart()
	p := product(1, "Airpod", 500000, 10)

	var qtyErr *core.InvalidQuantityError
	assert.ErrorAs(t, cart.AddLine(p, 0), &qtyErr)
	assert.ErrorAs(t, cart.AddLine(p, -1), &qtyErr)
	assert.Equal(t, 0, cart.Len())
}

func TestCart_AddLine_RejectsExceedingStock(t *testing.T) {
	cart := core.NewCart()
	p := product(3, "Headset", 200000, 5)

	require.NoError(t, cart.AddLine(p, 4))

	// 4 + 2 would exceed the snapshot of 5; the cart must be left unchanged.
	err := cart.AddLine(p, 2)
	var stockErr *core.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.ProductID)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Requested)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity)
}

func TestCart_SetQuantity(t *testing.T) {
	cart := core.NewCart()
	require.NoError(t, cart.AddLine(product(1, "Airpod", 500000, 10), 2))

	cart.SetQuantity(1, 7)
	assert.Equal(t, 7, cart.Lines()[0].Quantity)
	assert.True(t, cart.Total().Equal(decimal.NewFromInt(3500000)))
}

func TestCart_SetQuantity_ClampsToStock(t *testing.T) {
	cart := core.NewCart()
	require.NoError(t, cart.AddLine(product(3, "Headset", 200000, 5), 1))

	cart.SetQuantity(3, 99)
	assert.Equal(t, 5, cart.Lines()[0].Quantity)
}

func TestCart_SetQuantity_ZeroRemovesLine(t *testing.T) {
	cart := core.NewCart()
	require.NoError(t, cart.AddLine(product(1, "Airpod", 500000, 10), 2))

	cart.SetQuantity(1, 0)
	assert.Equal(t, 0, cart.Len())
}

func TestCart_RemoveLine(t *testing.T) {
	cart := core.NewCart()
	require.NoError(t, cart.AddLine(product(1, "Airpod", 500000, 10), 1))
	require.NoError(t, cart.AddLine(product(2, "Headphone", 500000, 10), 1))

	cart.RemoveLine(1)
	require.Equal(t, 1, cart.Len())
	assert.Equal(t, 2, cart.Lines()[0].ProductID)

	// Removing an absent product is a no-op.
	cart.RemoveLine(42)
	assert.Equal(t, 1, cart.Len())
}

func TestCart_TotalAcrossLines(t *testing.T) {
	cart := core.NewCart()
	require.NoError(t, cart.AddLine(product(1, "Airpod", 500000, 10), 2))      // 1000000
	require.NoError(t, cart.AddLine(product(3, "Headset", 200000, 5), 3))      // 600000
	require.NoError(t, cart.AddLine(product(4, "Accessories", 50000, 15), 3))  // 150000

	assert.True(t, cart.Total().Equal(decimal.NewFromInt(1750000)), "total = %s", cart.Total())
}

func TestCart_Reset(t *testing.T) {
	cart := core.NewCart()
	require.NoError(t, cart.AddLine(product(1, "Airpod", 500000, 10), 2))

	cart.Reset()
	assert.Equal(t, 0, cart.Len())
	assert.True(t, cart.Total().IsZero())
}

func TestCart_LinesReturnsCopy(t *testing.T) {
	cart := core.NewCart()
	require.NoError(t, cart.AddLine(product(1, "Airpod", 500000, 10), 2))

	lines := cart.Lines()
	lines[0].Quantity = 999

	assert.Equal(t, 2, cart.Lines()[0].Quantity)
}
