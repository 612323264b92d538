package core

import (
	"github.com/shopspring/decimal"
)

// Cart accumulates pending sale lines in memory. It is session-scoped: nothing
// touches the database until the cart is validated and committed, so an
// abandoned cart has zero backend effect.
//
// Stock checks here run against the OnHand snapshot taken when each product
// was added. They keep the cart honest for a single terminal; the validator
// and committer re-check against live catalog state.
type Cart struct {
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// AddLine adds qty units of p to the cart, merging with an existing line for
// the same product. The cart is left unchanged when the resulting quantity
// would exceed the on-hand snapshot.
func (c *Cart) AddLine(p Product, qty int) error {
	if qty <= 0 {
		return &InvalidQuantityError{ProductID: p.ID, Quantity: qty}
	}

	for i := range c.lines {
		if c.lines[i].ProductID != p.ID {
			continue
		}
		newQty := c.lines[i].Quantity + qty
		if newQty > c.lines[i].OnHand {
			return &InsufficientStockError{ProductID: p.ID, Available: c.lines[i].OnHand, Requested: newQty}
		}
		c.lines[i].Quantity = newQty
		c.lines[i].Subtotal = lineSubtotal(c.lines[i].UnitPrice, newQty)
		return nil
	}

	if qty > p.OnHand {
		return &InsufficientStockError{ProductID: p.ID, Available: p.OnHand, Requested: qty}
	}
	c.lines = append(c.lines, CartLine{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    qty,
		UnitPrice:   p.UnitPrice,
		Subtotal:    lineSubtotal(p.UnitPrice, qty),
		OnHand:      p.OnHand,
	})
	return nil
}

// SetQuantity sets the line quantity for productID, clamped to the on-hand
// snapshot. A quantity below 1 removes the line entirely.
func (c *Cart) SetQuantity(productID, qty int) {
	if qty < 1 {
		c.RemoveLine(productID)
		return
	}
	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		if qty > c.lines[i].OnHand {
			qty = c.lines[i].OnHand
		}
		c.lines[i].Quantity = qty
		c.lines[i].Subtotal = lineSubtotal(c.lines[i].UnitPrice, qty)
		return
	}
}

// RemoveLine deletes the line for productID. Removing an absent product is a
// no-op.
func (c *Cart) RemoveLine(productID int) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Total is the sum of all line subtotals, recomputed on every read. Carts are
// small enough that caching would buy nothing.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal)
	}
	return total
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Reset empties the cart.
func (c *Cart) Reset() {
	c.lines = nil
}

func lineSubtotal(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty)))
}
