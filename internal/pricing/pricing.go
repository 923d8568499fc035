// Package pricing derives the price summary of a cart snapshot.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jafarshop/storefront/internal/domain"
)

// DeliveryCharge is the flat delivery fee added to every order
var DeliveryCharge = decimal.NewFromInt(50)

// Totals is the price summary of a cart
type Totals struct {
	ItemCount      int
	Subtotal       decimal.Decimal
	DeliveryCharge decimal.Decimal
	Total          decimal.Decimal
}

// ItemCount is the sum of each line's quantity, 1 when absent
func ItemCount(items []domain.CartItem) int {
	count := 0
	for _, item := range items {
		count += item.EffectiveQuantity()
	}
	return count
}

// Subtotal is the sum of price × quantity over all lines
func Subtotal(items []domain.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.EffectivePrice()).
			Mul(decimal.NewFromInt(int64(item.EffectiveQuantity())))
		sum = sum.Add(line)
	}
	return sum
}

// Total is the subtotal plus the delivery charge
func Total(items []domain.CartItem) decimal.Decimal {
	return Subtotal(items).Add(DeliveryCharge)
}

// Summarize computes all totals for a cart snapshot
func Summarize(items []domain.CartItem) Totals {
	subtotal := Subtotal(items)
	return Totals{
		ItemCount:      ItemCount(items),
		Subtotal:       subtotal,
		DeliveryCharge: DeliveryCharge,
		Total:          subtotal.Add(DeliveryCharge),
	}
}

// FormatAmount renders a monetary amount with two decimal places
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// OrderTotals converts the summary to its persisted form
func (t Totals) OrderTotals() domain.OrderTotals {
	return domain.OrderTotals{
		ItemCount:      t.ItemCount,
		Subtotal:       FormatAmount(t.Subtotal),
		DeliveryCharge: FormatAmount(t.DeliveryCharge),
		Total:          FormatAmount(t.Total),
	}
}
