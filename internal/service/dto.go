package service

import (
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/pricing"
)

// CartView is the cart as the cart page renders it
type CartView struct {
	Items  []domain.CartItem  `json:"cartItems"`
	Totals domain.OrderTotals `json:"totals"`
}

// NewCartView prices a cart snapshot
func NewCartView(items []domain.CartItem) CartView {
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartView{
		Items:  items,
		Totals: pricing.Summarize(items).OrderTotals(),
	}
}

// OrderPage is one page of a shopper's order history
type OrderPage struct {
	Orders []*domain.Order `json:"orders"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
