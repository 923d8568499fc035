package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	isoTimeLayout   = "2006-01-02T15:04:05.000Z07:00"
	shortDateLayout = "Jan 02, 2006"
)

// CartItem represents one product line in the cart
type CartItem struct {
	ID              string  `json:"id" bson:"id"`
	Title           string  `json:"title" bson:"title"`
	Category        string  `json:"category" bson:"category"`
	Price           float64 `json:"price" bson:"price"`
	Quantity        int     `json:"quantity" bson:"quantity"`
	ProductImageURL string  `json:"productImageUrl" bson:"productImageUrl"`
}

// EffectiveQuantity is the quantity used for computation, never below 1
func (i CartItem) EffectiveQuantity() int {
	if i.Quantity < 1 {
		return 1
	}
	return i.Quantity
}

// EffectivePrice is the price used for computation, never below 0
func (i CartItem) EffectivePrice() float64 {
	if i.Price < 0 {
		return 0
	}
	return i.Price
}

// CartItemInput is a cart line as it arrives from outside, with price and quantity optional
type CartItemInput struct {
	ID              string   `json:"id" binding:"required"`
	Title           string   `json:"title"`
	Category        string   `json:"category"`
	Price           *float64 `json:"price,omitempty"`
	Quantity        *int     `json:"quantity,omitempty"`
	ProductImageURL string   `json:"productImageUrl"`
}

// Normalize fills the defaults for absent price (0) and quantity (1)
func (in CartItemInput) Normalize() CartItem {
	item := CartItem{
		ID:              in.ID,
		Title:           in.Title,
		Category:        in.Category,
		ProductImageURL: in.ProductImageURL,
		Quantity:        1,
	}
	if in.Price != nil && *in.Price > 0 {
		item.Price = *in.Price
	}
	if in.Quantity != nil && *in.Quantity > 1 {
		item.Quantity = *in.Quantity
	}
	return item
}

// CloneItems returns a value copy of a cart line list
func CloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}

// AddressInfo is the draft or submitted shipping address
type AddressInfo struct {
	Name         string `json:"name" bson:"name"`
	Address      string `json:"address" bson:"address"`
	Pincode      string `json:"pincode" bson:"pincode"`
	MobileNumber string `json:"mobileNumber" bson:"mobileNumber"`
	Time         string `json:"time" bson:"time"`
	Date         string `json:"date,omitempty" bson:"date,omitempty"`
}

// NewAddressInfo returns an empty address stamped with the given instant
func NewAddressInfo(now time.Time) AddressInfo {
	return AddressInfo{
		Time: FormatISOTime(now),
		Date: FormatShortDate(now),
	}
}

// OrderTotals is the price summary captured at submission
type OrderTotals struct {
	ItemCount      int    `json:"itemCount" bson:"itemCount"`
	Subtotal       string `json:"subtotal" bson:"subtotal"`
	DeliveryCharge string `json:"deliveryCharge" bson:"deliveryCharge"`
	Total          string `json:"total" bson:"total"`
}

// Order is the persisted record of a checkout
type Order struct {
	ID          string      `json:"id"`
	CartItems   []CartItem  `json:"cartItems"`
	AddressInfo AddressInfo `json:"addressInfo"`
	Email       string      `json:"email"`
	UserID      string      `json:"userid"`
	Status      OrderStatus `json:"status"`
	Totals      OrderTotals `json:"totals"`
	Time        string      `json:"time"`
	Date        string      `json:"date"`
}

// User is an authenticated shopper
type User struct {
	ID                 uuid.UUID
	Email              string
	SessionTokenHash   string
	SessionTokenLookup string
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// FormatISOTime renders t as a UTC ISO-8601 timestamp with milliseconds
func FormatISOTime(t time.Time) string {
	return t.UTC().Format(isoTimeLayout)
}

// FormatShortDate renders t as an en-US short date, e.g. "Oct 16, 2026"
func FormatShortDate(t time.Time) string {
	return t.Format(shortDateLayout)
}
