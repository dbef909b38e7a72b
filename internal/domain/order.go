package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// FavoriteItem is a saved date experience. The price is kept as the
// display string shown on the listing ("$120 per couple").
type FavoriteItem struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Image    string  `json:"image"`
	Price    string  `json:"price"`
	Duration string  `json:"duration"`
	Rating   float64 `json:"rating"`
}

// OrderItem is a FavoriteItem snapshot with booking details attached.
type OrderItem struct {
	FavoriteItem
	Quantity        int    `json:"quantity,omitempty"`
	ReservationDate string `json:"reservationDate,omitempty"` // YYYY-MM-DD
}

type PaymentDetails struct {
	CardLastFour string    `json:"cardLastFour"`
	PaymentDate  time.Time `json:"paymentDate"`
}

type BillingInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	City     string `json:"city"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
}

type OrderStatus string

const (
	OrderCompleted OrderStatus = "completed"
	OrderPending   OrderStatus = "pending"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is immutable once created.
type Order struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	Items          []OrderItem    `json:"items"`
	TotalAmount    float64        `json:"totalAmount"`
	PaymentDetails PaymentDetails `json:"paymentDetails"`
	BillingInfo    BillingInfo    `json:"billingInfo"`
	Status         OrderStatus    `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// TaxRate is the rate in force at order creation.
const TaxRate = 0.18

var priceChars = regexp.MustCompile(`[^0-9.]`)

// ParsePrice extracts the numeric amount from a display price string,
// e.g. "$120 per couple" -> 120.
func ParsePrice(display string) (float64, error) {
	cleaned := priceChars.ReplaceAllString(display, "")
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric price in %q", display)
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", display, err)
	}
	return price, nil
}

// Subtotal sums per-item prices times quantity (missing quantity counts
// as one). Items with unparseable prices contribute nothing.
func Subtotal(items []OrderItem) float64 {
	var sum float64
	for _, item := range items {
		price, err := ParsePrice(item.Price)
		if err != nil {
			continue
		}
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		sum += price * float64(qty)
	}
	return sum
}

func Tax(subtotal float64) float64 {
	return subtotal * TaxRate
}

func Total(subtotal float64) float64 {
	return subtotal + Tax(subtotal)
}

// SubtotalFromTotal reconstructs the pre-tax subtotal from a stored
// order total for receipt display.
func SubtotalFromTotal(total float64) float64 {
	return total / (1 + TaxRate)
}

// FormatCurrency renders an amount the way the storefront does.
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
