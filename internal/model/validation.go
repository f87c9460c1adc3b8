package model

import (
	"fmt"
	"strings"
	"time"
)

// Validation is a validated historical transaction. Recent validations are
// summarized into a context digest that the backend uses to personalize
// recommendation ranking.
type Validation struct {
	Date     time.Time `json:"transactionDate"`
	Merchant string    `json:"merchant"`
	Category string    `json:"category"`
	Currency string    `json:"currency"`
	Amount   float64   `json:"amount"`
	ID       int64     `json:"id"`
}

// digestLimit caps how many recent validations enter the context digest.
const digestLimit = 5

// ContextDigest serializes the most recent validations (assumed already in
// recency order) as "merchant:category:currency:amount" entries joined by
// " ; ". Returns the empty string when there are none.
func ContextDigest(validations []Validation) string {
	if len(validations) > digestLimit {
		validations = validations[:digestLimit]
	}
	parts := make([]string, 0, len(validations))
	for _, v := range validations {
		merchant := v.Merchant
		if merchant == "" {
			merchant = "unknown-merchant"
		}
		category := v.Category
		if category == "" {
			category = "general"
		}
		currency := v.Currency
		if currency == "" {
			currency = DefaultCurrency
		}
		parts = append(parts, fmt.Sprintf("%s:%s:%s:%s", merchant, category, currency, formatAmount(v.Amount)))
	}
	return strings.Join(parts, " ; ")
}

// formatAmount renders an amount without a trailing ".00" for whole values,
// matching how validations are recorded upstream.
func formatAmount(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
