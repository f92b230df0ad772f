package domain

import "github.com/shopspring/decimal"

// FormatCents renders an amount of cents with exactly two decimals.
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
