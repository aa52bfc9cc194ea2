package domain

import "github.com/shopspring/decimal"

// FormatMinor renders an amount in minor currency units as a decimal string
// with exactly two fractional digits.
func FormatMinor(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
