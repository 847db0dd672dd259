// Package money keeps price arithmetic exact and pushes rounding to
// the display boundary only.
package money

import "github.com/shopspring/decimal"

// MustParse converts a literal price string into a decimal. It panics
// on malformed input and is intended for static data and tests.
func MustParse(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// Line returns price multiplied by quantity without rounding.
func Line(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// Display renders an amount as a dollar string rounded to two decimal
// places, e.g. 32.0484 -> "$32.05". Intermediate computations must not
// go through this.
func Display(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
