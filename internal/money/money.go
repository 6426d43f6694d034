// Package money converts between naira decimal strings and kobo minor units.
// Balances and amounts are stored as int64 kobo so repeated additions never
// drift.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has more than two decimal places")
)

var oneHundred = decimal.NewFromInt(100)

// ParseKobo parses a decimal naira string ("250", "250.5", "-250.00") into
// signed kobo. More than two decimal places is rejected rather than rounded
// so a caller can never silently lose sub-kobo fractions.
func ParseKobo(input string) (int64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, ErrInvalidAmount
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	kobo := value.Mul(oneHundred)
	if !kobo.IsInteger() {
		return 0, ErrTooManyDecimals
	}
	if !kobo.BigInt().IsInt64() {
		return 0, ErrInvalidAmount
	}
	return kobo.IntPart(), nil
}

// FormatKobo renders kobo as a naira string with exactly two decimal places.
func FormatKobo(value int64) string {
	negative := value < 0
	if negative {
		value = -value
	}
	formatted := fmt.Sprintf("%d.%02d", value/100, value%100)
	if negative {
		return "-" + formatted
	}
	return formatted
}
