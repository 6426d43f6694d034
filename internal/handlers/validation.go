package handlers

import (
	"errors"

	"datawallet/internal/money"
)

var errInvalidAmount = errors.New("invalid amount")

// parseAmountKobo parses a positive naira amount from a request body.
func parseAmountKobo(raw string) (int64, error) {
	amount, err := money.ParseKobo(raw)
	if err != nil || amount <= 0 {
		return 0, errInvalidAmount
	}
	return amount, nil
}
