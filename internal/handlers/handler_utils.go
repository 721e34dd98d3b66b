package handlers

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

var moneyRe = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// parseMoney parses a decimal money string with at most two fraction digits
// ("450", "450.5", "450.00").
func parseMoney(s string) (decimal.Decimal, error) {
	if !moneyRe.MatchString(s) {
		return decimal.Zero, fmt.Errorf("invalid monetary value %q", s)
	}
	return decimal.NewFromString(s)
}
