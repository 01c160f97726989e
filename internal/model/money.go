package model

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/jwalitptl/practice-api/pkg/errors"
)

// Money columns are NUMERIC(10,2).
const moneyScale = 2

// Rounding or comparing a decimal expands its exponent into a big.Int, so
// representations outside these bounds are rejected before any arithmetic.
const (
	maxMoneyExponent = 10
	minMoneyExponent = -20
	maxMoneyDigits   = 30
)

var maxMoney = decimal.New(1, 8)

// ParseAmount parses a decimal string such as "150.00". Malformed input is a validation error.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Validation(fmt.Sprintf("invalid amount %q", s), err)
	}
	if !boundedMoney(d) {
		return decimal.Zero, errors.Validation(fmt.Sprintf("amount %q out of range", s), nil)
	}
	return NormalizeAmount(d), nil
}

// NormalizeAmount rounds to the stored scale. Unbounded values are returned as is
// and left for FitsMoney or validation to reject.
func NormalizeAmount(d decimal.Decimal) decimal.Decimal {
	if !boundedMoney(d) {
		return d
	}
	return d.Round(moneyScale)
}

// FitsMoney reports whether d can be stored without overflowing NUMERIC(10,2).
func FitsMoney(d decimal.Decimal) bool {
	return boundedMoney(d) && d.Abs().LessThan(maxMoney)
}

func boundedMoney(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp <= maxMoneyExponent && exp >= minMoneyExponent && d.NumDigits() <= maxMoneyDigits
}

// moneyFloat is the value validator tags see for a decimal field. Unbounded values
// map to +Inf so any upper bound tag fails.
func moneyFloat(d decimal.Decimal) float64 {
	if !boundedMoney(d) {
		return math.Inf(1)
	}
	f, _ := d.Float64()
	return f
}
