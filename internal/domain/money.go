package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units (cents).
// All split arithmetic happens on cents so no binary floating point ever touches a total.
type Money int64

// ErrInvalidMoney is returned when a string cannot be parsed as an amount
var ErrInvalidMoney = errors.New("invalid money amount")

var centsPerUnit = decimal.NewFromInt(100)

// Cents returns the amount as a plain integer of minor units
func (m Money) Cents() int64 {
	return int64(m)
}

// Decimal returns the amount in major units with two fractional digits
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String formats the amount with exactly two fractional digits (e.g. "3.34")
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MoneyFromDecimal converts a major-unit decimal to Money.
// Sub-cent digits are rounded half away from zero.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money(d.Mul(centsPerUnit).Round(0).IntPart())
}

var (
	minCents = decimal.NewFromInt(math.MinInt64)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// ParseMoney parses a decimal string such as "12.34" into Money.
// Amounts with non-zero digits below the cent, or outside the int64 range of
// cents, are rejected rather than rounded or wrapped.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidMoney, s, err)
	}

	cents := d.Mul(centsPerUnit)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("%w %q: more than two fractional digits", ErrInvalidMoney, s)
	}
	if cents.LessThan(minCents) || cents.GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w %q: out of range", ErrInvalidMoney, s)
	}
	return Money(cents.IntPart()), nil
}

// SumMoney adds up a list of amounts
func SumMoney(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}
