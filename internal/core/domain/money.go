package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ErrAmountOutOfRange is returned when an amount does not fit the gateway's
// int64 minor units.
var ErrAmountOutOfRange = errors.New("amount out of range for minor units")

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// ToMinorUnits converts a major-unit amount (naira) to the gateway's minor unit (kobo).
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	minor := amount.Shift(2).Round(0)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return 0, fmt.Errorf("%w: %s", ErrAmountOutOfRange, amount)
	}
	return minor.IntPart(), nil
}

// FromMinorUnits converts kobo back to naira.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
