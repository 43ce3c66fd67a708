package mathutil

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// ErrInvalidDecimal is returned when a string is not a non-negative decimal
// with at most Decimals fractional digits.
var ErrInvalidDecimal = errors.New("invalid decimal amount")

// ParseDecimal parses a human readable amount ("1.5") into its fixed-point
// representation (1.5 * 10^18).
func ParseDecimal(s string) (*uint256.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDecimal, err)
	}
	return FromDecimal(d)
}

// FromDecimal converts d into its fixed-point representation.
func FromDecimal(d decimal.Decimal) (*uint256.Int, error) {
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: %s is negative", ErrInvalidDecimal, d)
	}
	scaled := d.Shift(Decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf(
			"%w: %s has more than %d decimals", ErrInvalidDecimal, d, Decimals,
		)
	}
	v, overflow := uint256.FromBig(scaled.BigInt())
	if overflow {
		return nil, fmt.Errorf("%w: %s out of range", ErrInvalidDecimal, d)
	}
	return v, nil
}

// ToDecimal converts a fixed-point value into a decimal.Decimal.
func ToDecimal(x *uint256.Int) decimal.Decimal {
	return decimal.NewFromBigInt(x.ToBig(), -Decimals)
}

// FormatDecimal renders a fixed-point value as a human readable amount.
func FormatDecimal(x *uint256.Int) string {
	if x == nil {
		return "0"
	}
	return ToDecimal(x).String()
}

// ParseUnits parses a raw base-10 integer, ie. an amount already scaled.
func ParseUnits(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDecimal, err)
	}
	return v, nil
}

// FormatUnits renders the raw integer value of x.
func FormatUnits(x *uint256.Int) string {
	if x == nil {
		return "0"
	}
	return x.ToBig().String()
}
