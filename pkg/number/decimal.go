package number

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Precision fractional digits of conversion rates
const Precision = 18

var errZeroDenominator = errors.New("denominator must not be zero")

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// Amount parse an integer amount, fractional or negative values are rejected
func Amount(v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, err
	}

	if !IsAmount(d) {
		return decimal.Zero, errors.New("amount must be a non-negative integer")
	}

	return d, nil
}

// IsAmount non-negative integer
func IsAmount(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Equal(d.Truncate(0))
}

// Rate truncate a decimal to the rate precision
func Rate(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(Precision)
}

// Ratio num / den truncated to the rate precision
func Ratio(num, den decimal.Decimal) (decimal.Decimal, error) {
	if den.IsZero() {
		return decimal.Zero, errZeroDenominator
	}

	q, _ := num.Shift(Precision).QuoRem(den, 0)
	return q.Shift(-Precision), nil
}

// MulFloor amount * rate rounded down to an integer
func MulFloor(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Floor()
}
