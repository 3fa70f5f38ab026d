package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrNegativeDecimal = errors.New("must not be negative")

// ParseDecimal parses decimal text such as "10", "150.00" or "0.5".
func ParseDecimal(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a decimal number", raw)
	}
	return d, nil
}

// ParseNonNegativeDecimal parses raw and rejects values below zero.
func ParseNonNegativeDecimal(raw string) (decimal.Decimal, error) {
	d, err := ParseDecimal(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeDecimal
	}
	return d, nil
}

// DecimalText renders d rounded to places, the form stored in numeric columns.
func DecimalText(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}
