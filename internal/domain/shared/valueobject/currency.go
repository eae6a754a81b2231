package valueobject

import (
	"fmt"
	"regexp"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency is a three-letter uppercase currency code, e.g. "SEK" or "EUR".
// The code is validated syntactically only; no ISO 4217 registry lookup.
type Currency struct {
	code string
}

// NewCurrency creates a currency from a code, rejecting anything that is
// not exactly three uppercase letters.
func NewCurrency(code string) (Currency, error) {
	if !currencyPattern.MatchString(code) {
		return Currency{}, fmt.Errorf("invalid currency code: %q", code)
	}
	return Currency{code: code}, nil
}

// MustCurrency creates a currency and panics on invalid input.
// Intended for constants and tests.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the three-letter currency code
func (c Currency) Code() string {
	return c.code
}

// IsZero reports whether the currency is the zero value
func (c Currency) IsZero() bool {
	return c.code == ""
}

// Equals compares two currencies by code
func (c Currency) Equals(other Currency) bool {
	return c.code == other.code
}

// String implements fmt.Stringer
func (c Currency) String() string {
	return c.code
}
