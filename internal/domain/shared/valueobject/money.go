package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a non-negative amount in a single currency. Amounts are decimal
// to keep cent arithmetic exact; negative balances are expressed by flipping
// direction, never by a negative Money.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a money value, rejecting negative amounts, sub-cent
// precision and zero-value currencies. Whole cents keep Split exact: a
// sub-cent amount could not be divided into shares that sum back to it.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency.IsZero() {
		return Money{}, fmt.Errorf("money requires a currency")
	}
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("money amount cannot be negative: %s", amount)
	}
	if !amount.Equal(amount.Truncate(2)) {
		return Money{}, fmt.Errorf("money amount cannot have sub-cent precision: %s", amount)
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromString parses a decimal string into a money value
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return NewMoney(d, currency)
}

// MustMoney builds a money value from a string amount and panics on error.
// Intended for tests.
func MustMoney(amount string, currency Currency) Money {
	m, err := NewMoneyFromString(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns a zero amount in the given currency
func ZeroMoney(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency of the amount
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Add returns the sum of two amounts in the same currency
func (m Money) Add(other Money) (Money, error) {
	if !m.currency.Equals(other.currency) {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Split divides the amount into n shares that sum exactly to the original.
// Each share is the amount divided by n truncated to two decimal places;
// the remaining cents are distributed one at a time to the earliest shares.
func (m Money) Split(n int) ([]Money, error) {
	if n <= 0 {
		return nil, fmt.Errorf("cannot split into %d parts", n)
	}
	count := decimal.NewFromInt(int64(n))
	base := m.amount.Div(count).Truncate(2)
	remainder := m.amount.Sub(base.Mul(count))

	cent := decimal.NewFromFloat(0.01)
	remainderCents := remainder.Div(cent).IntPart()

	shares := make([]Money, n)
	for i := 0; i < n; i++ {
		amt := base
		if int64(i) < remainderCents {
			amt = amt.Add(cent)
		}
		shares[i] = Money{amount: amt, currency: m.currency}
	}
	return shares, nil
}

// Equals compares amount and currency for equality
func (m Money) Equals(other Money) bool {
	return m.currency.Equals(other.currency) && m.amount.Equal(other.amount)
}

// String implements fmt.Stringer
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.String(), m.currency.Code())
}
