package valueobject

import (
	"fmt"
	"regexp"
)

var phonePattern = regexp.MustCompile(`^\+?\d+$`)

// PhoneNumber is a phone number in digits-only form with an optional
// leading plus. No regional normalization is applied; two users with the
// same digits in different formats are treated as different numbers.
type PhoneNumber struct {
	value string
}

// NewPhoneNumber creates a phone number, rejecting anything that is not
// digits with an optional leading plus.
func NewPhoneNumber(value string) (PhoneNumber, error) {
	if !phonePattern.MatchString(value) {
		return PhoneNumber{}, fmt.Errorf("invalid phone number: %q", value)
	}
	return PhoneNumber{value: value}, nil
}

// MustPhoneNumber creates a phone number and panics on invalid input.
// Intended for tests.
func MustPhoneNumber(value string) PhoneNumber {
	p, err := NewPhoneNumber(value)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the phone number as entered
func (p PhoneNumber) String() string {
	return p.value
}

// IsZero reports whether the phone number is the zero value
func (p PhoneNumber) IsZero() bool {
	return p.value == ""
}

// Equals compares two phone numbers for exact equality
func (p PhoneNumber) Equals(other PhoneNumber) bool {
	return p.value == other.value
}
