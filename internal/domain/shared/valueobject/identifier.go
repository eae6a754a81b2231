package valueobject

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UserID identifies a user. Any non-blank string is valid; the scheme is
// owned by the identity provider, not by this service.
type UserID struct {
	value string
}

// NewUserID creates a user identifier from a non-blank string
func NewUserID(value string) (UserID, error) {
	if strings.TrimSpace(value) == "" {
		return UserID{}, fmt.Errorf("user id cannot be blank")
	}
	return UserID{value: value}, nil
}

// MustUserID creates a user identifier and panics on invalid input.
// Intended for tests.
func MustUserID(value string) UserID {
	id, err := NewUserID(value)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the raw identifier value
func (id UserID) String() string {
	return id.value
}

// IsZero reports whether the identifier is the zero value
func (id UserID) IsZero() bool {
	return id.value == ""
}

// TransactionID identifies a transaction. New identifiers are UUIDv7 so
// that lexical order roughly follows creation time.
type TransactionID struct {
	value uuid.UUID
}

// NewTransactionID generates a fresh time-ordered transaction identifier
func NewTransactionID() (TransactionID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return TransactionID{}, fmt.Errorf("generate transaction id: %w", err)
	}
	return TransactionID{value: id}, nil
}

// ParseTransactionID parses a transaction identifier from its string form
func ParseTransactionID(value string) (TransactionID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return TransactionID{}, fmt.Errorf("invalid transaction id %q: %w", value, err)
	}
	return TransactionID{value: id}, nil
}

// String returns the canonical UUID string form
func (id TransactionID) String() string {
	return id.value.String()
}

// IsZero reports whether the identifier is the zero value
func (id TransactionID) IsZero() bool {
	return id.value == uuid.Nil
}

// AuthKeyID identifies a registered authentication key (WebAuthn credential)
type AuthKeyID struct {
	value string
}

// NewAuthKeyID creates an auth key identifier from a non-blank string
func NewAuthKeyID(value string) (AuthKeyID, error) {
	if strings.TrimSpace(value) == "" {
		return AuthKeyID{}, fmt.Errorf("auth key id cannot be blank")
	}
	return AuthKeyID{value: value}, nil
}

// String returns the raw identifier value
func (id AuthKeyID) String() string {
	return id.value
}

// IsZero reports whether the identifier is the zero value
func (id AuthKeyID) IsZero() bool {
	return id.value == ""
}
