package user

import (
	"fmt"

	"github.com/split/backend/internal/domain/shared"
	"github.com/split/backend/internal/domain/shared/valueobject"
)

// NewUserAlreadyExistsError indicates a create collided with an existing
// user of the same id but different attributes.
func NewUserAlreadyExistsError(id valueobject.UserID) *shared.DomainError {
	return shared.NewDomainError("USER_ALREADY_EXISTS",
		fmt.Sprintf("user %s already exists with different attributes", id))
}

// NewUserNotFoundError indicates the referenced user does not exist
func NewUserNotFoundError(id valueobject.UserID) *shared.DomainError {
	return shared.NewDomainError("USER_NOT_FOUND",
		fmt.Sprintf("user %s not found", id))
}

// NewPhoneNumberInUseError indicates another user already registered the
// phone number.
func NewPhoneNumberInUseError(phone valueobject.PhoneNumber) *shared.DomainError {
	return shared.NewDomainError("PHONE_NUMBER_IN_USE",
		fmt.Sprintf("phone number %s is already in use", phone))
}

// NewAuthKeyAlreadyRegisteredError indicates the credential id is already
// attached to the user.
func NewAuthKeyAlreadyRegisteredError(keyID valueobject.AuthKeyID) *shared.DomainError {
	return shared.NewDomainError("AUTH_KEY_ALREADY_REGISTERED",
		fmt.Sprintf("auth key %s is already registered", keyID))
}

// NewAuthKeyNotFoundError indicates the credential id is not attached to
// the user.
func NewAuthKeyNotFoundError(keyID valueobject.AuthKeyID) *shared.DomainError {
	return shared.NewDomainError("AUTH_KEY_NOT_FOUND",
		fmt.Sprintf("auth key %s not found", keyID))
}

// NewSignCountError indicates a sign counter update that does not advance
// the counter by exactly one. A stale or replayed counter is a signal of a
// cloned credential.
func NewSignCountError(keyID valueobject.AuthKeyID, current, proposed uint32) *shared.DomainError {
	return shared.NewDomainError("SIGN_COUNT_VIOLATION",
		fmt.Sprintf("auth key %s sign count must advance from %d to %d, got %d",
			keyID, current, current+1, proposed))
}

