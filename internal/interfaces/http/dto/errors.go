package dto

import "net/http"

// Generic error codes used by the HTTP layer itself
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeValidation is used when request validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
)

// DomainCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes missing from the map fall back to 500 Internal Server Error so
// that an unmapped new domain error is noticed rather than silently
// served as a client error.
var DomainCodeHTTPStatus = map[string]int{
	// Lookups -> 404 Not Found
	ErrCodeNotFound:         http.StatusNotFound,
	"USER_NOT_FOUND":        http.StatusNotFound,
	"TRANSACTION_NOT_FOUND": http.StatusNotFound,
	"AUTH_KEY_NOT_FOUND":    http.StatusNotFound,
	"SENDER_NOT_FOUND":      http.StatusNotFound,

	// Duplicates -> 409 Conflict
	"USER_ALREADY_EXISTS":         http.StatusConflict,
	"PHONE_NUMBER_IN_USE":         http.StatusConflict,
	"AUTH_KEY_ALREADY_REGISTERED": http.StatusConflict,
	"DUPLICATE_REQUEST":           http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	"AUTO_FRIENDSHIP":        http.StatusUnprocessableEntity,
	"SENDING_TO_NON_FRIENDS": http.StatusUnprocessableEntity,
	"RECIPIENTS_NOT_FOUND":   http.StatusUnprocessableEntity,
	"SIGN_COUNT_VIOLATION":   http.StatusUnprocessableEntity,

	// Invalid input -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	"INVALID_INPUT":          http.StatusBadRequest,
	"INVALID_USER_ID":        http.StatusBadRequest,
	"INVALID_DISPLAY_NAME":   http.StatusBadRequest,
	"INVALID_PHONE_NUMBER":   http.StatusBadRequest,
	"INVALID_TRANSACTION_ID": http.StatusBadRequest,
	"INVALID_AUTH_KEY_ID":    http.StatusBadRequest,
	"INVALID_AMOUNT":         http.StatusBadRequest,
	"INVALID_CURRENCY":       http.StatusBadRequest,
	"INVALID_SENDER":         http.StatusBadRequest,
	"NO_RECIPIENTS":          http.StatusBadRequest,
	"EMPTY_SET":              http.StatusBadRequest,

	ErrCodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := DomainCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
