package errors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrItemNotFound        = errors.New("catalog item not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrDatabaseError       = errors.New("database error")
	ErrUpstreamUnavailable = errors.New("order service unavailable")
	ErrUnauthenticated     = errors.New("unauthenticated")

	// ErrSeedAttemptsExhausted is returned by the catalog seeder once every
	// attempt has failed.
	ErrSeedAttemptsExhausted = errors.New("catalog seed attempts exhausted")
)

// IsNotFoundError reports whether err is one of the not-found sentinels
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrOrderNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
