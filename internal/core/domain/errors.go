package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors. Adapters map them to transport status codes with errors.Is.
var (
	ErrNotFound        = errors.New("restaurant not found")
	ErrDuplicate       = errors.New("restaurant already exists")
	ErrInvalidLocation = errors.New("invalid location")
	ErrInvalidRating   = errors.New("invalid rating")
	ErrInvalidCategory = errors.New("invalid category")
	ErrValidation      = errors.New("validation failed")
)

var errorCodes = map[error]string{
	ErrNotFound:        "R001",
	ErrDuplicate:       "R002",
	ErrInvalidLocation: "R003",
	ErrInvalidRating:   "R004",
	ErrInvalidCategory: "R005",
	ErrValidation:      "C003",
}

// Errorf wraps sentinel with a formatted detail message.
func Errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// ErrorCode returns the stable code for err, or "" if err wraps no known sentinel.
func ErrorCode(err error) string {
	for sentinel, code := range errorCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}
