package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrDatabase           = errors.New("database error")
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidInput       = errors.New("invalid input data")
	ErrInternal           = errors.New("internal server error")
	ErrAvatarsUnavailable = errors.New("avatar storage is not configured")
)

func NotFoundError(id uint64) error {
	return fmt.Errorf("%w: %d", ErrUserNotFound, id)
}

// InvalidEmailError is kept for callers that validate addresses themselves;
// nothing in this module does.
func InvalidEmailError(email string) error {
	return fmt.Errorf("%w: %s", ErrInvalidEmail, email)
}

func DatabaseError(err error) error {
	return fmt.Errorf("%w: %v", ErrDatabase, err)
}
