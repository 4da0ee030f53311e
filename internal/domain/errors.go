package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks a business-rule validation failure.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound marks a reference to a transaction that does not exist.
	ErrNotFound = errors.New("not found")
)

// Error is a classified domain failure. Error() is the human readable
// message only; the kind is reachable through errors.Is.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// InvalidArgument builds an ErrInvalidArgument failure.
func InvalidArgument(message string) error {
	return &Error{Kind: ErrInvalidArgument, Message: message}
}

// NotFound builds an ErrNotFound failure naming the missing id.
func NotFound(id string) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("Transaction not found with id: %s", id)}
}
