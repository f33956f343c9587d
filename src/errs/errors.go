// Package errs defines the error kinds raised by the chat core and its adapters.
package errs

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrCategoryFetch       = errors.New("category fetch failed")
	ErrDishFetch           = errors.New("dish fetch failed")
	ErrLLM                 = errors.New("language model failed")
	ErrMemoStore           = errors.New("memo store failed")
	ErrMemoLookup          = errors.New("memo lookup failed")
	ErrInvalidRegistration = errors.New("invalid name registration")
)

// Error carries a kind, the failing operation and the underlying cause.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.Kind }

// Wrap returns nil when err is nil, otherwise an *Error of the given kind.
func Wrap(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// New returns an *Error of the given kind without a cause.
func New(kind error, op string) error {
	return &Error{Kind: kind, Op: op}
}
