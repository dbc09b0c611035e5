package domain

import (
	"errors"
	"strings"
)

// ErrKeyNotFound is returned by a Cache implementation when a key is absent.
var ErrKeyNotFound = errors.New("cache: key not found")

// ErrScreenNotFound is returned when a redirect targets a name that is not
// registered. Fatal to the current dispatch step.
var ErrScreenNotFound = errors.New("screen not found")

// ErrStateCorrupt indicates the session carried no screen state where one
// was required. It points at a session bookkeeping bug, not user input.
var ErrStateCorrupt = errors.New("screen state missing")

// ErrTooManyRedirects is returned when a dispatch exceeds the redirect hop
// limit, which means a screen is redirecting in a cycle.
var ErrTooManyRedirects = errors.New("too many redirects")

// ValidationError is a user-correctable input failure. The screen runner
// recovers it by prepending the message to the payload and re-rendering;
// the turn still succeeds.
type ValidationError struct {
	Messages []string
	Code     string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "Error! Invalid input"
	}
	return strings.Join(e.Messages, "\n")
}

// Invalid builds a ValidationError with code "invalid".
func Invalid(msgs ...string) *ValidationError {
	if len(msgs) == 0 {
		msgs = []string{"Error! Invalid input"}
	}
	return &ValidationError{Messages: msgs, Code: "invalid"}
}

// InvalidChoice builds a ValidationError with code "invalid_choice".
func InvalidChoice(msgs ...string) *ValidationError {
	if len(msgs) == 0 {
		msgs = []string{"Error! Invalid choice"}
	}
	return &ValidationError{Messages: msgs, Code: "invalid_choice"}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
