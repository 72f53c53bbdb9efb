package toast

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by Enqueue after the store has been closed.
var ErrClosed = errors.New("toast store closed")

// InvalidInputError reports a malformed Input. It is a caller bug and is
// never shown to end users as a notification.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid toast input: %s %s", e.Field, e.Reason)
}

// IsInvalidInput reports whether err is or wraps an InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}
