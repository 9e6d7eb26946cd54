package canopy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEnum is wrapped by every EnumError.
var ErrInvalidEnum = errors.New("canopy: invalid enum value")

// EnumError reports a value outside a closed vocabulary, such as an unknown
// justify-content mode or flex direction.
type EnumError struct {
	Kind  string   // setting name, e.g. "justify-content"
	Value string   // offending value
	Valid []string // accepted values
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("canopy: invalid %s %q (valid: %s)", e.Kind, e.Value, strings.Join(e.Valid, ", "))
}

// Unwrap returns ErrInvalidEnum so callers can use errors.Is.
func (e *EnumError) Unwrap() error {
	return ErrInvalidEnum
}
