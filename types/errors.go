package types

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema is returned by constructors when a mandatory field is absent,
	// has the wrong element type, or its extents disagree with the shape
	// parameters.
	ErrSchema = errors.New("schema error")

	// ErrOutOfRange is returned by accessors when an index is outside [0, extent).
	ErrOutOfRange = errors.New("index out of range")
)

// SchemaErrorf formats a message wrapping ErrSchema.
func SchemaErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrSchema, fmt.Sprintf(format, args...))
}

// CheckIndex returns a wrapped ErrOutOfRange naming the offending index
// when i is not in [0, extent).
func CheckIndex(name string, i, extent int) error {
	if i < 0 || i >= extent {
		return fmt.Errorf("%w: %s = %d, valid range is [0, %d)", ErrOutOfRange, name, i, extent)
	}
	return nil
}
