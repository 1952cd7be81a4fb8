package utils

import (
	"fmt"

	"github.com/notargets/gopdes/types"
)

// Index is a list of integer positions, e.g. the global dofs of an element.
type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

// InRange returns an error naming the first value outside [0, N).
func (I Index) InRange(N int) error {
	for i, val := range I {
		if val < 0 || val >= N {
			return fmt.Errorf("value %d at position %d is outside [0, %d)", val, i, N)
		}
	}
	return nil
}

// CheckIndex2 bounds checks a (row, col) pair of the named matrix.
func CheckIndex2(name string, i, j, nr, nc int) (err error) {
	switch {
	case i < 0 || i >= nr:
		err = fmt.Errorf("%w: %s row %d, valid range is [0, %d)", types.ErrOutOfRange, name, i, nr)
	case j < 0 || j >= nc:
		err = fmt.Errorf("%w: %s column %d, valid range is [0, %d)", types.ErrOutOfRange, name, j, nc)
	}
	return
}
