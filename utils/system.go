package utils

import (
	"math"
)

// NaN is the sentinel returned by accessors of optional data that was not
// supplied.
var NaN = math.NaN()

// IsNan reports whether a value, or any element of a slice, is NaN.
func IsNan(A any) bool {
	switch v := A.(type) {
	case float64:
		return math.IsNaN(v)
	case []float64:
		for _, f := range v {
			if math.IsNaN(f) {
				return true
			}
		}
	}
	return false
}
