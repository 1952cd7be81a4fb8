package utils

import (
	"fmt"
	"math"

	"github.com/notargets/gopdes/types"
)

type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

/*
Array is a flat buffer with its extents and strides. Storage is column major:
the first index varies fastest, so for extents (E0, E1, ..., Ek) the element
(i0, i1, ..., ik) lives at

	i0 + E0*(i1 + E1*(i2 + ... + E(k-1)*ik))

Every access is bounds checked against the extents.
*/
type Array[T Number] struct {
	dims    []int
	strides []int
	data    []T
}

type Tensor = Array[float64]
type IntTensor = Array[int]

// NewArray allocates an array with the given extents. If data is supplied it
// is copied, and its length must equal the product of the extents.
func NewArray[T Number](dims []int, dataO ...[]T) (A Array[T], err error) {
	var size int
	if size, err = Size(dims); err != nil {
		return
	}
	A = Array[T]{
		dims:    append([]int(nil), dims...),
		strides: Strides(dims),
		data:    make([]T, size),
	}
	if len(dataO) != 0 {
		if len(dataO[0]) != size {
			err = fmt.Errorf("mismatch in allocation: extents %v need %d values, have %d",
				dims, size, len(dataO[0]))
			return
		}
		copy(A.data, dataO[0])
	}
	return
}

func NewTensor(dims []int, dataO ...[]float64) (Tensor, error) {
	return NewArray[float64](dims, dataO...)
}

func NewIntTensor(dims []int, dataO ...[]int) (IntTensor, error) {
	return NewArray[int](dims, dataO...)
}

// Size is the product of the extents. Negative extents and products that
// overflow int are errors.
func Size(dims []int) (size int, err error) {
	size = 1
	for i, d := range dims {
		switch {
		case d < 0:
			return 0, fmt.Errorf("negative extent %d in dimension %d", d, i)
		case d != 0 && size > math.MaxInt/d:
			return 0, fmt.Errorf("extents %v overflow int", dims)
		}
		size *= d
	}
	return
}

// Strides returns the column major strides for the extents.
func Strides(dims []int) (s []int) {
	s = make([]int, len(dims))
	stride := 1
	for i, d := range dims {
		s[i] = stride
		stride *= d
	}
	return
}

func (A Array[T]) IsNil() bool { return A.data == nil }
func (A Array[T]) Len() int    { return len(A.data) }
func (A Array[T]) Dims() []int { return append([]int(nil), A.dims...) }

// RawData returns the backing buffer, which must be treated as read only.
func (A Array[T]) RawData() []T { return A.data }

// Offset returns the flat position of the multi-index.
func (A Array[T]) Offset(idx ...int) (ind int, err error) {
	if len(idx) != len(A.dims) {
		err = fmt.Errorf("%w: %d indices for an array of %d dimensions",
			types.ErrOutOfRange, len(idx), len(A.dims))
		return
	}
	for i, ii := range idx {
		if ii < 0 || ii >= A.dims[i] {
			err = fmt.Errorf("%w: index %d of dimension %d, valid range is [0, %d)",
				types.ErrOutOfRange, ii, i, A.dims[i])
			return
		}
		ind += ii * A.strides[i]
	}
	return
}

func (A Array[T]) At(idx ...int) (val T, err error) {
	var ind int
	if ind, err = A.Offset(idx...); err != nil {
		return
	}
	val = A.data[ind]
	return
}

// Reshape returns a view sharing the buffer with new extents of the same
// total size.
func (A Array[T]) Reshape(dims ...int) (R Array[T], err error) {
	size, err := Size(dims)
	if err != nil {
		return
	}
	if size != len(A.data) {
		err = fmt.Errorf("cannot reshape %v (%d values) to %v", A.dims, len(A.data), dims)
		return
	}
	R = Array[T]{
		dims:    append([]int(nil), dims...),
		strides: Strides(dims),
		data:    A.data,
	}
	return
}

// MatchExtents reports whether declared extents describe an array with the
// expected extents. Exporters drop trailing unit extents, may drop a leading
// unit extent (a single component), and write vectors as 1 x n rows. No
// other difference is accepted.
func MatchExtents(declared, expected []int) bool {
	d, e := trimUnits(declared), trimUnits(expected)
	switch {
	case equalInts(d, e):
		return true
	case len(expected) > 1 && expected[0] == 1:
		return equalInts(d, trimUnits(expected[1:]))
	case len(expected) == 1 && len(d) == 2 && d[0] == 1:
		return d[1] == expected[0]
	}
	return false
}

// trimUnits drops trailing unit extents.
func trimUnits(dims []int) []int {
	n := len(dims)
	for n > 0 && dims[n-1] == 1 {
		n--
	}
	return dims[:n]
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
