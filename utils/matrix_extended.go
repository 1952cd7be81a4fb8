package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a read only dense matrix with a name used in error messages.
type Matrix struct {
	M    *mat.Dense
	name string
}

// NewMatrixColMajor builds an nr x nc matrix from column major data, the
// layout of exported array records. The data is copied.
func NewMatrixColMajor(nr, nc int, data []float64, name ...string) (R Matrix, err error) {
	var size int
	if size, err = Size([]int{nr, nc}); err != nil {
		return
	}
	if len(data) != size {
		err = fmt.Errorf("mismatch in allocation: nr,nc = %v,%v, len(data) = %v", nr, nc, len(data))
		return
	}
	R = Matrix{name: "unnamed"}
	if len(name) != 0 {
		R.name = name[0]
	}
	if nr == 0 || nc == 0 {
		// mat.Dense refuses empty shapes
		return
	}
	rowMajor := make([]float64, nr*nc)
	for j := 0; j < nc; j++ {
		for i := 0; i < nr; i++ {
			rowMajor[j+nc*i] = data[i+nr*j]
		}
	}
	R.M = mat.NewDense(nr, nc, rowMajor)
	return
}

// Dims and At satisfy the read part of mat.Matrix.
func (m Matrix) Dims() (r, c int) {
	if m.M == nil {
		return 0, 0
	}
	return m.M.Dims()
}

func (m Matrix) At(i, j int) float64 { return m.M.At(i, j) }

// Get is At with bounds checking.
func (m Matrix) Get(i, j int) (val float64, err error) {
	nr, nc := m.Dims()
	if err = CheckIndex2(m.name, i, j, nr, nc); err != nil {
		return
	}
	val = m.M.At(i, j)
	return
}
