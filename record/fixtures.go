package record

import (
	"math"

	"github.com/notargets/gopdes/types"
)

// NewLineRecords returns the mesh and space records of nel uniform elements
// on [0,1], integrated with the two point Gauss rule on the reference
// interval [0,1], carrying P1 Lagrange values and gradients.
func NewLineRecords(nel int) (msh, sp Record) {
	var (
		nqn    = 2
		nshMax = 2
		h      = 1. / float64(nel)
		xi     = []float64{0.5 - 0.5/math.Sqrt(3), 0.5 + 0.5/math.Sqrt(3)}
	)
	nodes := make([]float64, nqn*nel)
	jacdet := make([]float64, nqn*nel)
	weights := make([]float64, nqn*nel)
	for e := 0; e < nel; e++ {
		for q := 0; q < nqn; q++ {
			ind := q + nqn*e
			nodes[ind] = float64(e)*h + h*xi[q]
			jacdet[ind] = h
			weights[ind] = 0.5
		}
	}
	msh = Record{
		types.FieldNqn:         NewScalar(float64(nqn)),
		types.FieldNel:         NewScalar(float64(nel)),
		types.FieldQuadNodes:   NewField([]int{1, nqn, nel}, nodes),
		types.FieldJacDet:      NewField([]int{nqn, nel}, jacdet),
		types.FieldQuadWeights: NewField([]int{nqn, nel}, weights),
	}

	nsh := make([]float64, nel)
	conn := make([]float64, nshMax*nel)
	shp := make([]float64, nqn*nshMax*nel)
	grad := make([]float64, nqn*nshMax*nel)
	for e := 0; e < nel; e++ {
		nsh[e] = float64(nshMax)
		conn[0+nshMax*e] = float64(e)
		conn[1+nshMax*e] = float64(e + 1)
		for q := 0; q < nqn; q++ {
			// [ncomp=1, nqn, nsh_max, nel]
			shp[q+nqn*(0+nshMax*e)] = 1 - xi[q]
			shp[q+nqn*(1+nshMax*e)] = xi[q]
			grad[q+nqn*(0+nshMax*e)] = -1 / h
			grad[q+nqn*(1+nshMax*e)] = 1 / h
		}
	}
	sp = Record{
		types.FieldNdof:         NewScalar(float64(nel + 1)),
		types.FieldNshMax:       NewScalar(float64(nshMax)),
		types.FieldNcomp:        NewScalar(1),
		types.FieldNsh:          NewField([]int{nel}, nsh),
		types.FieldConnectivity: NewField([]int{nshMax, nel}, conn),
		types.FieldShapeFuncs:   NewField([]int{1, nqn, nshMax, nel}, shp),
		types.FieldShapeGrads:   NewField([]int{1, 1, nqn, nshMax, nel}, grad),
	}
	return
}
