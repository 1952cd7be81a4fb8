package types

import "fmt"

// Field names of the geometry and space records
const (
	FieldNqn         = "nqn"
	FieldNel         = "nel"
	FieldNdir        = "ndir"
	FieldQuadNodes   = "quad_nodes"
	FieldJacDet      = "jacdet"
	FieldQuadWeights = "quad_weights"
	FieldWeights     = "weights"
	FieldNormal      = "normal"

	FieldNdof         = "ndof"
	FieldNshMax       = "nsh_max"
	FieldNcomp        = "ncomp"
	FieldNsh          = "nsh"
	FieldConnectivity = "connectivity"
	FieldShapeFuncs   = "shape_functions"
	FieldShapeGrads   = "shape_function_gradients"
	FieldShapeCurls   = "shape_function_curls"
	FieldShapeDivs    = "shape_function_divs"
	FieldIndexBase    = "index_base"
)

// Discretization holds the fixed shape parameters shared by a mesh and the
// spaces evaluated on it.
type Discretization struct {
	Nel, Nqn, Ndir      int
	Ncomp, Ndof, NshMax int
}

func (d Discretization) String() string {
	return fmt.Sprintf("nel = %d, nqn = %d, ndir = %d, ncomp = %d, ndof = %d, nsh_max = %d",
		d.Nel, d.Nqn, d.Ndir, d.Ncomp, d.Ndof, d.NshMax)
}
