// Package geometry exposes per element quadrature data: Jacobian
// determinants, quadrature weights and, for boundary meshes, normals.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gopdes/types"
)

// Mesh is the quadrature geometry of a mesh of Nel elements with Nqn
// quadrature nodes each, in Ndir parametric directions.
type Mesh interface {
	Nqn() int
	Nel() int
	Ndir() int
	// JacDet is the Jacobian determinant of the parametrization at a node
	JacDet(inode, iel int) (float64, error)
	// Weight is the quadrature weight of a node in the reference domain
	Weight(inode, iel int) (float64, error)
}

// SurfaceMesh adds outward normals, stored per direction.
type SurfaceMesh interface {
	Mesh
	Normal(idir, inode, iel int) (float64, error)
}

/*
Measure computes the length, area or volume of an element by quadrature:

	sum over nodes of |jacdet(q, iel)| * weight(q, iel)

It is exact only when the underlying rule integrates the Jacobian exactly,
and it is recomputed on every call.
*/
func Measure(msh Mesh, iel int) (m float64, err error) {
	if mm, ok := msh.(interface{ Measure(int) (float64, error) }); ok {
		return mm.Measure(iel)
	}
	if err = types.CheckIndex("element", iel, msh.Nel()); err != nil {
		return
	}
	var jac, w float64
	for q := 0; q < msh.Nqn(); q++ {
		if jac, err = msh.JacDet(q, iel); err != nil {
			return
		}
		if w, err = msh.Weight(q, iel); err != nil {
			return
		}
		m += math.Abs(jac) * w
	}
	return
}

func TotalMeasure(msh Mesh) (total float64, err error) {
	measures := make([]float64, msh.Nel())
	for iel := range measures {
		if measures[iel], err = Measure(msh, iel); err != nil {
			return
		}
	}
	total = floats.Sum(measures)
	return
}

func Shape(msh Mesh) types.Discretization {
	return types.Discretization{Nel: msh.Nel(), Nqn: msh.Nqn(), Ndir: msh.Ndir()}
}
