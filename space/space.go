// Package space exposes the evaluation of a discrete function space on the
// quadrature nodes of a mesh: shape function values and derivatives and the
// local to global degree of freedom map.
//
// Derivative data is optional. When a tensor was not supplied its accessor
// returns NaN for every valid index instead of failing, so assembly code
// written against the full interface runs on any space; HasGradients,
// HasCurls and HasDivs let callers check up front instead.
package space

import (
	"github.com/notargets/gopdes/geometry"
	"github.com/notargets/gopdes/types"
)

type Space interface {
	Ndof() int
	NshMax() int
	Ncomp() int

	// Shape parameters of the mesh the space is evaluated on
	Nqn() int
	Nel() int
	Ndir() int

	// Nsh is the number of active local shape functions of an element
	Nsh(iel int) (int, error)
	// Connectivity maps a local shape function to its global dof. Slots
	// between Nsh(iel) and NshMax() are readable but hold no data.
	Connectivity(ish, iel int) (int, error)

	ShapeFunction(icomp, inode, ish, iel int) (float64, error)
	ShapeFunctionGradient(icomp, idir, inode, ish, iel int) (float64, error)
	ShapeFunctionCurl(icomp, inode, ish, iel int) (float64, error)
	ShapeFunctionDiv(inode, ish, iel int) (float64, error)

	HasGradients() bool
	HasCurls() bool
	HasDivs() bool
	// CurlComponents is Ncomp for vector curls and 1 for scalar (2D) curls
	CurlComponents() int
}

func Shape(sp Space) types.Discretization {
	return types.Discretization{
		Nel: sp.Nel(), Nqn: sp.Nqn(), Ndir: sp.Ndir(),
		Ncomp: sp.Ncomp(), Ndof: sp.Ndof(), NshMax: sp.NshMax(),
	}
}

// Compatible returns a wrapped ErrSchema when sp was not built for msh.
func Compatible(sp Space, msh geometry.Mesh) error {
	switch {
	case sp.Nqn() != msh.Nqn():
		return types.SchemaErrorf("space has nqn = %d, mesh has %d", sp.Nqn(), msh.Nqn())
	case sp.Nel() != msh.Nel():
		return types.SchemaErrorf("space has nel = %d, mesh has %d", sp.Nel(), msh.Nel())
	case sp.Ndir() != msh.Ndir():
		return types.SchemaErrorf("space has ndir = %d, mesh has %d", sp.Ndir(), msh.Ndir())
	}
	return nil
}
