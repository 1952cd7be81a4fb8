// Package operators assembles the standard bilinear and linear forms of
// Galerkin methods from the geometry and space views alone.
package operators

import (
	"errors"
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gopdes/geometry"
	"github.com/notargets/gopdes/space"
	"github.com/notargets/gopdes/types"
	"github.com/notargets/gopdes/utils"
)

// ErrMissingData is returned when an operator needs a derivative the space
// was built without.
var ErrMissingData = errors.New("space has no data for this operator")

// kernel evaluates the integrand of a bilinear form at node q for a pair of
// local shape functions, before the quadrature weight is applied.
type kernel func(evu, evv space.ElementView, q, ishu, ishv int) (float64, error)

// OpUV assembles the mass matrix M(i,j) = ∫ coeff v_i . u_j, with rows from
// spv and columns from spu. A nil coeff is the constant 1; otherwise it is
// an nqn x nel matrix of values at the quadrature nodes.
func OpUV(spu, spv space.Space, msh geometry.Mesh, coeff mat.Matrix) (*sparse.CSR, error) {
	if spu.Ncomp() != spv.Ncomp() {
		return nil, types.SchemaErrorf("spaces have %d and %d components", spu.Ncomp(), spv.Ncomp())
	}
	ncomp := spu.Ncomp()
	return assemble(spu, spv, msh, coeff, func(evu, evv space.ElementView, q, ishu, ishv int) (val float64, err error) {
		var u, v float64
		for c := 0; c < ncomp; c++ {
			if u, err = evu.Value(c, q, ishu); err != nil {
				return
			}
			if v, err = evv.Value(c, q, ishv); err != nil {
				return
			}
			val += u * v
		}
		return
	})
}

// OpGradUGradV assembles the stiffness matrix ∫ coeff grad v_i : grad u_j.
func OpGradUGradV(spu, spv space.Space, msh geometry.Mesh, coeff mat.Matrix) (*sparse.CSR, error) {
	if !spu.HasGradients() || !spv.HasGradients() {
		return nil, fmt.Errorf("gradients: %w", ErrMissingData)
	}
	if spu.Ncomp() != spv.Ncomp() {
		return nil, types.SchemaErrorf("spaces have %d and %d components", spu.Ncomp(), spv.Ncomp())
	}
	ncomp, ndir := spu.Ncomp(), msh.Ndir()
	return assemble(spu, spv, msh, coeff, func(evu, evv space.ElementView, q, ishu, ishv int) (val float64, err error) {
		var gu, gv float64
		for c := 0; c < ncomp; c++ {
			for d := 0; d < ndir; d++ {
				if gu, err = evu.Gradient(c, d, q, ishu); err != nil {
					return
				}
				if gv, err = evv.Gradient(c, d, q, ishv); err != nil {
					return
				}
				val += gu * gv
			}
		}
		return
	})
}

// OpDivUDivV assembles ∫ coeff div v_i div u_j.
func OpDivUDivV(spu, spv space.Space, msh geometry.Mesh, coeff mat.Matrix) (*sparse.CSR, error) {
	if !spu.HasDivs() || !spv.HasDivs() {
		return nil, fmt.Errorf("divergences: %w", ErrMissingData)
	}
	return assemble(spu, spv, msh, coeff, func(evu, evv space.ElementView, q, ishu, ishv int) (val float64, err error) {
		var du, dv float64
		if du, err = evu.Div(q, ishu); err != nil {
			return
		}
		if dv, err = evv.Div(q, ishv); err != nil {
			return
		}
		return du * dv, nil
	})
}

// OpCurlUCurlV assembles ∫ coeff curl v_i . curl u_j, for vector (3D) or
// scalar (2D) curls.
func OpCurlUCurlV(spu, spv space.Space, msh geometry.Mesh, coeff mat.Matrix) (*sparse.CSR, error) {
	if !spu.HasCurls() || !spv.HasCurls() {
		return nil, fmt.Errorf("curls: %w", ErrMissingData)
	}
	if spu.CurlComponents() != spv.CurlComponents() {
		return nil, types.SchemaErrorf("spaces have %d and %d curl components",
			spu.CurlComponents(), spv.CurlComponents())
	}
	ncurl := spu.CurlComponents()
	return assemble(spu, spv, msh, coeff, func(evu, evv space.ElementView, q, ishu, ishv int) (val float64, err error) {
		var cu, cv float64
		for c := 0; c < ncurl; c++ {
			if cu, err = evu.CurlComponent(c, q, ishu); err != nil {
				return
			}
			if cv, err = evv.CurlComponent(c, q, ishv); err != nil {
				return
			}
			val += cu * cv
		}
		return
	})
}

func assemble(spu, spv space.Space, msh geometry.Mesh, coeff mat.Matrix, k kernel) (*sparse.CSR, error) {
	var (
		nqn, nel = msh.Nqn(), msh.Nel()
		jw       = make([]float64, nqn)
		A        = sparse.NewDOK(spv.Ndof(), spu.Ndof())
	)
	err := checkCompatible(msh, coeff, spu, spv)
	if err != nil {
		return nil, err
	}
	for iel := 0; iel < nel; iel++ {
		var (
			evu, evv   space.ElementView
			dofu, dofv utils.Index
		)
		if evu, err = space.NewElementView(spu, iel); err != nil {
			return nil, err
		}
		if evv, err = space.NewElementView(spv, iel); err != nil {
			return nil, err
		}
		if dofu, err = evu.Dofs(); err != nil {
			return nil, err
		}
		if dofv, err = evv.Dofs(); err != nil {
			return nil, err
		}
		if err = quadWeights(msh, coeff, iel, jw); err != nil {
			return nil, err
		}
		for ishv, i := range dofv {
			for ishu, j := range dofu {
				var val, kq float64
				for q := 0; q < nqn; q++ {
					if kq, err = k(evu, evv, q, ishu, ishv); err != nil {
						return nil, err
					}
					val += jw[q] * kq
				}
				A.Set(i, j, A.At(i, j)+val)
			}
		}
	}
	return A.ToCSR(), nil
}

// quadWeights fills jw with |jacdet| * weight * coeff at the nodes of iel.
func quadWeights(msh geometry.Mesh, coeff mat.Matrix, iel int, jw []float64) (err error) {
	var jac, w float64
	for q := range jw {
		if jac, err = msh.JacDet(q, iel); err != nil {
			return
		}
		if w, err = msh.Weight(q, iel); err != nil {
			return
		}
		jw[q] = math.Abs(jac) * w
		if coeff != nil {
			jw[q] *= coeff.At(q, iel)
		}
	}
	return
}

func checkCompatible(msh geometry.Mesh, coeff mat.Matrix, sps ...space.Space) (err error) {
	for _, sp := range sps {
		if err = space.Compatible(sp, msh); err != nil {
			return
		}
	}
	if coeff != nil {
		if nr, nc := coeff.Dims(); nr != msh.Nqn() || nc != msh.Nel() {
			return types.SchemaErrorf("coefficient is %d x %d, mesh needs %d x %d",
				nr, nc, msh.Nqn(), msh.Nel())
		}
	}
	return
}
