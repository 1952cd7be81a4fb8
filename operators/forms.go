package operators

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gopdes/geometry"
	"github.com/notargets/gopdes/space"
	"github.com/notargets/gopdes/types"
	"github.com/notargets/gopdes/utils"
)

// OpFV assembles the load vector F(i) = ∫ f . v_i, where f holds the
// source at the quadrature nodes with extents [ncomp, nqn, nel].
func OpFV(sp space.Space, msh geometry.Mesh, f utils.Tensor) (F *mat.VecDense, err error) {
	var (
		nqn, nel, ncomp = msh.Nqn(), msh.Nel(), sp.Ncomp()
		jw              = make([]float64, nqn)
		rhs             = make([]float64, sp.Ndof())
	)
	if err = checkCompatible(msh, nil, sp); err != nil {
		return
	}
	if !utils.MatchExtents(f.Dims(), []int{ncomp, nqn, nel}) {
		err = types.SchemaErrorf("source has extents %v, expected [%d %d %d]", f.Dims(), ncomp, nqn, nel)
		return
	}
	if f, err = f.Reshape(ncomp, nqn, nel); err != nil {
		return
	}
	for iel := 0; iel < nel; iel++ {
		var (
			ev   space.ElementView
			dofs utils.Index
		)
		if ev, err = space.NewElementView(sp, iel); err != nil {
			return
		}
		if dofs, err = ev.Dofs(); err != nil {
			return
		}
		if err = quadWeights(msh, nil, iel, jw); err != nil {
			return
		}
		for ish, i := range dofs {
			var phi, fq float64
			for q := 0; q < nqn; q++ {
				for c := 0; c < ncomp; c++ {
					if phi, err = ev.Value(c, q, ish); err != nil {
						return
					}
					if fq, err = f.At(c, q, iel); err != nil {
						return
					}
					rhs[i] += jw[q] * phi * fq
				}
			}
		}
	}
	if len(rhs) == 0 {
		return
	}
	F = mat.NewVecDense(len(rhs), rhs)
	return
}

// L2Error returns the L2 norm of (sum_i u_i phi_i - uex), where u holds the
// dof values and uex the exact solution at the quadrature nodes with
// extents [ncomp, nqn, nel].
func L2Error(sp space.Space, msh geometry.Mesh, u []float64, uex utils.Tensor) (norm float64, err error) {
	var (
		nqn, nel, ncomp = msh.Nqn(), msh.Nel(), sp.Ncomp()
		jw              = make([]float64, nqn)
		errs            = make([]float64, nel)
		uq              = make([]float64, ncomp*nqn)
	)
	if err = checkCompatible(msh, nil, sp); err != nil {
		return
	}
	if len(u) != sp.Ndof() {
		err = types.SchemaErrorf("have %d dof values, space has %d dofs", len(u), sp.Ndof())
		return
	}
	if !utils.MatchExtents(uex.Dims(), []int{ncomp, nqn, nel}) {
		err = types.SchemaErrorf("exact solution has extents %v, expected [%d %d %d]", uex.Dims(), ncomp, nqn, nel)
		return
	}
	if uex, err = uex.Reshape(ncomp, nqn, nel); err != nil {
		return
	}
	for iel := 0; iel < nel; iel++ {
		var (
			ev   space.ElementView
			dofs utils.Index
			phi  float64
		)
		if ev, err = space.NewElementView(sp, iel); err != nil {
			return
		}
		if dofs, err = ev.Dofs(); err != nil {
			return
		}
		if err = quadWeights(msh, nil, iel, jw); err != nil {
			return
		}
		for i := range uq {
			uq[i] = 0
		}
		for ish, i := range dofs {
			for q := 0; q < nqn; q++ {
				for c := 0; c < ncomp; c++ {
					if phi, err = ev.Value(c, q, ish); err != nil {
						return
					}
					uq[c+ncomp*q] += u[i] * phi
				}
			}
		}
		var ex float64
		for q := 0; q < nqn; q++ {
			for c := 0; c < ncomp; c++ {
				if ex, err = uex.At(c, q, iel); err != nil {
					return
				}
				diff := uq[c+ncomp*q] - ex
				errs[iel] += jw[q] * diff * diff
			}
		}
	}
	norm = math.Sqrt(floats.Sum(errs))
	return
}
