package space

import (
	"github.com/notargets/gopdes/types"
	"github.com/notargets/gopdes/utils"
)

// ElementView fixes the element index of a Space, for repeated queries on
// the same element.
type ElementView struct {
	sp  Space
	iel int
	nsh int
}

func NewElementView(sp Space, iel int) (ev ElementView, err error) {
	if err = types.CheckIndex("element", iel, sp.Nel()); err != nil {
		return
	}
	ev = ElementView{sp: sp, iel: iel}
	ev.nsh, err = sp.Nsh(iel)
	return
}

func (ev ElementView) Nsh() int { return ev.nsh }

func (ev ElementView) Dof(ish int) (int, error) {
	return ev.sp.Connectivity(ish, ev.iel)
}

// Dofs returns the global dofs of the active shape functions.
func (ev ElementView) Dofs() (dofs utils.Index, err error) {
	dofs = utils.NewIndex(ev.nsh)
	for ish := range dofs {
		if dofs[ish], err = ev.Dof(ish); err != nil {
			return nil, err
		}
	}
	return
}

func (ev ElementView) Value(icomp, inode, ish int) (float64, error) {
	return ev.sp.ShapeFunction(icomp, inode, ish, ev.iel)
}

func (ev ElementView) Gradient(icomp, idir, inode, ish int) (float64, error) {
	return ev.sp.ShapeFunctionGradient(icomp, idir, inode, ish, ev.iel)
}

func (ev ElementView) CurlComponent(icomp, inode, ish int) (float64, error) {
	return ev.sp.ShapeFunctionCurl(icomp, inode, ish, ev.iel)
}

// Curl is the scalar curl of a 2D vector space.
func (ev ElementView) Curl(inode, ish int) (float64, error) {
	return ev.sp.ShapeFunctionCurl(0, inode, ish, ev.iel)
}

func (ev ElementView) Div(inode, ish int) (float64, error) {
	return ev.sp.ShapeFunctionDiv(inode, ish, ev.iel)
}
