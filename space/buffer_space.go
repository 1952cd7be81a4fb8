package space

import (
	"fmt"

	"github.com/notargets/gopdes/geometry"
	"github.com/notargets/gopdes/record"
	"github.com/notargets/gopdes/types"
	"github.com/notargets/gopdes/utils"
)

/*
BufferSpace is a Space backed by the arrays of a record, all copied at
construction. Layouts, first index fastest:

	nsh                       [nel]
	connectivity              [nsh_max, nel]
	shape_functions           [ncomp, nqn, nsh_max, nel]
	shape_function_gradients  [ncomp, ndir, nqn, nsh_max, nel]   optional
	shape_function_curls      [ncomp, nqn, nsh_max, nel]         optional, 3D
	                          [nqn, nsh_max, nel]                optional, 2D scalar curl
	shape_function_divs       [nqn, nsh_max, nel]                optional
*/
type BufferSpace struct {
	nqn, nel, ndir      int
	ndof, nshMax, ncomp int
	curlComps           int

	nsh          utils.IntTensor
	connectivity utils.IntTensor
	shapeFuncs   utils.Tensor
	gradients    utils.Tensor // IsNil() when not supplied
	curls        utils.Tensor // stored as [curlComps, nqn, nsh_max, nel]
	divs         utils.Tensor
}

// NewBufferSpace builds a space from rec, cross-validated against msh which
// supplies nqn, nel and ndir.
func NewBufferSpace(rec record.Record, msh geometry.Mesh) (bs *BufferSpace, err error) {
	bs = &BufferSpace{
		nqn:  msh.Nqn(),
		nel:  msh.Nel(),
		ndir: msh.Ndir(),
	}
	if bs.ndof, err = rec.Int(types.FieldNdof); err != nil {
		return nil, err
	}
	if bs.nshMax, err = rec.Int(types.FieldNshMax); err != nil {
		return nil, err
	}
	if bs.ncomp, err = rec.Int(types.FieldNcomp); err != nil {
		return nil, err
	}
	if err = bs.readConnectivity(rec); err != nil {
		return nil, err
	}
	if bs.shapeFuncs, err = rec.Tensor(types.FieldShapeFuncs,
		bs.ncomp, bs.nqn, bs.nshMax, bs.nel); err != nil {
		return nil, err
	}
	if rec.Has(types.FieldShapeGrads) {
		if bs.gradients, err = rec.Tensor(types.FieldShapeGrads,
			bs.ncomp, bs.ndir, bs.nqn, bs.nshMax, bs.nel); err != nil {
			return nil, err
		}
	}
	if rec.Has(types.FieldShapeCurls) {
		if err = bs.readCurls(rec); err != nil {
			return nil, err
		}
	}
	if rec.Has(types.FieldShapeDivs) {
		if bs.divs, err = rec.Tensor(types.FieldShapeDivs,
			bs.nqn, bs.nshMax, bs.nel); err != nil {
			return nil, err
		}
	}
	return
}

func (bs *BufferSpace) readConnectivity(rec record.Record) (err error) {
	var base int
	if rec.Has(types.FieldIndexBase) {
		if base, err = rec.Int(types.FieldIndexBase); err != nil {
			return
		}
	}
	if bs.nsh, err = rec.IntTensor(types.FieldNsh, bs.nel); err != nil {
		return
	}
	if bs.connectivity, err = rec.IntTensor(types.FieldConnectivity, bs.nshMax, bs.nel); err != nil {
		return
	}
	conn := bs.connectivity.RawData()
	for i := range conn {
		conn[i] -= base
	}
	for iel, nsh := range bs.nsh.RawData() {
		if nsh < 0 || nsh > bs.nshMax {
			return types.SchemaErrorf("element %d has nsh = %d, nsh_max is %d", iel, nsh, bs.nshMax)
		}
		active := utils.Index(conn[iel*bs.nshMax : iel*bs.nshMax+nsh])
		if err = active.InRange(bs.ndof); err != nil {
			return types.SchemaErrorf("connectivity of element %d: %v", iel, err)
		}
	}
	return
}

func (bs *BufferSpace) readCurls(rec record.Record) (err error) {
	var dims []int
	if dims, err = rec.Dims(types.FieldShapeCurls); err != nil {
		return
	}
	switch {
	case utils.MatchExtents(dims, []int{bs.ncomp, bs.nqn, bs.nshMax, bs.nel}):
		bs.curlComps = bs.ncomp
	case utils.MatchExtents(dims, []int{bs.nqn, bs.nshMax, bs.nel}):
		bs.curlComps = 1
	default:
		return types.SchemaErrorf("field %q has extents %v, expected [%d %d %d %d] or [%d %d %d]",
			types.FieldShapeCurls, dims, bs.ncomp, bs.nqn, bs.nshMax, bs.nel, bs.nqn, bs.nshMax, bs.nel)
	}
	bs.curls, err = rec.Tensor(types.FieldShapeCurls, bs.curlComps, bs.nqn, bs.nshMax, bs.nel)
	return
}

func (bs *BufferSpace) Ndof() int   { return bs.ndof }
func (bs *BufferSpace) NshMax() int { return bs.nshMax }
func (bs *BufferSpace) Ncomp() int  { return bs.ncomp }
func (bs *BufferSpace) Nqn() int    { return bs.nqn }
func (bs *BufferSpace) Nel() int    { return bs.nel }
func (bs *BufferSpace) Ndir() int   { return bs.ndir }

func (bs *BufferSpace) HasGradients() bool { return !bs.gradients.IsNil() }
func (bs *BufferSpace) HasCurls() bool     { return !bs.curls.IsNil() }
func (bs *BufferSpace) HasDivs() bool      { return !bs.divs.IsNil() }

func (bs *BufferSpace) CurlComponents() int {
	if !bs.HasCurls() {
		return bs.ncomp
	}
	return bs.curlComps
}

func (bs *BufferSpace) Nsh(iel int) (int, error) {
	return bs.nsh.At(iel)
}

func (bs *BufferSpace) Connectivity(ish, iel int) (int, error) {
	return bs.connectivity.At(ish, iel)
}

func (bs *BufferSpace) ShapeFunction(icomp, inode, ish, iel int) (float64, error) {
	return bs.shapeFuncs.At(icomp, inode, ish, iel)
}

func (bs *BufferSpace) ShapeFunctionGradient(icomp, idir, inode, ish, iel int) (float64, error) {
	if bs.gradients.IsNil() {
		return absent(
			bound{"component", icomp, bs.ncomp},
			bound{"direction", idir, bs.ndir},
			bound{"node", inode, bs.nqn},
			bound{"shape function", ish, bs.nshMax},
			bound{"element", iel, bs.nel})
	}
	return bs.gradients.At(icomp, idir, inode, ish, iel)
}

func (bs *BufferSpace) ShapeFunctionCurl(icomp, inode, ish, iel int) (float64, error) {
	if bs.curls.IsNil() {
		return absent(
			bound{"component", icomp, bs.ncomp},
			bound{"node", inode, bs.nqn},
			bound{"shape function", ish, bs.nshMax},
			bound{"element", iel, bs.nel})
	}
	return bs.curls.At(icomp, inode, ish, iel)
}

func (bs *BufferSpace) ShapeFunctionDiv(inode, ish, iel int) (float64, error) {
	if bs.divs.IsNil() {
		return absent(
			bound{"node", inode, bs.nqn},
			bound{"shape function", ish, bs.nshMax},
			bound{"element", iel, bs.nel})
	}
	return bs.divs.At(inode, ish, iel)
}

// Element returns a view of one element of the space.
func (bs *BufferSpace) Element(iel int) (ElementView, error) {
	return NewElementView(bs, iel)
}

func (bs *BufferSpace) String() string {
	return fmt.Sprintf("%v, gradients: %t, curls: %t, divs: %t",
		Shape(bs), bs.HasGradients(), bs.HasCurls(), bs.HasDivs())
}

type bound struct {
	name      string
	i, extent int
}

// absent bounds checks the indices of a tensor that was not supplied and
// returns the NaN sentinel.
func absent(bounds ...bound) (float64, error) {
	for _, b := range bounds {
		if err := types.CheckIndex(b.name, b.i, b.extent); err != nil {
			return 0, err
		}
	}
	return utils.NaN, nil
}
