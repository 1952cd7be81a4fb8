package geometry

import (
	"math"

	"github.com/notargets/gopdes/record"
	"github.com/notargets/gopdes/types"
	"github.com/notargets/gopdes/utils"
)

// QuadMesh is a Mesh backed by the jacdet and weight arrays of a record.
// Both arrays are copied at construction.
type QuadMesh struct {
	nqn, nel, ndir int
	jacdet         utils.Matrix // [nqn x nel]
	weights        utils.Matrix // [nqn x nel]
}

func NewQuadMesh(rec record.Record) (qm *QuadMesh, err error) {
	qm = &QuadMesh{}
	if qm.nqn, err = rec.Int(types.FieldNqn); err != nil {
		return nil, err
	}
	if qm.nel, err = rec.Int(types.FieldNel); err != nil {
		return nil, err
	}
	if qm.ndir, err = readNdir(rec); err != nil {
		return nil, err
	}
	if qm.jacdet, err = readMatrix(rec, types.FieldJacDet, qm.nqn, qm.nel); err != nil {
		return nil, err
	}
	wName := types.FieldQuadWeights
	if !rec.Has(wName) && rec.Has(types.FieldWeights) {
		wName = types.FieldWeights
	}
	if qm.weights, err = readMatrix(rec, wName, qm.nqn, qm.nel); err != nil {
		return nil, err
	}
	return
}

// The number of directions is the leading extent of the quadrature nodes,
// or an explicit ndir field when the nodes were not exported.
func readNdir(rec record.Record) (ndir int, err error) {
	if rec.Has(types.FieldQuadNodes) {
		var dims []int
		if dims, err = rec.Dims(types.FieldQuadNodes); err != nil {
			return
		}
		if len(dims) == 0 {
			ndir = 1
			return
		}
		ndir = dims[0]
		return
	}
	if rec.Has(types.FieldNdir) {
		return rec.Int(types.FieldNdir)
	}
	err = types.SchemaErrorf("missing field %q (or %q)", types.FieldQuadNodes, types.FieldNdir)
	return
}

func readMatrix(rec record.Record, name string, nr, nc int) (m utils.Matrix, err error) {
	var T utils.Tensor
	if T, err = rec.Tensor(name, nr, nc); err != nil {
		return
	}
	return utils.NewMatrixColMajor(nr, nc, T.RawData(), name)
}

func (qm *QuadMesh) Nqn() int  { return qm.nqn }
func (qm *QuadMesh) Nel() int  { return qm.nel }
func (qm *QuadMesh) Ndir() int { return qm.ndir }

func (qm *QuadMesh) JacDet(inode, iel int) (float64, error) {
	return qm.jacdet.Get(inode, iel)
}

func (qm *QuadMesh) Weight(inode, iel int) (float64, error) {
	return qm.weights.Get(inode, iel)
}

func (qm *QuadMesh) Measure(iel int) (m float64, err error) {
	if err = types.CheckIndex("element", iel, qm.nel); err != nil {
		return
	}
	for q := 0; q < qm.nqn; q++ {
		m += math.Abs(qm.jacdet.At(q, iel)) * qm.weights.At(q, iel)
	}
	return
}

// Area and Volume are Measure under the names used in 2D and 3D.
func (qm *QuadMesh) Area(iel int) (float64, error)   { return qm.Measure(iel) }
func (qm *QuadMesh) Volume(iel int) (float64, error) { return qm.Measure(iel) }
