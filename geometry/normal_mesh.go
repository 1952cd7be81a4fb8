package geometry

import (
	"github.com/notargets/gopdes/record"
	"github.com/notargets/gopdes/types"
	"github.com/notargets/gopdes/utils"
)

// NormalMesh is a boundary QuadMesh carrying normals [ndir x nqn x nel].
type NormalMesh struct {
	*QuadMesh
	normal utils.Tensor
}

func NewNormalMesh(rec record.Record) (nm *NormalMesh, err error) {
	var qm *QuadMesh
	if qm, err = NewQuadMesh(rec); err != nil {
		return
	}
	return NewNormalMeshFrom(qm, rec)
}

// NewNormalMeshFrom adds the normal field of rec to an existing mesh.
func NewNormalMeshFrom(qm *QuadMesh, rec record.Record) (nm *NormalMesh, err error) {
	if !rec.Has(types.FieldNormal) {
		err = types.SchemaErrorf("missing field %q, required for surface meshes", types.FieldNormal)
		return
	}
	nm = &NormalMesh{QuadMesh: qm}
	if nm.normal, err = rec.Tensor(types.FieldNormal, qm.ndir, qm.nqn, qm.nel); err != nil {
		return nil, err
	}
	return
}

func (nm *NormalMesh) Normal(idir, inode, iel int) (float64, error) {
	return nm.normal.At(idir, inode, iel)
}

// NormalVector returns the normal at a node as an ndir vector.
func (nm *NormalMesh) NormalVector(inode, iel int) (n []float64, err error) {
	n = make([]float64, nm.ndir)
	for d := range n {
		if n[d], err = nm.normal.At(d, inode, iel); err != nil {
			return nil, err
		}
	}
	return
}
