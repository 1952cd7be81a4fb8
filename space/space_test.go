package space

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gopdes/geometry"
	"github.com/notargets/gopdes/record"
	"github.com/notargets/gopdes/types"
)

func newMesh(t *testing.T, nqn, nel, ndir int) *geometry.QuadMesh {
	ones := make([]float64, nqn*nel)
	for i := range ones {
		ones[i] = 1
	}
	msh, err := geometry.NewQuadMesh(record.Record{
		types.FieldNqn:         record.NewScalar(float64(nqn)),
		types.FieldNel:         record.NewScalar(float64(nel)),
		types.FieldNdir:        record.NewScalar(float64(ndir)),
		types.FieldJacDet:      record.NewField([]int{nqn, nel}, ones),
		types.FieldQuadWeights: record.NewField([]int{nqn, nel}, ones),
	})
	require.NoError(t, err)
	return msh
}

func seq(n int) (s []float64) {
	s = make([]float64, n)
	for i := range s {
		s[i] = float64(i)
	}
	return
}

func TestConnectivity(t *testing.T) {
	// Scalar space, one element, local 0 -> global 3, local 1 -> global 7
	msh := newMesh(t, 1, 1, 1)
	rec := record.Record{
		types.FieldNdof:         record.NewScalar(8),
		types.FieldNshMax:       record.NewScalar(2),
		types.FieldNcomp:        record.NewScalar(1),
		types.FieldNsh:          record.NewField([]int{1}, []float64{2}),
		types.FieldConnectivity: record.NewField([]int{2, 1}, []float64{3, 7}),
		types.FieldShapeFuncs:   record.NewField([]int{1, 1, 2, 1}, []float64{0.25, 0.75}),
	}
	sp, err := NewBufferSpace(rec, msh)
	require.NoError(t, err)
	dof, err := sp.Connectivity(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, dof)
	dof, err = sp.Connectivity(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, dof)
	nsh, err := sp.Nsh(0)
	require.NoError(t, err)
	assert.Equal(t, 2, nsh)
	_, err = sp.Nsh(1)
	assert.True(t, errors.Is(err, types.ErrOutOfRange))
	_, err = sp.Connectivity(2, 0)
	assert.True(t, errors.Is(err, types.ErrOutOfRange))

	ev, err := sp.Element(0)
	require.NoError(t, err)
	dofs, err := ev.Dofs()
	require.NoError(t, err)
	assert.Equal(t, []int{3, 7}, []int(dofs))
	val, err := ev.Value(0, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.75, val)

	// One based connectivity is rebased
	rec[types.FieldIndexBase] = record.NewScalar(1)
	rec[types.FieldConnectivity] = record.NewField([]int{2, 1}, []float64{4, 8})
	sp, err = NewBufferSpace(rec, msh)
	require.NoError(t, err)
	dof, _ = sp.Connectivity(1, 0)
	assert.Equal(t, 7, dof)

	// Active entries must be valid dofs
	rec[types.FieldConnectivity] = record.NewField([]int{2, 1}, []float64{4, 9})
	_, err = NewBufferSpace(rec, msh)
	assert.True(t, errors.Is(err, types.ErrSchema))
}

func TestUnusedSlots(t *testing.T) {
	// Element 1 has a single active shape function; slot 1 is still readable
	msh := newMesh(t, 1, 2, 1)
	rec := record.Record{
		types.FieldNdof:         record.NewScalar(3),
		types.FieldNshMax:       record.NewScalar(2),
		types.FieldNcomp:        record.NewScalar(1),
		types.FieldNsh:          record.NewField([]int{2}, []float64{2, 1}),
		types.FieldConnectivity: record.NewField([]int{2, 2}, []float64{0, 1, 2, -1}),
		types.FieldShapeFuncs:   record.NewField([]int{1, 1, 2, 2}, []float64{1, 1, 1, 0}),
	}
	sp, err := NewBufferSpace(rec, msh)
	require.NoError(t, err)
	for iel := 0; iel < sp.Nel(); iel++ {
		nsh, err := sp.Nsh(iel)
		require.NoError(t, err)
		for ish := 0; ish < nsh; ish++ {
			dof, err := sp.Connectivity(ish, iel)
			require.NoError(t, err)
			assert.True(t, dof >= 0 && dof < sp.Ndof())
		}
	}
	dof, err := sp.Connectivity(1, 1)
	require.NoError(t, err)
	assert.Equal(t, -1, dof)

	ev, err := sp.Element(1)
	require.NoError(t, err)
	assert.Equal(t, 1, ev.Nsh())
	dofs, _ := ev.Dofs()
	assert.Equal(t, []int{2}, []int(dofs))

	// nsh above nsh_max
	rec[types.FieldNsh] = record.NewField([]int{2}, []float64{3, 1})
	_, err = NewBufferSpace(rec, msh)
	assert.True(t, errors.Is(err, types.ErrSchema))
}

func newVectorRecord(ncomp, nqn, nshMax, nel, ndir int) record.Record {
	nsh := make([]float64, nel)
	conn := make([]float64, nshMax*nel)
	for e := 0; e < nel; e++ {
		nsh[e] = float64(nshMax)
		for i := 0; i < nshMax; i++ {
			conn[i+nshMax*e] = float64(i)
		}
	}
	return record.Record{
		types.FieldNdof:         record.NewScalar(float64(nshMax)),
		types.FieldNshMax:       record.NewScalar(float64(nshMax)),
		types.FieldNcomp:        record.NewScalar(float64(ncomp)),
		types.FieldNsh:          record.NewField([]int{nel}, nsh),
		types.FieldConnectivity: record.NewField([]int{nshMax, nel}, conn),
		types.FieldShapeFuncs: record.NewField([]int{ncomp, nqn, nshMax, nel},
			seq(ncomp*nqn*nshMax*nel)),
		types.FieldShapeGrads: record.NewField([]int{ncomp, ndir, nqn, nshMax, nel},
			seq(ncomp*ndir*nqn*nshMax*nel)),
	}
}

func TestShapeFunctionLayout(t *testing.T) {
	var (
		ncomp, nqn, nshMax, nel, ndir = 3, 4, 2, 5, 3
	)
	msh := newMesh(t, nqn, nel, ndir)
	sp, err := NewBufferSpace(newVectorRecord(ncomp, nqn, nshMax, nel, ndir), msh)
	require.NoError(t, err)
	assert.Equal(t, ncomp, sp.Ncomp())
	assert.True(t, sp.HasGradients())
	assert.False(t, sp.HasCurls())
	assert.False(t, sp.HasDivs())
	for iel := 0; iel < nel; iel++ {
		for ish := 0; ish < nshMax; ish++ {
			for q := 0; q < nqn; q++ {
				for c := 0; c < ncomp; c++ {
					val, err := sp.ShapeFunction(c, q, ish, iel)
					require.NoError(t, err)
					assert.Equal(t, float64(c+ncomp*(q+nqn*(ish+nshMax*iel))), val)
					for d := 0; d < ndir; d++ {
						g, err := sp.ShapeFunctionGradient(c, d, q, ish, iel)
						require.NoError(t, err)
						assert.Equal(t, float64(c+ncomp*(d+ndir*(q+nqn*(ish+nshMax*iel)))), g)
					}
				}
			}
		}
	}
	for _, idx := range [][4]int{{3, 0, 0, 0}, {0, 4, 0, 0}, {0, 0, 2, 0}, {0, 0, 0, 5}, {-1, 0, 0, 0}} {
		_, err = sp.ShapeFunction(idx[0], idx[1], idx[2], idx[3])
		assert.True(t, errors.Is(err, types.ErrOutOfRange), "shape function %v", idx)
	}
	_, err = sp.ShapeFunctionGradient(0, 3, 0, 0, 0)
	assert.True(t, errors.Is(err, types.ErrOutOfRange))
}

func TestShapeFunctionExtents(t *testing.T) {
	var (
		ncomp, nqn, nshMax, nel, ndir = 2, 3, 2, 4, 2
	)
	msh := newMesh(t, nqn, nel, ndir)
	require.NoError(t, func() error { _, err := NewBufferSpace(newVectorRecord(ncomp, nqn, nshMax, nel, ndir), msh); return err }())

	for _, test := range []struct {
		name string
		dims []int
	}{
		{"ncomp", []int{ncomp + 1, nqn, nshMax, nel}},
		{"nqn", []int{ncomp, nqn + 1, nshMax, nel}},
		{"nsh_max", []int{ncomp, nqn, nshMax + 1, nel}},
		{"nel", []int{ncomp, nqn, nshMax, nel + 1}},
	} {
		rec := newVectorRecord(ncomp, nqn, nshMax, nel, ndir)
		size := 1
		for _, d := range test.dims {
			size *= d
		}
		rec[types.FieldShapeFuncs] = record.NewField(test.dims, seq(size))
		_, err := NewBufferSpace(rec, msh)
		assert.True(t, errors.Is(err, types.ErrSchema), "%s: %v", test.name, err)
	}
	// Space built for a mesh with a different number of nodes
	{
		other := newMesh(t, nqn+1, nel, ndir)
		_, err := NewBufferSpace(newVectorRecord(ncomp, nqn, nshMax, nel, ndir), other)
		assert.True(t, errors.Is(err, types.ErrSchema))
	}
	// Gradients in the wrong number of directions
	{
		rec := newVectorRecord(ncomp, nqn, nshMax, nel, ndir+1)
		_, err := NewBufferSpace(rec, msh)
		assert.True(t, errors.Is(err, types.ErrSchema))
	}
	// Missing shape functions
	{
		rec := newVectorRecord(ncomp, nqn, nshMax, nel, ndir)
		delete(rec, types.FieldShapeFuncs)
		_, err := NewBufferSpace(rec, msh)
		assert.True(t, errors.Is(err, types.ErrSchema))
	}
	// Unit extents on the wrong axes: same size, different shape
	{
		one := newMesh(t, 2, 1, 1)
		rec := newVectorRecord(2, 2, 1, 1, 1)
		rec[types.FieldShapeFuncs] = record.NewField([]int{1, 2, 2, 1}, seq(4))
		_, err := NewBufferSpace(rec, one)
		assert.True(t, errors.Is(err, types.ErrSchema), "%v", err)
	}
	{
		// ncomp and ndir swapped
		two := newMesh(t, 2, 1, 2)
		rec := newVectorRecord(1, 2, 1, 1, 2)
		rec[types.FieldShapeGrads] = record.NewField([]int{2, 1, 2, 1, 1}, seq(4))
		_, err := NewBufferSpace(rec, two)
		assert.True(t, errors.Is(err, types.ErrSchema), "%v", err)
	}
	// Exported scalar spaces drop the component axis and a trailing element axis
	{
		one := newMesh(t, 3, 1, 1)
		rec := newVectorRecord(1, 3, 2, 1, 1)
		rec[types.FieldShapeFuncs] = record.NewField([]int{3, 2}, seq(6))
		rec[types.FieldShapeGrads] = record.NewField([]int{1, 3, 2}, seq(6))
		sp, err := NewBufferSpace(rec, one)
		require.NoError(t, err)
		val, err := sp.ShapeFunction(0, 2, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, 5., val)
		g, err := sp.ShapeFunctionGradient(0, 0, 1, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, 4., g)
	}
}

func TestOptionalData(t *testing.T) {
	var (
		ncomp, nqn, nshMax, nel, ndir = 2, 2, 3, 2, 2
	)
	msh := newMesh(t, nqn, nel, ndir)
	rec := newVectorRecord(ncomp, nqn, nshMax, nel, ndir)
	delete(rec, types.FieldShapeGrads)
	sp, err := NewBufferSpace(rec, msh)
	require.NoError(t, err)
	assert.False(t, sp.HasGradients())
	// Absent data is NaN for every valid index, never an error
	for iel := 0; iel < nel; iel++ {
		for ish := 0; ish < nshMax; ish++ {
			for q := 0; q < nqn; q++ {
				for c := 0; c < ncomp; c++ {
					for d := 0; d < ndir; d++ {
						g, err := sp.ShapeFunctionGradient(c, d, q, ish, iel)
						require.NoError(t, err)
						assert.True(t, math.IsNaN(g))
					}
					cu, err := sp.ShapeFunctionCurl(c, q, ish, iel)
					require.NoError(t, err)
					assert.True(t, math.IsNaN(cu))
				}
				dv, err := sp.ShapeFunctionDiv(q, ish, iel)
				require.NoError(t, err)
				assert.True(t, math.IsNaN(dv))
			}
		}
	}
	// Indices are still checked
	_, err = sp.ShapeFunctionGradient(0, 0, 0, 0, nel)
	assert.True(t, errors.Is(err, types.ErrOutOfRange))
	_, err = sp.ShapeFunctionDiv(nqn, 0, 0)
	assert.True(t, errors.Is(err, types.ErrOutOfRange))
	_, err = sp.ShapeFunctionCurl(ncomp, 0, 0, 0)
	assert.True(t, errors.Is(err, types.ErrOutOfRange))
}

func TestCurlsAndDivs(t *testing.T) {
	var (
		ncomp, nqn, nshMax, nel, ndir = 2, 2, 3, 2, 2
	)
	msh := newMesh(t, nqn, nel, ndir)
	// 2D scalar curl [nqn, nsh_max, nel] and divergence
	{
		rec := newVectorRecord(ncomp, nqn, nshMax, nel, ndir)
		rec[types.FieldShapeCurls] = record.NewField([]int{nqn, nshMax, nel}, seq(nqn*nshMax*nel))
		rec[types.FieldShapeDivs] = record.NewField([]int{nqn, nshMax, nel}, seq(nqn*nshMax*nel))
		sp, err := NewBufferSpace(rec, msh)
		require.NoError(t, err)
		assert.True(t, sp.HasCurls())
		assert.True(t, sp.HasDivs())
		assert.Equal(t, 1, sp.CurlComponents())
		ev, err := sp.Element(1)
		require.NoError(t, err)
		for ish := 0; ish < nshMax; ish++ {
			for q := 0; q < nqn; q++ {
				expected := float64(q + nqn*(ish+nshMax*1))
				c, err := ev.Curl(q, ish)
				require.NoError(t, err)
				assert.Equal(t, expected, c)
				c, err = sp.ShapeFunctionCurl(0, q, ish, 1)
				require.NoError(t, err)
				assert.Equal(t, expected, c)
				d, err := ev.Div(q, ish)
				require.NoError(t, err)
				assert.Equal(t, expected, d)
			}
		}
		_, err = sp.ShapeFunctionCurl(1, 0, 0, 0)
		assert.True(t, errors.Is(err, types.ErrOutOfRange))
	}
	// Vector curl [ncomp, nqn, nsh_max, nel]
	{
		rec := newVectorRecord(ncomp, nqn, nshMax, nel, ndir)
		rec[types.FieldShapeCurls] = record.NewField([]int{ncomp, nqn, nshMax, nel},
			seq(ncomp*nqn*nshMax*nel))
		sp, err := NewBufferSpace(rec, msh)
		require.NoError(t, err)
		assert.Equal(t, ncomp, sp.CurlComponents())
		c, err := sp.ShapeFunctionCurl(1, 1, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, float64(1+ncomp*(1+nqn*(2+nshMax*1))), c)
		ev, _ := sp.Element(1)
		c2, err := ev.CurlComponent(1, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, c, c2)
	}
	// Curls in neither layout
	{
		rec := newVectorRecord(ncomp, nqn, nshMax, nel, ndir)
		rec[types.FieldShapeCurls] = record.NewField([]int{3, nqn, nshMax, nel}, seq(3*nqn*nshMax*nel))
		_, err := NewBufferSpace(rec, msh)
		assert.True(t, errors.Is(err, types.ErrSchema))
	}
}

func TestCompatible(t *testing.T) {
	msh := newMesh(t, 2, 3, 1)
	msh2, sp2 := record.NewLineRecords(3)
	lineMsh, err := geometry.NewQuadMesh(msh2)
	require.NoError(t, err)
	sp, err := NewBufferSpace(sp2, lineMsh)
	require.NoError(t, err)
	assert.NoError(t, Compatible(sp, lineMsh))
	assert.NoError(t, Compatible(sp, msh))
	assert.True(t, errors.Is(Compatible(sp, newMesh(t, 2, 4, 1)), types.ErrSchema))
	assert.True(t, errors.Is(Compatible(sp, newMesh(t, 2, 3, 2)), types.ErrSchema))
	assert.Equal(t, 4, Shape(sp).Ndof)
	_, err = NewElementView(sp, 3)
	assert.True(t, errors.Is(err, types.ErrOutOfRange))
}
