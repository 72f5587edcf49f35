package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/fvcore/core"
)

func hostFaces(m *Mesh) (owner, neighbour, boundary []core.LocalIdx) {
	o, n, b := m.FaceOwner().CopyToHost(), m.FaceNeighbour().CopyToHost(), m.BoundaryCells().CopyToHost()
	owner, neighbour, boundary = o.HostSlice(), n.HostSlice(), b.HostSlice()
	return
}

func TestNewMesh(t *testing.T) {
	{ // Validation
		_, err := NewMesh(core.SerialExecutor{}, 2, []core.LocalIdx{0}, []core.LocalIdx{2}, nil)
		assert.Error(t, err)
		_, err = NewMesh(core.SerialExecutor{}, 2, []core.LocalIdx{1}, []core.LocalIdx{1}, nil)
		assert.Error(t, err)
		_, err = NewMesh(core.SerialExecutor{}, 2, []core.LocalIdx{0, 1}, []core.LocalIdx{1}, nil)
		assert.Error(t, err)
		_, err = NewMesh(core.SerialExecutor{}, 2, nil, nil, []core.LocalIdx{5})
		assert.Error(t, err)
		_, err = NewMesh(core.SerialExecutor{}, -1, nil, nil, nil)
		assert.Error(t, err)
	}
	{ // Replacing the topology keeps the identity and bumps the revision
		m, err := NewMesh(core.CPUExecutor{}, 1, nil, nil, nil)
		require.NoError(t, err)
		defer m.Free()
		id := m.ID
		assert.Equal(t, uint64(1), m.Revision)
		require.NoError(t, m.ReplaceTopology(2, []core.LocalIdx{0}, []core.LocalIdx{1}, nil))
		assert.Equal(t, id, m.ID)
		assert.Equal(t, uint64(2), m.Revision)
		assert.Equal(t, 2, m.NCells())
		assert.Equal(t, 1, m.NInternalFaces())
		assert.Error(t, m.ReplaceTopology(2, []core.LocalIdx{0}, []core.LocalIdx{0}, nil))
		assert.Equal(t, uint64(2), m.Revision)
	}
	{ // Copies keep identity
		m, err := NewUniform1D(core.SerialExecutor{}, 3)
		require.NoError(t, err)
		g := m.CopyToExecutor(core.GPUExecutor{})
		assert.Equal(t, m.ID, g.ID)
		assert.Equal(t, core.Accelerator, g.Exec().Kind())
		o, n, _ := hostFaces(g)
		assert.Equal(t, []core.LocalIdx{0, 1}, o)
		assert.Equal(t, []core.LocalIdx{1, 2}, n)
		g.Free()
		m.Free()
	}
}

func TestGenerators(t *testing.T) {
	{ // Line of cells
		m, err := NewUniform1D(core.SerialExecutor{}, 4)
		require.NoError(t, err)
		o, n, b := hostFaces(m)
		assert.Equal(t, []core.LocalIdx{0, 1, 2}, o)
		assert.Equal(t, []core.LocalIdx{1, 2, 3}, n)
		// two ends plus four sides per cell in y and z
		assert.Equal(t, 2+4*4, len(b))
	}
	{ // Face count of a block: (nx-1)ny nz + nx(ny-1)nz + nx ny(nz-1)
		m, err := NewCartesian(core.CPUExecutor{}, 3, 4, 2)
		require.NoError(t, err)
		assert.Equal(t, 24, m.NCells())
		assert.Equal(t, 2*4*2+3*3*2+3*4*1, m.NInternalFaces())
		assert.Equal(t, 2*(4*2+3*2+3*4), m.NBoundaryFaces())
		o, n, _ := hostFaces(m)
		for f := range o {
			assert.Less(t, o[f], n[f])
			if f > 0 {
				assert.True(t, o[f-1] < o[f] || (o[f-1] == o[f] && n[f-1] < n[f]))
			}
		}
	}
	{
		_, err := NewCartesian(core.SerialExecutor{}, 0, 1, 1)
		assert.Error(t, err)
	}
}

func TestConnect(t *testing.T) {
	{ // Four tets forming a pyramid, each shares a face with two others
		EToV := [][]int{
			{0, 1, 2, 4},
			{1, 2, 3, 4},
			{2, 3, 0, 4},
			{3, 0, 1, 4},
		}
		EToE, EToF := Connect(EToV, TetFaceVertices)
		for k := range EToE {
			for f, nbr := range EToE[k] {
				if nbr != k {
					assert.Equal(t, k, EToE[nbr][EToF[k][f]], "reciprocity")
				}
			}
		}
		m, err := FromElements(core.SerialExecutor{}, EToV, TetFaceVertices)
		require.NoError(t, err)
		assert.Equal(t, 4, m.NCells())
		assert.Equal(t, 4*4, 2*m.NInternalFaces()+m.NBoundaryFaces())
	}
	{ // Two triangles sharing an edge
		m, err := FromElements(core.SerialExecutor{}, [][]int{{0, 1, 2}, {1, 3, 2}}, TriFaceVertices)
		require.NoError(t, err)
		o, n, b := hostFaces(m)
		assert.Equal(t, []core.LocalIdx{0}, o)
		assert.Equal(t, []core.LocalIdx{1}, n)
		assert.Equal(t, 4, len(b))
		_, err = FromElements(core.SerialExecutor{}, [][]int{{0, 1}}, TriFaceVertices)
		assert.Error(t, err)
	}
	{ // Self and -1 both mark the boundary
		m, err := FromConnectivity(core.SerialExecutor{}, [][]int{{-1, 1}, {0, 1}})
		require.NoError(t, err)
		assert.Equal(t, 1, m.NInternalFaces())
		assert.Equal(t, 2, m.NBoundaryFaces())
		_, err = FromConnectivity(core.SerialExecutor{}, [][]int{{7}})
		assert.Error(t, err)
	}
}

func TestDescription(t *testing.T) {
	d, err := ParseDescription([]byte(`
Type: faces
Name: pair
NCells: 2
Owner: [0]
Neighbour: [1]
Boundary: [0, 1]
`))
	require.NoError(t, err)
	m, err := d.Build(core.CPUExecutor{})
	require.NoError(t, err)
	assert.Equal(t, "pair", m.Name)
	assert.Equal(t, 2, m.NCells())
	assert.Equal(t, 2, m.NBoundaryFaces())

	d, err = ParseDescription([]byte("Type: cartesian\nDims: [2, 2]\n"))
	require.NoError(t, err)
	m, err = d.Build(core.SerialExecutor{})
	require.NoError(t, err)
	assert.Equal(t, 4, m.NCells())
	assert.Equal(t, 4, m.NInternalFaces())

	d, err = ParseDescription([]byte("Type: cartesian\nDims: [4, 3, 1]\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 1}, d.Dims)
	m, err = d.Build(core.CPUExecutor{})
	require.NoError(t, err)
	assert.Equal(t, 12, m.NCells())
	assert.Equal(t, 3*3+4*2, m.NInternalFaces())

	_, err = (&Description{Type: "octree"}).Build(core.SerialExecutor{})
	assert.Error(t, err)
	_, err = ParseDescription([]byte("NCells: [oops"))
	assert.Error(t, err)
}
