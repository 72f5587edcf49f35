package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	fileInput := []byte(`
Title: Test Case
Executor: multicore
Mesh:
  Type: faces
  NCells: 3
  Owner: [0, 1]
  Neighbour: [1, 2]
  Boundary: [0, 2]
Solver: Jacobi
SolverParameters:
  Tolerance: 1.e-6
  MaxIterations: 50
BoundaryValue: 4.
`)
	rp := NewRunParameters()
	require.NoError(t, rp.Parse(fileInput))
	assert.Equal(t, "Test Case", rp.Title)
	assert.Equal(t, "multicore", rp.Executor)
	assert.Equal(t, "faces", rp.Mesh.Type)
	assert.Equal(t, 3, rp.Mesh.NCells)
	assert.Len(t, rp.Mesh.Owner, 2)
	assert.Equal(t, 1e-6, rp.SolverParams.Tolerance)
	assert.Equal(t, 50, rp.SolverParams.MaxIterations)
	assert.Equal(t, 4., rp.BoundaryValue)
	// Defaults survive where the file is silent
	assert.Equal(t, 1., rp.Gamma)
	assert.Equal(t, 2., rp.BoundaryCoeff)
	assert.Equal(t, 1, rp.Repeat)
	rp.Print()

	assert.Error(t, rp.Parse([]byte("Repeat: [")))
}

func TestParseMeshDims(t *testing.T) {
	rp := NewRunParameters()
	assert.Equal(t, []int{8, 8, 1}, rp.Mesh.Dims)
	require.NoError(t, rp.Parse([]byte(`
Mesh:
  Type: cartesian
  Name: slab
  Dims: [6, 2, 3]
`)))
	assert.Equal(t, "cartesian", rp.Mesh.Type)
	assert.Equal(t, "slab", rp.Mesh.Name)
	assert.Equal(t, []int{6, 2, 3}, rp.Mesh.Dims)
	{ // One dimension given, the rest default to a single cell
		rp := NewRunParameters()
		require.NoError(t, rp.Parse([]byte("Mesh:\n  Type: uniform1d\n  Dims: [7]\n")))
		assert.Equal(t, []int{7}, rp.Mesh.Dims)
	}
}
