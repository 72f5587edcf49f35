package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/fvcore/InputParameters"
	"github.com/notargets/fvcore/core"
	"github.com/notargets/fvcore/mesh"
)

func TestRuntimeConfig(t *testing.T) {
	defer viper.Reset()
	viper.Set("executor", "gpu")
	viper.Set("threads", 3)
	viper.Set("boundsCheck", "record")
	rc, err := LoadRuntimeConfig()
	require.NoError(t, err)
	assert.Equal(t, core.Accelerator, rc.Executor.Kind())
	assert.Equal(t, 3, rc.Settings.Threads)
	assert.Equal(t, core.Record, rc.Settings.Bounds)

	viper.Set("executor", "abacus")
	_, err = LoadRuntimeConfig()
	assert.Error(t, err)
}

func TestRunCommands(t *testing.T) {
	fileInput := []byte(`
Title: Test Case
Executor: multicore
Mesh:
  Type: cartesian
  Dims: [5, 3, 2]
Solver: jacobi
SolverParameters:
  Tolerance: 1.e-10
  MaxIterations: 200
BoundaryValue: 2.
Repeat: 2
`)
	icFile := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(icFile, fileInput, 0644))
	require.NoError(t, AssembleCmd.Flags().Set("inputConditionsFile", icFile))
	rp, err := processInput(AssembleCmd)
	require.NoError(t, err)
	assert.Equal(t, 2, rp.Repeat)
	exec, err := selectExecutor(rp)
	require.NoError(t, err)
	assert.Equal(t, core.Multicore, exec.Kind())
	m, err := rp.Mesh.Build(exec)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 3, 2}, rp.Mesh.Dims)
	assert.Equal(t, 30, m.NCells())
	assert.Equal(t, 4*3*2+5*2*2+5*3*1, m.NInternalFaces())
	{ // Uniform boundary value gives a uniform solution
		x, err := RunAssemble(m, rp)
		require.NoError(t, err)
		want := make([]float64, m.NCells())
		floats.AddConst(2, want)
		assert.True(t, floats.EqualApprox(want, x, 1e-8))
	}
	{
		assert.NoError(t, RunSparsity(m, rp.Repeat, true))
		results, err := RunBench(m, 1, false)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	}
	{
		rp := InputParameters.NewRunParameters()
		rp.Solver = "cholesky"
		_, err := RunAssemble(m, rp)
		assert.Error(t, err)
	}
	{ // Default mesh from flags
		require.NoError(t, SparsityCmd.Flags().Set("nx", "3"))
		rp, err := processInput(SparsityCmd)
		require.NoError(t, err)
		assert.Equal(t, mesh.Description{Type: "cartesian", Dims: []int{3, 8, 1}}, rp.Mesh)
	}
}
