package la

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/fvcore/core"
	"github.com/notargets/fvcore/mesh"
)

func TestCSRMatrixOffsets(t *testing.T) {
	for _, exec := range core.Executors() {
		t.Run(exec.Name(), func(t *testing.T) {
			m := randomMesh(t, exec, 40, 100, 3)
			sp := NewSparsityPattern(m)
			A := NewCSRMatrixFromPattern[float64](sp)
			defer A.Free()
			assert.Equal(t, 40, A.NRows())
			assert.Equal(t, sp.NNZ(), A.NNZ())
			{ // Writes through the offset maps are read back by position
				var (
					mv        = A.View()
					owner     = m.FaceOwner().View()
					neighbour = m.FaceNeighbour().View()
					ownOff    = sp.OwnerOffset().View()
					nbrOff    = sp.NeighbourOffset().View()
					diag      = sp.DiagOffset().View()
				)
				core.ParallelFor(exec, 0, m.NInternalFaces(), func(f int) {
					o, n := int(owner.At(f)), int(neighbour.At(f))
					mv.Values.Set(mv.RowStart(o)+int(ownOff.At(f)), float64(f+1))
					mv.Values.Set(mv.RowStart(n)+int(nbrOff.At(f)), -float64(f+1))
				})
				core.ParallelFor(exec, 0, m.NCells(), func(c int) {
					mv.Values.Set(mv.RowStart(c)+int(diag.At(c)), 100+float64(c))
				})
			}
			var (
				ho, hn    = m.FaceOwner().CopyToHost(), m.FaceNeighbour().CopyToHost()
				owner     = ho.HostSlice()
				neighbour = hn.HostSlice()
				h         = A.CopyToHost()
				hv        = h.View()
			)
			for f := range owner {
				o, n := int(owner[f]), int(neighbour[f])
				assert.Equal(t, float64(f+1), hv.Entry(o, n))
				assert.Equal(t, -float64(f+1), hv.Entry(n, o))
			}
			for c := 0; c < m.NCells(); c++ {
				assert.Equal(t, 100+float64(c), hv.Entry(c, c))
			}
			assert.Equal(t, 100., A.Entry(0, 0))
			h.Free()
		})
	}
}

func TestCSRMatrix(t *testing.T) {
	{ // Missing positions are fatal
		A := NewCSRMatrixFromHost(core.SerialExecutor{}, []float64{1, 2, 3}, []core.LocalIdx{0, 1, 1}, []core.LocalIdx{0, 2, 3})
		assert.Equal(t, 2., A.Entry(0, 1))
		assert.PanicsWithValue(t, "memory not allocated for CSR matrix component (1, 0)", func() { A.Entry(1, 0) })
		v := A.View()
		v.SetEntry(1, 1, 30)
		assert.Equal(t, 30., v.Entry(1, 1))
		assert.Equal(t, 2, v.Offset(1, 1))
	}
	{ // Components must share an executor and a length
		vals := core.NewContainer[float64](core.SerialExecutor{}, 2)
		cols := core.NewContainer[core.LocalIdx](core.GPUExecutor{}, 2)
		rows := core.NewContainerFromHost(core.SerialExecutor{}, []core.LocalIdx{0, 2})
		assert.Panics(t, func() { NewCSRMatrix(vals, cols, rows) })
		short := core.NewContainer[core.LocalIdx](core.SerialExecutor{}, 1)
		assert.Panics(t, func() { NewCSRMatrix(vals, short, rows) })
	}
	{ // Executor round trip preserves values
		m, err := mesh.NewCartesian(core.SerialExecutor{}, 3, 2, 1)
		require.NoError(t, err)
		sp := NewSparsityPattern(m)
		A := NewCSRMatrixFromPattern[float32](sp)
		core.Map(A.Values(), func(i int) float32 { return float32(i) * 0.5 })
		g := A.CopyToExecutor(core.GPUExecutor{})
		c := g.CopyToExecutor(core.CPUExecutor{})
		assert.True(t, core.Equal(A.Values(), c.Values()))
		assert.True(t, core.Equal(A.ColIdxs(), c.ColIdxs()))
		assert.True(t, core.Equal(A.RowOffsets(), c.RowOffsets()))
		assert.Equal(t, core.Accelerator, g.Exec().Kind())
		g.Free()
		c.Free()
		// Freeing a pattern matrix leaves the pattern intact
		A.Free()
		assert.Equal(t, sp.NNZ(), sp.ColIdxs().Len())
	}
}

func TestLinearSystem(t *testing.T) {
	for _, exec := range core.Executors() {
		m, err := mesh.NewUniform1D(exec, 5)
		require.NoError(t, err)
		sp := NewSparsityPattern(m)
		ls := NewEmptyLinearSystem[float64](sp)
		assert.Equal(t, 5, ls.NRows())
		assert.Equal(t, exec.Kind(), ls.Exec().Kind())
		{ // Reset zeroes values and rhs
			core.Fill(ls.Matrix().Values(), 3)
			core.Fill(ls.RHS(), 4)
			ls.Reset()
			assert.Equal(t, 0., core.Sum(ls.Matrix().Values()))
			assert.Equal(t, 0., core.Sum(ls.RHS()))
		}
		{ // Views write into the system
			v := ls.View()
			core.ParallelFor(exec, 0, 5, func(i int) {
				v.RHS.Set(i, float64(i))
				v.Matrix.SetEntry(i, i, 2)
			})
			h := ls.CopyToHost()
			assert.Equal(t, []float64{0, 1, 2, 3, 4}, h.RHS().HostSlice())
			assert.Equal(t, 2., h.Matrix().Entry(4, 4))
			h.Free()
		}
		ls.Free()
	}
	{ // Executor and size mismatches are configuration errors
		m, err := mesh.NewUniform1D(core.SerialExecutor{}, 3)
		require.NoError(t, err)
		sp := NewSparsityPattern(m)
		A := NewCSRMatrixFromPattern[float64](sp)
		assert.Panics(t, func() { NewLinearSystem(A, core.NewContainer[float64](core.CPUExecutor{}, 3)) })
		assert.Panics(t, func() { NewLinearSystem(A, core.NewContainer[float64](core.SerialExecutor{}, 4)) })
		assert.NotPanics(t, func() { NewLinearSystem(A, core.NewContainer[float64](core.SerialExecutor{}, 3)) })
	}
}
