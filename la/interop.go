package la

import (
	"sort"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/fvcore/core"
)

// ToSparse converts a host copy of the matrix to a james-bowman/sparse CSR
// matrix, with columns sorted within each row
func (m *CSRMatrix[T]) ToSparse() *sparse.CSR {
	h := m.CopyToHost()
	defer h.Free()
	var (
		nr     = h.NRows()
		rowOff = h.rowOffsets.HostSlice()
		cols   = h.colIdxs.HostSlice()
		vals   = h.values.HostSlice()
		ia     = make([]int, nr+1)
		ja     = make([]int, len(cols))
		data   = make([]float64, len(vals))
	)
	for row := 0; row < nr; row++ {
		start, end := int(rowOff[row]), int(rowOff[row+1])
		perm := make([]int, end-start)
		for i := range perm {
			perm[i] = start + i
		}
		sort.Slice(perm, func(i, j int) bool { return cols[perm[i]] < cols[perm[j]] })
		for i, s := range perm {
			ja[start+i] = int(cols[s])
			data[start+i] = float64(vals[s])
		}
		ia[row+1] = end
	}
	return sparse.NewCSR(nr, nr, ia, ja, data)
}

// MatrixAdapter is a read only host snapshot satisfying mat.Matrix, for
// diagnostics and comparison against dense references
type MatrixAdapter struct {
	n      int
	rowOff []core.LocalIdx
	cols   []core.LocalIdx
	vals   []float64
}

func (m *CSRMatrix[T]) AsMatrix() *MatrixAdapter {
	h := m.CopyToHost()
	defer h.Free()
	a := &MatrixAdapter{
		n:      h.NRows(),
		rowOff: append([]core.LocalIdx(nil), h.rowOffsets.HostSlice()...),
		cols:   append([]core.LocalIdx(nil), h.colIdxs.HostSlice()...),
		vals:   make([]float64, h.NNZ()),
	}
	for i, x := range h.values.HostSlice() {
		a.vals[i] = float64(x)
	}
	return a
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (a *MatrixAdapter) Dims() (r, c int) { return a.n, a.n }
func (a *MatrixAdapter) T() mat.Matrix    { return mat.Transpose{Matrix: a} }
func (a *MatrixAdapter) At(i, j int) float64 {
	if i < 0 || i >= a.n || j < 0 || j >= a.n {
		panic(mat.ErrIndexOutOfRange)
	}
	for s := a.rowOff[i]; s < a.rowOff[i+1]; s++ {
		if int(a.cols[s]) == j {
			return a.vals[s]
		}
	}
	return 0
}

// ToDense expands the matrix, intended for small systems only
func (m *CSRMatrix[T]) ToDense() *mat.Dense {
	return mat.DenseCopyOf(m.AsMatrix())
}
