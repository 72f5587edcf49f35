package la

import (
	"fmt"

	"github.com/notargets/fvcore/core"
)

func checkVectors[T core.Scalar](what string, m *CSRMatrix[T], vs ...*core.Container[T]) {
	for _, v := range vs {
		if !core.SameExecutor(m.Exec(), v.Exec()) {
			panic(fmt.Sprintf("%s: matrix on %s, vector on %s", what, m.Exec().Name(), v.Exec().Name()))
		}
		if v.Len() != m.NRows() {
			panic(fmt.Sprintf("%s: matrix has %d rows, vector has length %d", what, m.NRows(), v.Len()))
		}
	}
}

// SpMV computes y = A x
func SpMV[T core.Scalar](A *CSRMatrix[T], x, y *core.Container[T]) {
	checkVectors("SpMV", A, x, y)
	var (
		mv = A.View()
		xv = x.View()
		yv = y.View()
	)
	core.ParallelFor(A.Exec(), 0, A.NRows(), func(row int) {
		var sum T
		for s := mv.RowStart(row); s < mv.RowStart(row+1); s++ {
			sum += mv.Values.At(s) * xv.At(int(mv.ColIdxs.At(s)))
		}
		yv.Set(row, sum)
	})
}

// ComputeResidual computes res = A x - b
func ComputeResidual[T core.Scalar](A *CSRMatrix[T], b, x, res *core.Container[T]) {
	checkVectors("residual", A, b, x, res)
	var (
		mv   = A.View()
		bv   = b.View()
		xv   = x.View()
		resv = res.View()
	)
	core.ParallelFor(A.Exec(), 0, A.NRows(), func(row int) {
		var sum T
		for s := mv.RowStart(row); s < mv.RowStart(row+1); s++ {
			sum += mv.Values.At(s) * xv.At(int(mv.ColIdxs.At(s)))
		}
		resv.Set(row, sum-bv.At(row))
	})
}
