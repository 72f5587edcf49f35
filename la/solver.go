package la

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/notargets/fvcore/core"
)

type SolverStats struct {
	Iterations      int
	InitialResidual float64
	FinalResidual   float64
	Elapsed         time.Duration
	Converged       bool
}

func (s SolverStats) Print(name string) {
	fmt.Printf("Solver: %s, Initial residual = %g, Final residual = %g, No Iterations = %d, Elapsed = %v\n",
		name, s.InitialResidual, s.FinalResidual, s.Iterations, s.Elapsed)
}

// Solver computes x such that A x = b for a LinearSystem. The initial content
// of x is used as the starting guess by iterative solvers.
type Solver[T core.Scalar] interface {
	Solve(ls *LinearSystem[T], x *core.Container[T]) (SolverStats, error)
	Name() string
}

type SolverParameters struct {
	Tolerance     float64 `json:"Tolerance"` // Relative to the initial residual
	MaxIterations int     `json:"MaxIterations"`
}

type SolverType uint8

const (
	SOLVER_Diagonal SolverType = iota
	SOLVER_Jacobi
)

var (
	SolverNames = map[string]SolverType{
		"diagonal": SOLVER_Diagonal,
		"jacobi":   SOLVER_Jacobi,
	}
	SolverPrintNames = []string{"Diagonal", "Jacobi"}
)

func (st SolverType) Print() (txt string) {
	txt = SolverPrintNames[st]
	return
}

func NewSolverType(label string) (st SolverType, err error) {
	var ok bool
	if st, ok = SolverNames[strings.ToLower(label)]; !ok {
		err = fmt.Errorf("unable to use solver named %s", label)
	}
	return
}

func NewSolver[T core.Scalar](label string, p SolverParameters) (s Solver[T], err error) {
	var st SolverType
	if st, err = NewSolverType(label); err != nil {
		return
	}
	switch st {
	case SOLVER_Diagonal:
		s = DiagonalSolver[T]{}
	case SOLVER_Jacobi:
		if p.Tolerance <= 0 {
			p.Tolerance = 1e-8
		}
		if p.MaxIterations <= 0 {
			p.MaxIterations = 1000
		}
		s = &JacobiSolver[T]{Params: p}
	}
	return
}

// DiagonalSolver solves systems whose matrix is diagonal, x = b / diag(A).
// Off diagonal entries are ignored.
type DiagonalSolver[T core.Scalar] struct{}

func (DiagonalSolver[T]) Name() string { return "diagonal" }

func (DiagonalSolver[T]) Solve(ls *LinearSystem[T], x *core.Container[T]) (stats SolverStats, err error) {
	start := time.Now()
	checkVectors("diagonal solver", ls.Matrix(), x)
	diag := extractDiagonal(ls.Matrix())
	defer diag.Free()
	var (
		dv = diag.View()
		bv = ls.RHS().View()
		xv = x.View()
	)
	core.ParallelFor(x.Exec(), 0, x.Len(), func(i int) {
		xv.Set(i, bv.At(i)/dv.At(i))
	})
	core.Fence(x.Exec())
	stats = SolverStats{Iterations: 1, Elapsed: time.Since(start), Converged: true}
	return
}

// JacobiSolver is the point Jacobi iteration x += D^-1 (b - A x)
type JacobiSolver[T core.Scalar] struct {
	Params SolverParameters
}

func (*JacobiSolver[T]) Name() string { return "jacobi" }

func (js *JacobiSolver[T]) Solve(ls *LinearSystem[T], x *core.Container[T]) (stats SolverStats, err error) {
	start := time.Now()
	var (
		A    = ls.Matrix()
		b    = ls.RHS()
		exec = A.Exec()
		res  = core.NewContainer[T](exec, A.NRows())
		diag = extractDiagonal(A)
	)
	checkVectors("jacobi solver", A, x)
	defer res.Free()
	defer diag.Free()
	var (
		rv = res.View()
		dv = diag.View()
		xv = x.View()
	)
	ComputeResidual(A, b, x, res)
	stats.InitialResidual = norm2(res)
	stats.FinalResidual = stats.InitialResidual
	target := js.Params.Tolerance * stats.InitialResidual
	for stats.FinalResidual > target && stats.Iterations < js.Params.MaxIterations {
		core.ParallelFor(exec, 0, x.Len(), func(i int) {
			xv.Set(i, xv.At(i)-rv.At(i)/dv.At(i))
		})
		ComputeResidual(A, b, x, res)
		stats.FinalResidual = norm2(res)
		stats.Iterations++
		if math.IsNaN(stats.FinalResidual) || math.IsInf(stats.FinalResidual, 0) {
			err = fmt.Errorf("jacobi diverged after %d iterations", stats.Iterations)
			break
		}
	}
	stats.Converged = err == nil && stats.FinalResidual <= target
	stats.Elapsed = time.Since(start)
	if err == nil && !stats.Converged {
		err = fmt.Errorf("jacobi did not converge in %d iterations, residual %g > %g",
			stats.Iterations, stats.FinalResidual, target)
	}
	return
}

// extractDiagonal scans each row for its diagonal entry
func extractDiagonal[T core.Scalar](A *CSRMatrix[T]) (diag *core.Container[T]) {
	diag = core.NewContainer[T](A.Exec(), A.NRows())
	var (
		mv = A.View()
		dv = diag.View()
	)
	core.ParallelFor(A.Exec(), 0, A.NRows(), func(row int) {
		for s := mv.RowStart(row); s < mv.RowStart(row+1); s++ {
			if int(mv.ColIdxs.At(s)) == row {
				dv.Set(row, mv.Values.At(s))
				return
			}
		}
		panic(fmt.Sprintf("diagonal entry of row %d not found", row))
	})
	return
}

func norm2[T core.Scalar](v *core.Container[T]) float64 {
	vv := v.View()
	ss := core.ParallelReduce(v.Exec(), 0, v.Len(), func(i int, acc *float64) {
		x := float64(vv.At(i))
		*acc += x * x
	}, core.SumReducer[float64]())
	return math.Sqrt(ss)
}
