package la

import (
	"fmt"

	"github.com/notargets/fvcore/core"
)

// LinearSystem is a matrix and right hand side on one executor
type LinearSystem[T core.Scalar] struct {
	matrix *CSRMatrix[T]
	rhs    *core.Container[T]
}

func NewLinearSystem[T core.Scalar](matrix *CSRMatrix[T], rhs *core.Container[T]) *LinearSystem[T] {
	if !core.SameExecutor(matrix.Exec(), rhs.Exec()) {
		panic(fmt.Sprintf("linear system: matrix on %s, rhs on %s", matrix.Exec().Name(), rhs.Exec().Name()))
	}
	if matrix.NRows() != rhs.Len() {
		panic(fmt.Sprintf("linear system: matrix has %d rows, rhs has %d", matrix.NRows(), rhs.Len()))
	}
	return &LinearSystem[T]{matrix: matrix, rhs: rhs}
}

// NewEmptyLinearSystem returns a zeroed system with the structure of sp
func NewEmptyLinearSystem[T core.Scalar](sp *SparsityPattern) *LinearSystem[T] {
	return NewLinearSystem(NewCSRMatrixFromPattern[T](sp), core.NewContainer[T](sp.Exec(), sp.NRows()))
}

func (ls *LinearSystem[T]) Matrix() *CSRMatrix[T] { return ls.matrix }

func (ls *LinearSystem[T]) RHS() *core.Container[T] { return ls.rhs }

func (ls *LinearSystem[T]) Exec() core.Executor { return ls.rhs.Exec() }

func (ls *LinearSystem[T]) NRows() int { return ls.rhs.Len() }

// Reset zeroes the matrix values and the right hand side, keeping the structure
func (ls *LinearSystem[T]) Reset() {
	core.Fill(ls.matrix.values, 0)
	core.Fill(ls.rhs, 0)
}

type LinearSystemView[T core.Scalar] struct {
	Matrix CSRMatrixView[T]
	RHS    core.View[T]
}

func (ls *LinearSystem[T]) View() LinearSystemView[T] {
	return LinearSystemView[T]{Matrix: ls.matrix.View(), RHS: ls.rhs.View()}
}

func (ls *LinearSystem[T]) CopyToExecutor(dst core.Executor) *LinearSystem[T] {
	return NewLinearSystem(ls.matrix.CopyToExecutor(dst), ls.rhs.CopyToExecutor(dst))
}

func (ls *LinearSystem[T]) CopyToHost() *LinearSystem[T] {
	return ls.CopyToExecutor(core.SerialExecutor{})
}

func (ls *LinearSystem[T]) Free() {
	ls.matrix.Free()
	ls.rhs.Free()
}
