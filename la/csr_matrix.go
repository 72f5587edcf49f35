package la

import (
	"fmt"

	"github.com/notargets/fvcore/core"
)

// CSRMatrix holds values in compressed sparse row form. Matrices created from
// a SparsityPattern share its column and row structure and only own their
// values.
type CSRMatrix[T core.Scalar] struct {
	values        *core.Container[T]
	colIdxs       *core.Container[core.LocalIdx]
	rowOffsets    *core.Container[core.LocalIdx]
	ownsStructure bool
}

// NewCSRMatrix takes ownership of the three containers, which must share one executor
func NewCSRMatrix[T core.Scalar](values *core.Container[T], colIdxs, rowOffsets *core.Container[core.LocalIdx]) *CSRMatrix[T] {
	checkStructure(values, colIdxs, rowOffsets)
	return &CSRMatrix[T]{values: values, colIdxs: colIdxs, rowOffsets: rowOffsets, ownsStructure: true}
}

// NewCSRMatrixFromHost copies host arrays to exec
func NewCSRMatrixFromHost[T core.Scalar](exec core.Executor, values []T, colIdxs, rowOffsets []core.LocalIdx) *CSRMatrix[T] {
	return NewCSRMatrix(
		core.NewContainerFromHost(exec, values),
		core.NewContainerFromHost(exec, colIdxs),
		core.NewContainerFromHost(exec, rowOffsets))
}

// NewCSRMatrixFromPattern returns a zero matrix with the structure of sp
func NewCSRMatrixFromPattern[T core.Scalar](sp *SparsityPattern) *CSRMatrix[T] {
	values := core.NewContainer[T](sp.Exec(), sp.NNZ())
	checkStructure(values, sp.ColIdxs(), sp.RowOffsets())
	return &CSRMatrix[T]{values: values, colIdxs: sp.ColIdxs(), rowOffsets: sp.RowOffsets()}
}

func checkStructure[T any](values *core.Container[T], colIdxs, rowOffsets *core.Container[core.LocalIdx]) {
	exec := values.Exec()
	if !core.SameExecutor(exec, colIdxs.Exec()) || !core.SameExecutor(exec, rowOffsets.Exec()) {
		panic(fmt.Sprintf("CSR matrix components on different executors: values %s, colIdxs %s, rowOffsets %s",
			exec.Name(), colIdxs.Exec().Name(), rowOffsets.Exec().Name()))
	}
	if values.Len() != colIdxs.Len() {
		panic(fmt.Sprintf("CSR matrix has %d values but %d column indices", values.Len(), colIdxs.Len()))
	}
	if rowOffsets.Len() == 0 {
		panic("CSR matrix needs at least one row offset")
	}
}

func (m *CSRMatrix[T]) Exec() core.Executor { return m.values.Exec() }

func (m *CSRMatrix[T]) NRows() int { return m.rowOffsets.Len() - 1 }

func (m *CSRMatrix[T]) NNZ() int { return m.values.Len() }

func (m *CSRMatrix[T]) Values() *core.Container[T]                 { return m.values }
func (m *CSRMatrix[T]) ColIdxs() *core.Container[core.LocalIdx]    { return m.colIdxs }
func (m *CSRMatrix[T]) RowOffsets() *core.Container[core.LocalIdx] { return m.rowOffsets }

func (m *CSRMatrix[T]) View() CSRMatrixView[T] {
	return CSRMatrixView[T]{
		Values:     m.values.View(),
		ColIdxs:    m.colIdxs.View(),
		RowOffsets: m.rowOffsets.View(),
	}
}

// Entry reads one value on the host. Reaching for a position outside the
// pattern is a programming error and panics.
func (m *CSRMatrix[T]) Entry(row, col int) T {
	h := m.CopyToHost()
	defer h.Free()
	return h.View().Entry(row, col)
}

// CopyToExecutor returns an independent copy on dst that owns its structure
func (m *CSRMatrix[T]) CopyToExecutor(dst core.Executor) *CSRMatrix[T] {
	return NewCSRMatrix(
		m.values.CopyToExecutor(dst),
		m.colIdxs.CopyToExecutor(dst),
		m.rowOffsets.CopyToExecutor(dst))
}

func (m *CSRMatrix[T]) CopyToHost() *CSRMatrix[T] {
	return m.CopyToExecutor(core.SerialExecutor{})
}

// Free releases the values, and the structure when the matrix owns it
func (m *CSRMatrix[T]) Free() {
	m.values.Free()
	if m.ownsStructure {
		m.colIdxs.Free()
		m.rowOffsets.Free()
	}
}

// CSRMatrixView is the kernel side form of a CSRMatrix
type CSRMatrixView[T core.Scalar] struct {
	Values     core.View[T]
	ColIdxs    core.View[core.LocalIdx]
	RowOffsets core.View[core.LocalIdx]
}

// Offset returns the position in Values of (row, col). Rows are scanned
// linearly and need not be sorted.
func (v CSRMatrixView[T]) Offset(row, col int) int {
	for s := int(v.RowOffsets.At(row)); s < int(v.RowOffsets.At(row+1)); s++ {
		if int(v.ColIdxs.At(s)) == col {
			return s
		}
	}
	panic(fmt.Sprintf("memory not allocated for CSR matrix component (%d, %d)", row, col))
}

func (v CSRMatrixView[T]) Entry(row, col int) T {
	return v.Values.At(v.Offset(row, col))
}

func (v CSRMatrixView[T]) SetEntry(row, col int, x T) {
	v.Values.Set(v.Offset(row, col), x)
}

// AddAt adds x to the value at a position in Values, atomically
func (v CSRMatrixView[T]) AddAt(pos int, x T) {
	core.AtomicAddScalar(v.Values, pos, x)
}

// RowStart returns the position of the first entry of row
func (v CSRMatrixView[T]) RowStart(row int) int {
	return int(v.RowOffsets.At(row))
}
