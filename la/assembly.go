package la

import (
	"fmt"

	"github.com/notargets/fvcore/core"
	"github.com/notargets/fvcore/mesh"
)

// AssembleDiffusion fills ls with the two point flux diffusion operator of m:
// every internal face couples its cells with coefficient gamma, every boundary
// face adds boundaryCoeff to its cell's diagonal and boundaryCoeff*boundaryValue
// to the right hand side. All writes go through the pattern's offset maps.
func AssembleDiffusion[T core.Scalar](m *mesh.Mesh, sp *SparsityPattern, ls *LinearSystem[T], gamma, boundaryCoeff, boundaryValue T) {
	if sp.MeshID() != m.ID || sp.Revision() != m.Revision {
		panic(fmt.Sprintf("pattern was built for mesh %s rev %d, not %s rev %d",
			sp.MeshID(), sp.Revision(), m.ID, m.Revision))
	}
	if !core.SameExecutor(m.Exec(), ls.Exec()) {
		panic(fmt.Sprintf("assembly: mesh on %s, system on %s", m.Exec().Name(), ls.Exec().Name()))
	}
	if !matchesPattern(sp, ls.Matrix()) {
		panic(fmt.Sprintf("assembly: system (%d rows, %d nnz) was not built on pattern %s",
			ls.NRows(), ls.Matrix().NNZ(), sp))
	}
	ls.Reset()
	var (
		exec      = ls.Exec()
		sys       = ls.View()
		mv        = sys.Matrix
		owner     = m.FaceOwner().View()
		neighbour = m.FaceNeighbour().View()
		bCells    = m.BoundaryCells().View()
		ownOff    = sp.OwnerOffset().View()
		nbrOff    = sp.NeighbourOffset().View()
		diag      = sp.DiagOffset().View()
	)
	diagPos := func(c int) int { return mv.RowStart(c) + int(diag.At(c)) }
	core.ParallelFor(exec, 0, m.NInternalFaces(), func(f int) {
		o, n := int(owner.At(f)), int(neighbour.At(f))
		mv.Values.Set(mv.RowStart(o)+int(ownOff.At(f)), -gamma)
		mv.Values.Set(mv.RowStart(n)+int(nbrOff.At(f)), -gamma)
		mv.AddAt(diagPos(o), gamma)
		mv.AddAt(diagPos(n), gamma)
	})
	core.ParallelFor(exec, 0, m.NBoundaryFaces(), func(b int) {
		c := int(bCells.At(b))
		mv.AddAt(diagPos(c), boundaryCoeff)
		core.AtomicAddScalar(sys.RHS, c, boundaryCoeff*boundaryValue)
	})
	core.Fence(exec)
}

// matchesPattern reports whether A has the structure of sp, either shared or
// as an equal copy
func matchesPattern[T core.Scalar](sp *SparsityPattern, A *CSRMatrix[T]) bool {
	if A.ColIdxs() == sp.ColIdxs() && A.RowOffsets() == sp.RowOffsets() {
		return true
	}
	if A.NRows() != sp.NRows() || A.NNZ() != sp.NNZ() {
		return false
	}
	return core.Equal(A.RowOffsets(), sp.RowOffsets()) && core.Equal(A.ColIdxs(), sp.ColIdxs())
}
