package la

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/notargets/fvcore/core"
	"github.com/notargets/fvcore/mesh"
)

// SparsityPattern is the CSR graph of the matrix of a cell centred face
// discretization. Row c holds the diagonal plus one entry per internal face of
// cell c. The offset maps give, per face and per cell, where in its row an
// entry lives, so assembly can write coefficients without searching.
//
// Within a row the entries are the lower ones (column = face owner, in face
// order), then the diagonal, then the upper ones (column = face neighbour, in
// face order). For faces sorted by owner the columns come out ascending.
type SparsityPattern struct {
	exec     core.Executor
	meshID   uuid.UUID
	revision uint64
	nFaces   int

	rowOffsets      *core.Container[core.LocalIdx] // [nCells+1]
	colIdxs         *core.Container[core.LocalIdx] // [nnz]
	ownerOffset     *core.Container[core.LocalIdx] // [nFaces] offset of column neighbour[f] in row owner[f]
	neighbourOffset *core.Container[core.LocalIdx] // [nFaces] offset of column owner[f] in row neighbour[f]
	diagOffset      *core.Container[core.LocalIdx] // [nCells]
}

// NewSparsityPattern builds the pattern of m on the mesh's executor
func NewSparsityPattern(m *mesh.Mesh) (sp *SparsityPattern) {
	sp = &SparsityPattern{exec: m.Exec()}
	sp.Update(m)
	return
}

// NewEmptySparsityPattern allocates an unfilled pattern
func NewEmptySparsityPattern(exec core.Executor, nRows, nnz, nFaces int) *SparsityPattern {
	return &SparsityPattern{
		exec:            exec,
		nFaces:          nFaces,
		rowOffsets:      core.NewContainer[core.LocalIdx](exec, nRows+1),
		colIdxs:         core.NewContainer[core.LocalIdx](exec, nnz),
		ownerOffset:     core.NewContainer[core.LocalIdx](exec, nFaces),
		neighbourOffset: core.NewContainer[core.LocalIdx](exec, nFaces),
		diagOffset:      core.NewContainer[core.LocalIdx](exec, nRows),
	}
}

// Update rebuilds the whole pattern from the topology of m. There is no
// incremental path, any topology change means a full rebuild.
func (sp *SparsityPattern) Update(m *mesh.Mesh) {
	if !core.SameExecutor(sp.exec, m.Exec()) {
		panic(fmt.Sprintf("sparsity pattern on %s cannot be built from a mesh on %s",
			sp.exec.Name(), m.Exec().Name()))
	}
	sp.Free()
	var (
		exec      = sp.exec
		nCells    = m.NCells()
		nFaces    = m.NInternalFaces()
		owner     = m.FaceOwner().View()
		neighbour = m.FaceNeighbour().View()
	)
	sp.meshID, sp.revision, sp.nFaces = m.ID, m.Revision, nFaces

	// Row lengths: the diagonal plus one entry per face touching the cell
	nFacesPerCell := core.NewContainerWith[core.LocalIdx](exec, nCells, 1)
	defer nFacesPerCell.Free()
	count := nFacesPerCell.View()
	core.ParallelFor(exec, 0, nFaces, func(f int) {
		core.AtomicAdd(count, int(owner.At(f)), 1)
		core.AtomicAdd(count, int(neighbour.At(f)), 1)
	})

	sp.rowOffsets = core.NewContainer[core.LocalIdx](exec, nCells+1)
	nnz := int(core.SegmentsFromIntervals(nFacesPerCell, sp.rowOffsets))

	sp.colIdxs = core.NewContainer[core.LocalIdx](exec, nnz)
	sp.ownerOffset = core.NewContainer[core.LocalIdx](exec, nFaces)
	sp.neighbourOffset = core.NewContainer[core.LocalIdx](exec, nFaces)
	sp.diagOffset = core.NewContainer[core.LocalIdx](exec, nCells)
	// Face that claimed each off diagonal slot
	faceAtSlot := core.NewContainerWith[core.LocalIdx](exec, nnz, -1)
	defer faceAtSlot.Free()

	var (
		rowOff    = sp.rowOffsets.View()
		cols      = sp.colIdxs.View()
		ownOff    = sp.ownerOffset.View()
		nbrOff    = sp.neighbourOffset.View()
		diag      = sp.diagOffset.View()
		slotFaces = faceAtSlot.View()
	)
	core.Fill(nFacesPerCell, 0)

	// Lower entries, the owner column in the neighbour's row
	core.ParallelFor(exec, 0, nFaces, func(f int) {
		nb := int(neighbour.At(f))
		local := core.AtomicFetchAdd(count, nb, 1)
		nbrOff.Set(f, local)
		slot := int(rowOff.At(nb) + local)
		cols.Set(slot, owner.At(f))
		slotFaces.Set(slot, core.LocalIdx(f))
	})

	// Diagonal, each cell touches only its own counter
	core.ParallelFor(exec, 0, nCells, func(c int) {
		local := count.At(c)
		diag.Set(c, local)
		cols.Set(int(rowOff.At(c)+local), core.LocalIdx(c))
		count.Set(c, local+1)
	})

	// Upper entries, the neighbour column in the owner's row
	core.ParallelFor(exec, 0, nFaces, func(f int) {
		o := int(owner.At(f))
		local := core.AtomicFetchAdd(count, o, 1)
		ownOff.Set(f, local)
		slot := int(rowOff.At(o) + local)
		cols.Set(slot, neighbour.At(f))
		slotFaces.Set(slot, core.LocalIdx(f))
	})

	// serial builds claim slots in face order already
	if !core.Ordered(exec) {
		sp.canonicalize(owner, neighbour, slotFaces)
	}
	core.Fence(exec)
}

// canonicalize orders the lower and upper entries of every row by face id,
// which is the order a serial build produces. A row only rewrites its own
// slots and the offsets of the faces that claimed them, and each face offset
// belongs to exactly one row.
func (sp *SparsityPattern) canonicalize(owner, neighbour, slotFaces core.View[core.LocalIdx]) {
	var (
		rowOff = sp.rowOffsets.View()
		cols   = sp.colIdxs.View()
		ownOff = sp.ownerOffset.View()
		nbrOff = sp.neighbourOffset.View()
		diag   = sp.diagOffset.View()
	)
	sortFaces := func(lo, hi int) {
		for i := lo + 1; i < hi; i++ {
			f := slotFaces.At(i)
			j := i - 1
			for ; j >= lo && slotFaces.At(j) > f; j-- {
				slotFaces.Set(j+1, slotFaces.At(j))
			}
			slotFaces.Set(j+1, f)
		}
	}
	core.ParallelFor(sp.exec, 0, sp.NRows(), func(c int) {
		var (
			start = int(rowOff.At(c))
			d     = start + int(diag.At(c))
			end   = int(rowOff.At(c + 1))
		)
		sortFaces(start, d)
		sortFaces(d+1, end)
		for s := start; s < d; s++ {
			f := int(slotFaces.At(s))
			cols.Set(s, owner.At(f))
			nbrOff.Set(f, core.LocalIdx(s-start))
		}
		for s := d + 1; s < end; s++ {
			f := int(slotFaces.At(s))
			cols.Set(s, neighbour.At(f))
			ownOff.Set(f, core.LocalIdx(s-start))
		}
	})
}

func (sp *SparsityPattern) Exec() core.Executor { return sp.exec }

// MeshID and Revision identify the topology the pattern was built from
func (sp *SparsityPattern) MeshID() uuid.UUID { return sp.meshID }
func (sp *SparsityPattern) Revision() uint64  { return sp.revision }

func (sp *SparsityPattern) NRows() int {
	if sp.rowOffsets == nil || sp.rowOffsets.Len() == 0 {
		return 0
	}
	return sp.rowOffsets.Len() - 1
}

func (sp *SparsityPattern) NNZ() int {
	if sp.colIdxs == nil {
		return 0
	}
	return sp.colIdxs.Len()
}

func (sp *SparsityPattern) NFaces() int { return sp.nFaces }

func (sp *SparsityPattern) RowOffsets() *core.Container[core.LocalIdx]      { return sp.rowOffsets }
func (sp *SparsityPattern) ColIdxs() *core.Container[core.LocalIdx]         { return sp.colIdxs }
func (sp *SparsityPattern) OwnerOffset() *core.Container[core.LocalIdx]     { return sp.ownerOffset }
func (sp *SparsityPattern) NeighbourOffset() *core.Container[core.LocalIdx] { return sp.neighbourOffset }
func (sp *SparsityPattern) DiagOffset() *core.Container[core.LocalIdx]      { return sp.diagOffset }

func (sp *SparsityPattern) containers() []*core.Container[core.LocalIdx] {
	return []*core.Container[core.LocalIdx]{sp.rowOffsets, sp.colIdxs, sp.ownerOffset, sp.neighbourOffset, sp.diagOffset}
}

// CopyToExecutor returns an independent copy on dst
func (sp *SparsityPattern) CopyToExecutor(dst core.Executor) *SparsityPattern {
	return &SparsityPattern{
		exec:            dst,
		meshID:          sp.meshID,
		revision:        sp.revision,
		nFaces:          sp.nFaces,
		rowOffsets:      sp.rowOffsets.CopyToExecutor(dst),
		colIdxs:         sp.colIdxs.CopyToExecutor(dst),
		ownerOffset:     sp.ownerOffset.CopyToExecutor(dst),
		neighbourOffset: sp.neighbourOffset.CopyToExecutor(dst),
		diagOffset:      sp.diagOffset.CopyToExecutor(dst),
	}
}

func (sp *SparsityPattern) CopyToHost() *SparsityPattern {
	return sp.CopyToExecutor(core.SerialExecutor{})
}

// Free releases the pattern. Matrices sharing its structure must not be used afterwards.
func (sp *SparsityPattern) Free() {
	for _, c := range sp.containers() {
		if c != nil {
			c.Free()
		}
	}
}

// Equal compares the structure of two patterns, which may live on different executors
func (sp *SparsityPattern) Equal(other *SparsityPattern) bool {
	a, b := sp.containers(), other.containers()
	for i := range a {
		if !core.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Validate checks the pattern against the topology it was built from
func (sp *SparsityPattern) Validate(m *mesh.Mesh) error {
	h := sp.CopyToHost()
	defer h.Free()
	var (
		nCells    = m.NCells()
		nFaces    = m.NInternalFaces()
		rowOff    = h.rowOffsets.HostSlice()
		cols      = h.colIdxs.HostSlice()
		ownOff    = h.ownerOffset.HostSlice()
		nbrOff    = h.neighbourOffset.HostSlice()
		diag      = h.diagOffset.HostSlice()
		ho        = m.FaceOwner().CopyToHost()
		hn        = m.FaceNeighbour().CopyToHost()
		owner     = ho.HostSlice()
		neighbour = hn.HostSlice()
	)
	defer ho.Free()
	defer hn.Free()
	if len(rowOff) != nCells+1 {
		return fmt.Errorf("rowOffsets has %d entries, want %d", len(rowOff), nCells+1)
	}
	if rowOff[0] != 0 {
		return fmt.Errorf("rowOffsets[0] = %d, want 0", rowOff[0])
	}
	if nnz := nCells + 2*nFaces; len(cols) != nnz || int(rowOff[nCells]) != nnz {
		return fmt.Errorf("nnz mismatch: rowOffsets[n] = %d, len(colIdxs) = %d, want %d",
			rowOff[nCells], len(cols), nnz)
	}
	if len(diag) != nCells || len(ownOff) != nFaces || len(nbrOff) != nFaces {
		return fmt.Errorf("offset map sizes (%d, %d, %d) do not match %d cells and %d faces",
			len(diag), len(ownOff), len(nbrOff), nCells, nFaces)
	}
	rowLen := func(c int) int { return int(rowOff[c+1] - rowOff[c]) }
	for c := 0; c < nCells; c++ {
		if rowOff[c+1] < rowOff[c] {
			return fmt.Errorf("rowOffsets decrease at row %d", c)
		}
		if int(diag[c]) < 0 || int(diag[c]) >= rowLen(c) {
			return fmt.Errorf("diagOffset[%d] = %d outside row of length %d", c, diag[c], rowLen(c))
		}
		var nDiag int
		for s := rowOff[c]; s < rowOff[c+1]; s++ {
			if int(cols[s]) == c {
				nDiag++
			}
		}
		if nDiag != 1 || int(cols[int(rowOff[c])+int(diag[c])]) != c {
			return fmt.Errorf("row %d does not hold exactly one diagonal at offset %d", c, diag[c])
		}
	}
	for f := 0; f < nFaces; f++ {
		o, n := int(owner[f]), int(neighbour[f])
		if int(ownOff[f]) < 0 || int(ownOff[f]) >= rowLen(o) || cols[int(rowOff[o])+int(ownOff[f])] != neighbour[f] {
			return fmt.Errorf("face %d: ownerOffset %d does not locate column %d in row %d", f, ownOff[f], n, o)
		}
		if int(nbrOff[f]) < 0 || int(nbrOff[f]) >= rowLen(n) || cols[int(rowOff[n])+int(nbrOff[f])] != owner[f] {
			return fmt.Errorf("face %d: neighbourOffset %d does not locate column %d in row %d", f, nbrOff[f], o, n)
		}
	}
	return nil
}

func (sp *SparsityPattern) String() string {
	return fmt.Sprintf("sparsity pattern on %s: %d rows, %d faces, nnz %d", sp.exec.Name(), sp.NRows(), sp.nFaces, sp.NNZ())
}
