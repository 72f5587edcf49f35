package mesh

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/notargets/fvcore/core"
)

// Mesh is the face based topology of an unstructured mesh. Internal faces
// join an owner and a neighbour cell, boundary faces touch a single cell.
// Cell and face ids are 0-based.
type Mesh struct {
	ID       uuid.UUID // Stable identity, survives topology replacement
	Revision uint64    // Incremented every time the topology is replaced
	Name     string

	exec          core.Executor
	nCells        int
	faceOwner     *core.Container[core.LocalIdx]
	faceNeighbour *core.Container[core.LocalIdx]
	boundaryCells *core.Container[core.LocalIdx]
}

// NewMesh validates the topology on the host and copies it to exec
func NewMesh(exec core.Executor, nCells int, owner, neighbour, boundary []core.LocalIdx) (m *Mesh, err error) {
	m = &Mesh{ID: uuid.New(), exec: exec}
	if err = m.ReplaceTopology(nCells, owner, neighbour, boundary); err != nil {
		return nil, err
	}
	return
}

// ReplaceTopology swaps in new connectivity. Anything derived from the old
// topology is stale once Revision changes.
func (m *Mesh) ReplaceTopology(nCells int, owner, neighbour, boundary []core.LocalIdx) (err error) {
	if err = validate(nCells, owner, neighbour, boundary); err != nil {
		return
	}
	m.free()
	m.nCells = nCells
	m.faceOwner = core.NewContainerFromHost(m.exec, owner)
	m.faceNeighbour = core.NewContainerFromHost(m.exec, neighbour)
	m.boundaryCells = core.NewContainerFromHost(m.exec, boundary)
	m.Revision++
	return
}

func validate(nCells int, owner, neighbour, boundary []core.LocalIdx) error {
	if nCells < 0 {
		return fmt.Errorf("negative cell count %d", nCells)
	}
	if len(owner) != len(neighbour) {
		return fmt.Errorf("face owner and neighbour lengths differ: %d != %d", len(owner), len(neighbour))
	}
	inRange := func(c core.LocalIdx) bool { return c >= 0 && int(c) < nCells }
	for f := range owner {
		o, n := owner[f], neighbour[f]
		if !inRange(o) || !inRange(n) {
			return fmt.Errorf("internal face %d joins cells (%d, %d), outside [0,%d)", f, o, n, nCells)
		}
		if o == n {
			return fmt.Errorf("internal face %d joins cell %d to itself", f, o)
		}
	}
	for f, c := range boundary {
		if !inRange(c) {
			return fmt.Errorf("boundary face %d on cell %d, outside [0,%d)", f, c, nCells)
		}
	}
	return nil
}

func (m *Mesh) Exec() core.Executor { return m.exec }

func (m *Mesh) NCells() int { return m.nCells }

func (m *Mesh) NInternalFaces() int { return m.faceOwner.Len() }

func (m *Mesh) NBoundaryFaces() int { return m.boundaryCells.Len() }

func (m *Mesh) FaceOwner() *core.Container[core.LocalIdx] { return m.faceOwner }

func (m *Mesh) FaceNeighbour() *core.Container[core.LocalIdx] { return m.faceNeighbour }

// BoundaryCells holds the cell of every boundary face
func (m *Mesh) BoundaryCells() *core.Container[core.LocalIdx] { return m.boundaryCells }

// CopyToExecutor returns a mesh with the same identity and revision on dst
func (m *Mesh) CopyToExecutor(dst core.Executor) *Mesh {
	return &Mesh{
		ID:            m.ID,
		Revision:      m.Revision,
		Name:          m.Name,
		exec:          dst,
		nCells:        m.nCells,
		faceOwner:     m.faceOwner.CopyToExecutor(dst),
		faceNeighbour: m.faceNeighbour.CopyToExecutor(dst),
		boundaryCells: m.boundaryCells.CopyToExecutor(dst),
	}
}

func (m *Mesh) Free() {
	m.free()
	m.nCells = 0
}

func (m *Mesh) free() {
	for _, c := range []*core.Container[core.LocalIdx]{m.faceOwner, m.faceNeighbour, m.boundaryCells} {
		if c != nil {
			c.Free()
		}
	}
}

func (m *Mesh) String() string {
	return fmt.Sprintf("mesh %q [%s rev %d]: %d cells, %d internal faces, %d boundary faces on %s",
		m.Name, m.ID, m.Revision, m.nCells, m.NInternalFaces(), m.NBoundaryFaces(), m.exec.Name())
}
