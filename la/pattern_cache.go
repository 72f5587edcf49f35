package la

import (
	"github.com/google/uuid"

	"github.com/notargets/fvcore/core"
	"github.com/notargets/fvcore/mesh"
)

// PatternCache keeps one sparsity pattern per mesh, keyed by the mesh's
// identity. It belongs to whoever owns the meshes and is not safe for
// concurrent use.
type PatternCache struct {
	entries map[uuid.UUID]*SparsityPattern
	Builds  int // Number of patterns built so far
}

func NewPatternCache() *PatternCache {
	return &PatternCache{entries: make(map[uuid.UUID]*SparsityPattern)}
}

// ReadOrCreate returns the pattern of m, building it on first use. A pattern
// built from an older revision of the mesh, or for another executor, is freed
// and rebuilt, so matrices created from it must be released first.
func (pc *PatternCache) ReadOrCreate(m *mesh.Mesh) *SparsityPattern {
	if sp, ok := pc.entries[m.ID]; ok {
		if sp.Revision() == m.Revision && core.SameExecutor(sp.Exec(), m.Exec()) {
			return sp
		}
		sp.Free()
	}
	sp := NewSparsityPattern(m)
	pc.entries[m.ID] = sp
	pc.Builds++
	core.CurrentSettings().Logger.Printf("built %s for mesh %s rev %d", sp, m.ID, m.Revision)
	return sp
}

// Invalidate frees and drops the pattern of m, if any
func (pc *PatternCache) Invalidate(m *mesh.Mesh) {
	if sp, ok := pc.entries[m.ID]; ok {
		sp.Free()
		delete(pc.entries, m.ID)
	}
}

func (pc *PatternCache) Len() int { return len(pc.entries) }

// Clear frees every cached pattern
func (pc *PatternCache) Clear() {
	for id, sp := range pc.entries {
		sp.Free()
		delete(pc.entries, id)
	}
}
