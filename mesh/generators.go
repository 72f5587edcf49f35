package mesh

import (
	"fmt"

	"github.com/notargets/fvcore/core"
)

// NewUniform1D is a line of n cells, face i joins cells i and i+1
func NewUniform1D(exec core.Executor, n int) (*Mesh, error) {
	return NewCartesian(exec, n, 1, 1)
}

// NewCartesian builds an nx by ny by nz block of hexahedral cells numbered
// x fastest. Internal faces are ordered by owner, then by neighbour, so the
// face list is upper triangular. Every cell side on the block exterior is a
// boundary face.
func NewCartesian(exec core.Executor, nx, ny, nz int) (m *Mesh, err error) {
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, fmt.Errorf("cartesian block needs at least one cell per direction, have %dx%dx%d", nx, ny, nz)
	}
	var (
		nCells           = nx * ny * nz
		owner, neighbour []core.LocalIdx
		boundary         []core.LocalIdx
		cell             = func(i, j, k int) core.LocalIdx { return core.LocalIdx(i + nx*(j+ny*k)) }
	)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				c := cell(i, j, k)
				if i+1 < nx {
					owner, neighbour = append(owner, c), append(neighbour, cell(i+1, j, k))
				}
				if j+1 < ny {
					owner, neighbour = append(owner, c), append(neighbour, cell(i, j+1, k))
				}
				if k+1 < nz {
					owner, neighbour = append(owner, c), append(neighbour, cell(i, j, k+1))
				}
			}
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				c := cell(i, j, k)
				for _, onEdge := range []bool{i == 0, i == nx-1, j == 0, j == ny-1, k == 0, k == nz-1} {
					if onEdge {
						boundary = append(boundary, c)
					}
				}
			}
		}
	}
	if m, err = NewMesh(exec, nCells, owner, neighbour, boundary); err != nil {
		return
	}
	m.Name = fmt.Sprintf("cartesian %dx%dx%d", nx, ny, nz)
	return
}
