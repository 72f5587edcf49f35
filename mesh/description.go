package mesh

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/fvcore/core"
)

// Description is a small YAML form of a topology, for tests and the command line.
//
//	Type: faces        # uniform1d, cartesian, faces, connectivity, triangles, tetrahedra
//	Dims: [4, 3, 1]    # cells per direction for uniform1d and cartesian
//	NCells: 3
//	Owner: [0, 1]
//	Neighbour: [1, 2]
//	Boundary: [0, 2]
//	EToE: [[-1, 1], [0, 2], [1, -1]]
//	EToV: [[0, 1, 2], [1, 3, 2]]
type Description struct {
	Type      string          `json:"Type"`
	Name      string          `json:"Name,omitempty"`
	Dims      []int           `json:"Dims,omitempty"`
	NCells    int             `json:"NCells,omitempty"`
	Owner     []core.LocalIdx `json:"Owner,omitempty"`
	Neighbour []core.LocalIdx `json:"Neighbour,omitempty"`
	Boundary  []core.LocalIdx `json:"Boundary,omitempty"`
	EToE      [][]int         `json:"EToE,omitempty"`
	EToV      [][]int         `json:"EToV,omitempty"`
}

func ParseDescription(data []byte) (d *Description, err error) {
	d = &Description{}
	if err = yaml.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("parsing mesh description: %w", err)
	}
	return
}

// Build creates the described mesh on exec
func (d *Description) Build(exec core.Executor) (m *Mesh, err error) {
	dim := func(i int) int {
		if i < len(d.Dims) {
			return d.Dims[i]
		}
		return 1
	}
	switch strings.ToLower(d.Type) {
	case "uniform1d", "line":
		m, err = NewUniform1D(exec, dim(0))
	case "cartesian", "block":
		m, err = NewCartesian(exec, dim(0), dim(1), dim(2))
	case "faces", "":
		m, err = NewMesh(exec, d.NCells, d.Owner, d.Neighbour, d.Boundary)
	case "connectivity", "etoe":
		m, err = FromConnectivity(exec, d.EToE)
	case "triangles":
		m, err = FromElements(exec, d.EToV, TriFaceVertices)
	case "tetrahedra":
		m, err = FromElements(exec, d.EToV, TetFaceVertices)
	default:
		err = fmt.Errorf("unknown mesh type %q", d.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("building %s mesh: %w", d.Type, err)
	}
	if d.Name != "" {
		m.Name = d.Name
	}
	return
}
