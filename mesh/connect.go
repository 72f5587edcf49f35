package mesh

import (
	"fmt"
	"sort"

	"github.com/notargets/fvcore/core"
)

// Local face to vertex tables
var (
	TriFaceVertices = [][]int{{0, 1}, {1, 2}, {2, 0}}
	TetFaceVertices = [][]int{{0, 1, 2}, {0, 1, 3}, {1, 2, 3}, {0, 2, 3}}
)

// Connect matches element faces by their sorted vertex lists and returns the
// element to element and element to face connectivity. Boundary faces stay
// self connected, EToE[k][f] = k and EToF[k][f] = f.
func Connect(EToV [][]int, faceVertices [][]int) (EToE, EToF [][]int) {
	type face struct {
		key     string
		elem    int
		faceNum int
	}
	var (
		K      = len(EToV)
		Nfaces = len(faceVertices)
		faces  = make([]face, 0, K*Nfaces)
	)
	for k := 0; k < K; k++ {
		for f := 0; f < Nfaces; f++ {
			nodes := make([]int, len(faceVertices[f]))
			for i, lv := range faceVertices[f] {
				nodes[i] = EToV[k][lv]
			}
			sort.Ints(nodes)
			faces = append(faces, face{key: fmt.Sprint(nodes), elem: k, faceNum: f})
		}
	}
	sort.SliceStable(faces, func(i, j int) bool { return faces[i].key < faces[j].key })

	EToE = make([][]int, K)
	EToF = make([][]int, K)
	for k := 0; k < K; k++ {
		EToE[k] = make([]int, Nfaces)
		EToF[k] = make([]int, Nfaces)
		for f := 0; f < Nfaces; f++ {
			EToE[k][f] = k
			EToF[k][f] = f
		}
	}
	for i := 0; i < len(faces)-1; i++ {
		if faces[i].key == faces[i+1].key {
			e1, f1 := faces[i].elem, faces[i].faceNum
			e2, f2 := faces[i+1].elem, faces[i+1].faceNum
			EToE[e1][f1], EToF[e1][f1] = e2, f2
			EToE[e2][f2], EToF[e2][f2] = e1, f1
		}
	}
	return
}

// FromConnectivity derives the face topology from element to element
// connectivity. A neighbour of -1, or the element itself, marks a boundary
// face. Each shared face becomes one internal face owned by the lower
// numbered element, faces are ordered by owner then neighbour.
func FromConnectivity(exec core.Executor, EToE [][]int) (m *Mesh, err error) {
	var (
		nCells           = len(EToE)
		owner, neighbour []core.LocalIdx
		boundary         []core.LocalIdx
	)
	for k, nbrs := range EToE {
		upper := make([]int, 0, len(nbrs))
		for _, nbr := range nbrs {
			switch {
			case nbr == -1 || nbr == k:
				boundary = append(boundary, core.LocalIdx(k))
			case nbr < 0 || nbr >= nCells:
				return nil, fmt.Errorf("element %d has neighbour %d, outside [0,%d)", k, nbr, nCells)
			case nbr > k:
				upper = append(upper, nbr)
			}
		}
		sort.Ints(upper)
		for _, nbr := range upper {
			owner = append(owner, core.LocalIdx(k))
			neighbour = append(neighbour, core.LocalIdx(nbr))
		}
	}
	return NewMesh(exec, nCells, owner, neighbour, boundary)
}

// FromElements builds the face topology of a simplex mesh from its element
// to vertex connectivity
func FromElements(exec core.Executor, EToV [][]int, faceVertices [][]int) (*Mesh, error) {
	var nVerts int
	for _, fv := range faceVertices {
		for _, lv := range fv {
			nVerts = max(nVerts, lv+1)
		}
	}
	for k, elem := range EToV {
		if len(elem) < nVerts {
			return nil, fmt.Errorf("element %d has %d vertices, need %d", k, len(elem), nVerts)
		}
	}
	EToE, _ := Connect(EToV, faceVertices)
	return FromConnectivity(exec, EToE)
}
