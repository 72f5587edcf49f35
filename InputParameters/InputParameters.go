package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/fvcore/la"
	"github.com/notargets/fvcore/mesh"
)

// Parameters obtained from the YAML input file
type RunParameters struct {
	Title         string              `json:"Title"`
	Executor      string              `json:"Executor"`
	Mesh          mesh.Description    `json:"Mesh"`
	Solver        string              `json:"Solver"`
	SolverParams  la.SolverParameters `json:"SolverParameters"`
	Gamma         float64             `json:"Gamma"`         // Face coupling coefficient
	BoundaryCoeff float64             `json:"BoundaryCoeff"` // Boundary face diagonal contribution
	BoundaryValue float64             `json:"BoundaryValue"`
	Repeat        int                 `json:"Repeat"` // Number of times the pattern build is repeated
}

func NewRunParameters() *RunParameters {
	return &RunParameters{
		Title:         "unnamed",
		Mesh:          mesh.Description{Type: "cartesian", Dims: []int{8, 8, 1}},
		Solver:        "jacobi",
		SolverParams:  la.SolverParameters{Tolerance: 1e-8, MaxIterations: 1000},
		Gamma:         1,
		BoundaryCoeff: 2,
		BoundaryValue: 1,
		Repeat:        1,
	}
}

// Parse overlays the YAML in data on the receiver
func (rp *RunParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, rp); err != nil {
		return fmt.Errorf("parsing run parameters: %w", err)
	}
	if rp.Repeat < 1 {
		rp.Repeat = 1
	}
	return
}

func (rp *RunParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", rp.Title)
	fmt.Printf("[%s]\t\t= Executor\n", rp.Executor)
	fmt.Printf("[%s] %v\t= Mesh\n", rp.Mesh.Type, rp.Mesh.Dims)
	fmt.Printf("[%s]\t\t= Solver\n", rp.Solver)
	fmt.Printf("%8.2e\t\t= Tolerance\n", rp.SolverParams.Tolerance)
	fmt.Printf("[%d]\t\t\t= Max Iterations\n", rp.SolverParams.MaxIterations)
	fmt.Printf("%8.5f\t\t= Gamma\n", rp.Gamma)
	fmt.Printf("%8.5f\t\t= Boundary Coefficient\n", rp.BoundaryCoeff)
	fmt.Printf("%8.5f\t\t= Boundary Value\n", rp.BoundaryValue)
	fmt.Printf("[%d]\t\t\t= Repeat\n", rp.Repeat)
}
