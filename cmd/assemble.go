/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/fvcore/InputParameters"
	"github.com/notargets/fvcore/core"
	"github.com/notargets/fvcore/la"
	"github.com/notargets/fvcore/mesh"
)

// AssembleCmd represents the assemble command
var AssembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble and solve a diffusion system on a mesh",
	Long: `Assemble the two point flux diffusion operator of a mesh through the sparsity
pattern offset maps, then solve it with the configured solver`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			rp   *InputParameters.RunParameters
			exec core.Executor
			m    *mesh.Mesh
		)
		if rp, err = processInput(cmd); err != nil {
			return
		}
		if solver, _ := cmd.Flags().GetString("solver"); cmd.Flags().Changed("solver") {
			rp.Solver = solver
		}
		if exec, err = selectExecutor(rp); err != nil {
			return
		}
		if m, err = rp.Mesh.Build(exec); err != nil {
			return
		}
		defer m.Free()
		_, err = RunAssemble(m, rp)
		return
	},
}

func init() {
	rootCmd.AddCommand(AssembleCmd)
	addInputFlags(AssembleCmd)
	AssembleCmd.Flags().StringP("solver", "s", "jacobi", "solver: diagonal or jacobi")
}

// RunAssemble assembles and solves the diffusion system of m and returns the solution on the host
func RunAssemble(m *mesh.Mesh, rp *InputParameters.RunParameters) (x []float64, err error) {
	var (
		solver la.Solver[float64]
		stats  la.SolverStats
		pc     = la.NewPatternCache()
	)
	defer pc.Clear()
	if solver, err = la.NewSolver[float64](rp.Solver, rp.SolverParams); err != nil {
		return
	}
	sp := pc.ReadOrCreate(m)
	ls := la.NewEmptyLinearSystem[float64](sp)
	defer ls.Free()
	la.AssembleDiffusion(m, sp, ls, rp.Gamma, rp.BoundaryCoeff, rp.BoundaryValue)

	sol := core.NewContainer[float64](m.Exec(), m.NCells())
	defer sol.Free()
	stats, err = solver.Solve(ls, sol)
	stats.Print(solver.Name())
	if err != nil {
		return
	}
	h := sol.CopyToHost()
	defer h.Free()
	x = append([]float64(nil), h.HostSlice()...)
	if len(x) > 0 {
		fmt.Printf("solution: min %g, max %g, L2 %g\n", floats.Min(x), floats.Max(x), floats.Norm(x, 2))
	}
	return
}
