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
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/notargets/fvcore/InputParameters"
	"github.com/notargets/fvcore/core"
	"github.com/notargets/fvcore/la"
	"github.com/notargets/fvcore/mesh"
)

// SparsityCmd represents the sparsity command
var SparsityCmd = &cobra.Command{
	Use:   "sparsity",
	Short: "Build and validate the sparsity pattern of a mesh",
	Long: `Build the CSR sparsity pattern of a mesh on the configured executor, validate
it against the topology and print its statistics`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			rp   *InputParameters.RunParameters
			exec core.Executor
			m    *mesh.Mesh
		)
		if rp, err = processInput(cmd); err != nil {
			return
		}
		if exec, err = selectExecutor(rp); err != nil {
			return
		}
		if m, err = rp.Mesh.Build(exec); err != nil {
			return
		}
		defer m.Free()
		dump, _ := cmd.Flags().GetBool("dump")
		return RunSparsity(m, rp.Repeat, dump)
	},
}

func init() {
	rootCmd.AddCommand(SparsityCmd)
	addInputFlags(SparsityCmd)
	SparsityCmd.Flags().BoolP("dump", "d", false, "print the pattern arrays")
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for run parameters like:\n\t- Executor\n\t- Mesh\n\t- Solver")
	cmd.Flags().IntP("nx", "x", 8, "cells in x for the default cartesian mesh")
	cmd.Flags().IntP("ny", "y", 8, "cells in y for the default cartesian mesh")
	cmd.Flags().IntP("nz", "z", 1, "cells in z for the default cartesian mesh")
	cmd.Flags().IntP("repeat", "r", 1, "number of pattern builds")
}

// processInput reads the run parameters file if one was given, otherwise a
// cartesian mesh is described from the flags
func processInput(cmd *cobra.Command) (rp *InputParameters.RunParameters, err error) {
	var (
		icFile string
		data   []byte
	)
	rp = InputParameters.NewRunParameters()
	if icFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
		return
	}
	if len(icFile) == 0 {
		nx, _ := cmd.Flags().GetInt("nx")
		ny, _ := cmd.Flags().GetInt("ny")
		nz, _ := cmd.Flags().GetInt("nz")
		rp.Mesh = mesh.Description{Type: "cartesian", Dims: []int{nx, ny, nz}}
		rp.Repeat, _ = cmd.Flags().GetInt("repeat")
		return
	}
	if data, err = os.ReadFile(icFile); err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	if err = rp.Parse(data); err != nil {
		return nil, err
	}
	rp.Print()
	return
}

// selectExecutor prefers the executor named in the input file over the configured one
func selectExecutor(rp *InputParameters.RunParameters) (exec core.Executor, err error) {
	if rp.Executor != "" {
		return core.ParseExecutor(rp.Executor)
	}
	var rc *RuntimeConfig
	if rc, err = LoadRuntimeConfig(); err != nil {
		return
	}
	exec = rc.Executor
	return
}

func RunSparsity(m *mesh.Mesh, repeat int, dump bool) (err error) {
	var (
		pc    = la.NewPatternCache()
		sp    *la.SparsityPattern
		start = time.Now()
	)
	defer pc.Clear()
	for r := 0; r < max(repeat, 1); r++ {
		pc.Invalidate(m)
		sp = pc.ReadOrCreate(m)
	}
	elapsed := time.Since(start) / time.Duration(max(repeat, 1))
	if err = sp.Validate(m); err != nil {
		return fmt.Errorf("invalid sparsity pattern: %w", err)
	}
	fmt.Println(m)
	fmt.Printf("%s, max row length %d, built in %v\n", sp, maxRowLength(sp), elapsed)
	if dump {
		h := sp.CopyToHost()
		defer h.Free()
		fmt.Printf("rowOffsets      = %v\n", h.RowOffsets().HostSlice())
		fmt.Printf("colIdxs         = %v\n", h.ColIdxs().HostSlice())
		fmt.Printf("diagOffset      = %v\n", h.DiagOffset().HostSlice())
		fmt.Printf("ownerOffset     = %v\n", h.OwnerOffset().HostSlice())
		fmt.Printf("neighbourOffset = %v\n", h.NeighbourOffset().HostSlice())
	}
	return
}

func maxRowLength(sp *la.SparsityPattern) int {
	if sp.NRows() == 0 {
		return 0
	}
	rowOff := sp.RowOffsets().View()
	return int(core.ParallelReduce(sp.Exec(), 0, sp.NRows(), func(row int, acc *core.LocalIdx) {
		if l := rowOff.At(row+1) - rowOff.At(row); l > *acc {
			*acc = l
		}
	}, core.MaxReducer[core.LocalIdx]()))
}
