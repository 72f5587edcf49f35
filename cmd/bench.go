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
	"time"

	"github.com/spf13/cobra"

	"github.com/notargets/fvcore/core"
	"github.com/notargets/fvcore/la"
	"github.com/notargets/fvcore/mesh"
)

// BenchCmd represents the bench command
var BenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time sparsity pattern builds on every executor",
	Long: `Build the sparsity pattern of one mesh on the serial, multicore and accelerator
executors, check that all three agree and report the build times`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		rp, err := processInput(cmd)
		if err != nil {
			return
		}
		m, err := rp.Mesh.Build(core.SerialExecutor{})
		if err != nil {
			return
		}
		defer m.Free()
		perf, _ := cmd.Flags().GetBool("perf")
		_, err = RunBench(m, rp.Repeat, perf)
		return
	},
}

func init() {
	rootCmd.AddCommand(BenchCmd)
	addInputFlags(BenchCmd)
	BenchCmd.Flags().Bool("perf", false, "count instructions retired by the host thread (linux only)")
}

type BenchResult struct {
	Executor     core.Executor
	Build        time.Duration // Average over the repeats
	Instructions uint64
}

// RunBench builds the pattern of m on every executor and fails if any differs from the serial one
func RunBench(m *mesh.Mesh, repeat int, perf bool) (results []BenchResult, err error) {
	repeat = max(repeat, 1)
	reference := la.NewSparsityPattern(m)
	defer reference.Free()
	fmt.Println(m)
	for _, exec := range core.Executors() {
		var (
			em  = m.CopyToExecutor(exec)
			sp  *la.SparsityPattern
			res = BenchResult{Executor: exec}
		)
		start := time.Now()
		for r := 0; r < repeat; r++ {
			if sp != nil {
				sp.Free()
			}
			sp = la.NewSparsityPattern(em)
		}
		res.Build = time.Since(start) / time.Duration(repeat)
		if perf {
			if res.Instructions, err = countInstructions(func() error {
				la.NewSparsityPattern(em).Free()
				return nil
			}); err != nil {
				return nil, fmt.Errorf("perf counters: %w", err)
			}
		}
		same := reference.Equal(sp)
		sp.Free()
		em.Free()
		if !same {
			return nil, fmt.Errorf("pattern built on %s differs from the serial pattern", exec.Name())
		}
		fmt.Printf("%-16s build %12v", exec.Name(), res.Build)
		if perf {
			fmt.Printf("  instructions %d", res.Instructions)
		}
		fmt.Println()
		results = append(results, res)
	}
	return
}
