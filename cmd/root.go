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

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/fvcore/core"
)

var (
	cfgFile  string
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fvcore",
	Short: "Parallel execution core and sparsity pattern engine for face based meshes",
	Long: `fvcore builds CSR sparsity patterns and linear systems from face based mesh
topology on a serial, multicore or accelerator executor.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		var rc *RuntimeConfig
		if rc, err = LoadRuntimeConfig(); err != nil {
			return
		}
		core.Initialize(rc.Settings)
		switch rc.Profile {
		case "":
		case "cpu":
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		case "mem":
			profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		default:
			return fmt.Errorf("unknown profile %q, use cpu or mem", rc.Profile)
		}
		return
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
		}
		core.Finalize()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fvcore.yaml)")
	pf.StringP("executor", "e", "serial", "executor: serial, multicore or accelerator")
	pf.Int("threads", 0, "multicore batches, 0 for GOMAXPROCS")
	pf.Int("lanes", 0, "accelerator lanes, 0 for GOMAXPROCS")
	pf.Bool("pinLanes", false, "pin accelerator lanes to CPUs (linux only)")
	pf.String("boundsCheck", "unchecked", "view bounds policy: unchecked, abort or record")
	pf.String("profile", "", "write a cpu or mem profile to the current directory")
	for _, key := range []string{"executor", "threads", "lanes", "pinLanes", "boundsCheck", "profile"} {
		if err := viper.BindPFlag(key, pf.Lookup(key)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".fvcore")
	}
	viper.SetEnvPrefix("FVCORE")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// RuntimeConfig is the runtime part of the configuration, from flags,
// environment and config file in viper's order of precedence
type RuntimeConfig struct {
	Executor core.Executor
	Settings core.Settings
	Profile  string
}

func LoadRuntimeConfig() (rc *RuntimeConfig, err error) {
	rc = &RuntimeConfig{Profile: viper.GetString("profile")}
	if rc.Executor, err = core.ParseExecutor(viper.GetString("executor")); err != nil {
		return nil, err
	}
	rc.Settings = core.Settings{
		Threads:     viper.GetInt("threads"),
		DeviceLanes: viper.GetInt("lanes"),
		PinLanes:    viper.GetBool("pinLanes"),
	}
	if rc.Settings.Bounds, err = core.ParseBoundsPolicy(viper.GetString("boundsCheck")); err != nil {
		return nil, err
	}
	return
}
