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
	"context"
	"fmt"
	"os"

	"github.com/periodicmedia/guidewave/InputParameters"
	"github.com/periodicmedia/guidewave/floquet"
	"github.com/periodicmedia/guidewave/halfguide"
	"github.com/periodicmedia/guidewave/mesh"
	"github.com/spf13/cobra"
)

// FloquetCmd represents the floquet command
var FloquetCmd = &cobra.Command{
	Use:   "floquet",
	Short: "Runs the Bloch wavenumber batch and the Floquet reconstruction",
	Long: `
Fans the half-guide solves at each Bloch wavenumber out over the local
CPUs, persists one sample artifact per wavenumber, then inverts the
Floquet-Bloch transform into the field over the requested cells,

guidewave floquet -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err    error
			ipFile string
		)
		fmt.Println("floquet called")
		if ipFile, err = cmd.Flags().GetString("inputFile"); err != nil {
			panic(err)
		}
		sp := processInput(ipFile)
		if m, _ := cmd.Flags().GetInt("nSamples"); m > 0 {
			sp.NFloquet = m
		}
		if dir, _ := cmd.Flags().GetString("outputDir"); len(dir) != 0 {
			sp.OutputDir = dir
		}
		RunFloquet(sp)
	},
}

func init() {
	rootCmd.AddCommand(FloquetCmd)
	FloquetCmd.Flags().StringP("inputFile", "I", "", "YAML file for input parameters like:\n\t- Frequency\n\t- NFloquet\n\t- OutputDir")
	FloquetCmd.Flags().IntP("nSamples", "m", 0, "number of Bloch wavenumber samples, overrides the input file")
	FloquetCmd.Flags().StringP("outputDir", "o", "", "directory for the per-wavenumber sample artifacts")
}

func RunFloquet(sp InputParameters.SolverParameters) {
	var (
		err error
		msh = buildMesh(sp)
	)
	// Warm the lazy point id caches before the solves share the mesh
	msh.Domain("interior").PointIDs()
	for _, side := range mesh.RectangleSides {
		msh.Domain(side).PointIDs()
	}
	solver := func(k float64) (uPos, uNeg []complex128, err error) {
		for _, orientation := range []int{1, -1} {
			cfg := guideConfig(sp, msh, k, orientation)
			sol, serr := halfguide.Solve(cfg)
			if serr != nil {
				err = serr
				return
			}
			cells := sol.Reconstruct(1, interfaceData(cfg.BC.Basis0))
			if orientation == 1 {
				uPos = cells[0].Data
			} else {
				uNeg = cells[0].Data
			}
		}
		return
	}
	if err = floquet.RunBatch(context.Background(), solver, sp.NFloquet, sp.Period, sp.OutputDir); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	samples, err := floquet.ReadBatch(sp.OutputDir, sp.NFloquet)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	xInf := make([]float64, msh.NPoints)
	for p := 0; p < msh.NPoints; p++ {
		xInf[p] = msh.Point(p)[0]
	}
	field := floquet.Reconstruct(samples, sp.Period, sp.NCells, xInf, true)
	for tau := 0; tau < sp.NCells; tau++ {
		fmt.Printf("cell[%d]: |u| = %12.8f\n", tau, field.Col(tau).Norm())
	}
}
