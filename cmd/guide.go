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
	"io/ioutil"
	"math/cmplx"
	"os"

	"github.com/periodicmedia/guidewave/InputParameters"
	"github.com/periodicmedia/guidewave/fem"
	"github.com/periodicmedia/guidewave/halfguide"
	"github.com/periodicmedia/guidewave/mesh"
	"github.com/periodicmedia/guidewave/readfiles"
	"github.com/periodicmedia/guidewave/utils"
	"github.com/spf13/cobra"
)

// GuideCmd represents the guide command
var GuideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Solves one periodic half-guide problem and reconstructs the cell solutions",
	Long: `
Solves the half-guide cell problems, the Riccati eigenvalue problem for
the propagation operator pair, and reconstructs the solution over the
requested number of periodicity cells,

guidewave guide -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err    error
			ipFile string
		)
		fmt.Println("guide called")
		if ipFile, err = cmd.Flags().GetString("inputFile"); err != nil {
			panic(err)
		}
		sp := processInput(ipFile)
		if nc, _ := cmd.Flags().GetInt("nCells"); nc > 0 {
			sp.NCells = nc
		}
		RunGuide(sp)
	},
}

func init() {
	rootCmd.AddCommand(GuideCmd)
	GuideCmd.Flags().StringP("inputFile", "I", "", "YAML file for input parameters like:\n\t- Frequency\n\t- Period\n\t- NCells")
	GuideCmd.Flags().IntP("nCells", "c", 0, "number of periodicity cells to reconstruct, overrides the input file")
}

func processInput(ipFile string) (sp InputParameters.SolverParameters) {
	var (
		err error
	)
	sp = InputParameters.DefaultParameters()
	if len(ipFile) == 0 {
		exampleFile := `
########################################
Title: "Photonic Guide"
Frequency: 5.
Period: 1.
Height: 1.
NCells: 4
BasisSize: 3
MeshNx: 16
MeshNy: 16
Dissipation: 0.5
########################################
`
		fmt.Printf("no input file supplied, using defaults. Example File:%s\n", exampleFile)
	} else {
		var data []byte
		if data, err = ioutil.ReadFile(ipFile); err != nil {
			panic(err)
		}
		if err = sp.Parse(data); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	}
	sp.Print()
	return
}

func buildMesh(sp InputParameters.SolverParameters) (msh *mesh.Mesh) {
	var (
		err error
	)
	if len(sp.MeshFile) != 0 {
		if msh, err = readfiles.ReadGmsh22(sp.MeshFile, 2); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		return
	}
	msh = mesh.NewRectangleMesh(sp.MeshNx, sp.MeshNy, sp.Period, sp.Height)
	return
}

// bcParam reads the complex parameter <name> for one side from the input
// BCs map, split into <name> and <name>Im entries.
func bcParam(sp InputParameters.SolverParameters, side, name string,
	def complex128) complex128 {
	p, ok := sp.BCs[side]
	if !ok {
		return def
	}
	re, haveRe := p[name]
	im, haveIm := p[name+"Im"]
	if !haveRe && !haveIm {
		return def
	}
	return complex(re, im)
}

// guideConfig assembles the half-guide problem for one Bloch wavenumber k
// along the infinite direction. The cell operator is the shifted Helmholtz
// form of the periodic part, with transverse periodicity read from the
// ymin side entry of BCs and entry/exit face conditions from the xmin
// side entry. Absent entries give Dirichlet faces and phase 1.
func guideConfig(sp InputParameters.SolverParameters, msh *mesh.Mesh,
	k float64, orientation int) (cfg *halfguide.Config) {
	var (
		one    = fem.ConstCoeff(1)
		omega2 = complex(sp.Frequency*sp.Frequency, 0) * complex(1, sp.Dissipation)
	)
	form := fem.FormAdd(fem.Stiffness(2, one),
		fem.FormAdd(fem.FormScale(fem.DMass(2, 0, one), complex(0, -k)),
			fem.FormAdd(fem.FormScale(fem.MassD(2, 0, one), complex(0, k)),
				fem.FormScale(fem.Mass(2, one), complex(k*k, 0)-omega2))))
	cfg = &halfguide.Config{
		Mesh:        msh,
		Interior:    "interior",
		InfiniteDir: 0,
		Orientation: orientation,
		Frequency:   sp.Frequency,
		NumCells:    sp.NCells,
		CellForm:    form,
		Periodic: []halfguide.PeriodicSpec{
			{Dir: 1, Length: sp.Height, Phase: bcParam(sp, "ymin", "Phase", 1)},
		},
		BC: halfguide.BoundaryCondition{
			NormalCoeff: bcParam(sp, "xmin", "NormalCoeff", 0),
			Basis0:      fem.NewFourierBasis(msh.Domain("xmin"), sp.BasisSize, 1, sp.Height),
			Basis1:      fem.NewFourierBasis(msh.Domain("xmax"), sp.BasisSize, 1, sp.Height),
		},
	}
	if tang := bcParam(sp, "xmin", "Tangential", 0); tang != 0 {
		cfg.BC.Tangential = fem.ConstCoeff(tang)
	}
	return
}

// interfaceData projects a unit transverse profile onto the entry face basis.
func interfaceData(b *fem.SpectralBasis) utils.CVector {
	ids := b.Dom.PointIDs()
	g := utils.NewCMatrix(len(ids), 1)
	for i := range ids {
		g.Set(i, 0, 1)
	}
	return b.NodalToSpectral(g).Col(0)
}

// resolutionSweep expands the parameters into one run per entry of the
// Resolutions list. Swept runs regenerate the structured mesh, so a
// MeshFile is dropped from them.
func resolutionSweep(sp InputParameters.SolverParameters) (runs []InputParameters.SolverParameters) {
	if len(sp.Resolutions) == 0 {
		runs = []InputParameters.SolverParameters{sp}
		return
	}
	for _, n := range sp.Resolutions {
		spn := sp
		spn.MeshNx, spn.MeshNy = n, n
		spn.MeshFile = ""
		runs = append(runs, spn)
	}
	return
}

func RunGuide(sp InputParameters.SolverParameters) {
	for _, spn := range resolutionSweep(sp) {
		if len(sp.Resolutions) != 0 {
			fmt.Printf("---- mesh resolution [%d x %d] ----\n", spn.MeshNx, spn.MeshNy)
		}
		runGuide(spn)
	}
}

func runGuide(sp InputParameters.SolverParameters) {
	var (
		msh = buildMesh(sp)
		cfg = guideConfig(sp, msh, 0, sp.Orientation)
	)
	sol, err := halfguide.Solve(cfg)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	fmt.Printf("[%d]\t\t\t= Propagation Modes\n", len(sol.Lambda))
	for i, l := range sol.Lambda {
		fmt.Printf("lambda[%d] = %10.6f %+10.6fi, |lambda| = %10.6f\n",
			i, real(l), imag(l), cmplx.Abs(l))
	}
	ghat := interfaceData(cfg.BC.Basis0)
	cells := sol.Reconstruct(sp.NCells, ghat)
	for p, u := range cells {
		fmt.Printf("cell[%d]: |u| = %12.8f\n", p, u.Norm())
	}
}
