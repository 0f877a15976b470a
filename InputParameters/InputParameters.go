package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type SolverParameters struct {
	Title       string  `yaml:"Title"`
	Frequency   float64 `yaml:"Frequency"`
	Period      float64 `yaml:"Period"`
	Height      float64 `yaml:"Height"`
	NCells      int     `yaml:"NCells"`
	BasisSize   int     `yaml:"BasisSize"`
	MeshNx      int     `yaml:"MeshNx"`
	MeshNy      int     `yaml:"MeshNy"`
	MeshFile    string  `yaml:"MeshFile"`
	Orientation int     `yaml:"Orientation"`
	Dissipation float64 `yaml:"Dissipation"`

	NFloquet  int    `yaml:"NFloquet"`
	OutputDir string `yaml:"OutputDir"`

	// Per-side boundary condition parameters, keyed by side name
	// {ymin, xmax, ymax, xmin}, then by parameter name
	BCs map[string]map[string]float64 `yaml:"BCs"`

	// Mesh resolutions for batch sweeps
	Resolutions []int `yaml:"Resolutions"`
}

func DefaultParameters() SolverParameters {
	return SolverParameters{
		Title:       "halfguide",
		Frequency:   5.0,
		Period:      1.0,
		Height:      1.0,
		NCells:      4,
		BasisSize:   3,
		MeshNx:      16,
		MeshNy:      16,
		Orientation: 1,
		Dissipation: 0.5,
		NFloquet:    17,
		OutputDir:   "floquet_out",
	}
}

func (sp *SolverParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, sp); err != nil {
		return err
	}
	return sp.Validate()
}

func (sp *SolverParameters) Validate() error {
	if sp.Frequency <= 0 {
		return fmt.Errorf("Frequency must be positive, have %g", sp.Frequency)
	}
	if sp.Period <= 0 || sp.Height <= 0 {
		return fmt.Errorf("Period and Height must be positive, have %g, %g", sp.Period, sp.Height)
	}
	if sp.Orientation != 1 && sp.Orientation != -1 {
		return fmt.Errorf("Orientation must be -1 or +1, have %d", sp.Orientation)
	}
	if sp.BasisSize < 1 {
		return fmt.Errorf("BasisSize must be at least 1, have %d", sp.BasisSize)
	}
	if sp.NCells < 1 {
		return fmt.Errorf("NCells must be at least 1, have %d", sp.NCells)
	}
	return nil
}

func (sp *SolverParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", sp.Title)
	fmt.Printf("%8.5f\t\t= Frequency\n", sp.Frequency)
	fmt.Printf("%8.5f\t\t= Period\n", sp.Period)
	fmt.Printf("[%d]\t\t\t= Basis Size\n", sp.BasisSize)
	fmt.Printf("[%d]\t\t\t= NCells\n", sp.NCells)
	fmt.Printf("[%d x %d]\t\t= Mesh Resolution\n", sp.MeshNx, sp.MeshNy)
	keys := make([]string, 0, len(sp.BCs))
	for k := range sp.BCs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, sp.BCs[key])
	}
}
