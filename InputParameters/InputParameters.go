package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/tec2vtk/mesh/writers"
)

// Parameters obtained from the YAML input file. ghodss/yaml converts the
// YAML to JSON before decoding, so the field names come from the json tags.
type ConversionParameters struct {
	Title         string `json:"Title"`         // VTK header title, the Tecplot TITLE is used when empty
	OutputDir     string `json:"OutputDir"`     // Directory receiving the .vtk files
	Pattern       string `json:"Pattern"`       // Glob matched against file names when scanning directories
	Precision     int    `json:"Precision"`     // Decimals per value, negative for shortest exact
	Strict        bool   `json:"Strict"`        // Reject connectivity indices outside [1,N]
	SanitizeNames bool   `json:"SanitizeNames"` // Map field names onto [A-Za-z0-9_]
	Workers       int    `json:"Workers"`       // Files converted concurrently, 0 means one per CPU
}

const (
	DefaultOutputDir = "vtk_output"
	DefaultPattern   = "*_nf.dat"
)

// NewConversionParameters returns the defaults a parsed file is laid over
func NewConversionParameters() *ConversionParameters {
	return &ConversionParameters{
		OutputDir:     DefaultOutputDir,
		Pattern:       DefaultPattern,
		Precision:     writers.DefaultPrecision,
		Strict:        true,
		SanitizeNames: true,
		Workers:       1,
	}
}

func (ip *ConversionParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, ip); err != nil {
		return err
	}
	return ip.Validate()
}

func (ip *ConversionParameters) Validate() error {
	if ip.OutputDir == "" {
		return fmt.Errorf("OutputDir must not be empty")
	}
	if ip.Pattern == "" {
		return fmt.Errorf("Pattern must not be empty")
	}
	if ip.Precision > 17 {
		return fmt.Errorf("Precision %d is larger than float64 can carry (17)", ip.Precision)
	}
	if ip.Workers < 0 {
		return fmt.Errorf("Workers must not be negative, got %d", ip.Workers)
	}
	return nil
}

// VTKOptions returns the writer settings carried by the parameters
func (ip *ConversionParameters) VTKOptions() writers.VTKOptions {
	return writers.VTKOptions{
		Title:         ip.Title,
		Precision:     ip.Precision,
		SanitizeNames: ip.SanitizeNames,
	}
}

func (ip *ConversionParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Output Directory\n", ip.OutputDir)
	fmt.Printf("[%s]\t\t= File Pattern\n", ip.Pattern)
	fmt.Printf("[%d]\t\t\t= Precision\n", ip.Precision)
	fmt.Printf("[%v]\t\t\t= Strict Node Indices\n", ip.Strict)
	fmt.Printf("[%v]\t\t\t= Sanitize Names\n", ip.SanitizeNames)
	fmt.Printf("[%d]\t\t\t= Workers\n", ip.Workers)
}
