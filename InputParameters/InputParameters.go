package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type FieldParameters struct {
	Title        string  `yaml:"Title"`
	N1           int     `yaml:"N1"`
	N2           int     `yaml:"N2"`
	N3           int     `yaml:"N3"`
	XL           float64 `yaml:"XL"`
	YL           float64 `yaml:"YL"`
	ZL           float64 `yaml:"ZL"`
	Kernel       string  `yaml:"Kernel"` // markov, gaussian, exponential, white
	Sigma2       float64 `yaml:"Sigma2"`
	ThetaX       float64 `yaml:"ThetaX"`
	ThetaY       float64 `yaml:"ThetaY"`
	ThetaZ       float64 `yaml:"ThetaZ"`
	Seed         int     `yaml:"Seed"`
	Realizations int     `yaml:"Realizations"`
	MaxM         int     `yaml:"MaxM"`
	MaxK         int     `yaml:"MaxK"`
	Tol          float64 `yaml:"Tol"`
}

func (fp *FieldParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, fp)
}

func (fp *FieldParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", fp.Title)
	fmt.Printf("[%d,%d,%d]\t\t= Field Cells\n", fp.N1, fp.N2, fp.N3)
	fmt.Printf("[%4.2f,%4.2f,%4.2f]\t= Physical Extent\n", fp.XL, fp.YL, fp.ZL)
	fmt.Printf("[%s]\t\t= Kernel\n", fp.Kernel)
	fmt.Printf("%8.5f\t\t= Sigma2\n", fp.Sigma2)
	fmt.Printf("[%4.2f,%4.2f,%4.2f]\t= Theta\n", fp.ThetaX, fp.ThetaY, fp.ThetaZ)
	fmt.Printf("[%d]\t\t\t= Seed\n", fp.Seed)
	fmt.Printf("[%d]\t\t\t= Realizations\n", fp.Realizations)
}
