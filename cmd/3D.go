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

	"github.com/notargets/golas/InputParameters"
	"github.com/notargets/golas/LAS3D"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

// ThreeDCmd represents the 3D command
var ThreeDCmd = &cobra.Command{
	Use:   "3D",
	Short: "Three Dimensional Random Field Generation",
	Long: `
Generates realizations of a 3-D Gaussian random field of local averages
by Local Average Subdivision,

golas 3D `,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			m3d = &Model3D{}
		)
		fmt.Println("3D called")
		m3d.N1, _ = cmd.Flags().GetInt("n1")
		m3d.N2, _ = cmd.Flags().GetInt("n2")
		m3d.N3, _ = cmd.Flags().GetInt("n3")
		m3d.XL, _ = cmd.Flags().GetFloat64("xl")
		m3d.YL, _ = cmd.Flags().GetFloat64("yl")
		m3d.ZL, _ = cmd.Flags().GetFloat64("zl")
		m3d.Kernel, _ = cmd.Flags().GetString("kernel")
		m3d.Sigma2, _ = cmd.Flags().GetFloat64("sigma2")
		m3d.Theta, _ = cmd.Flags().GetFloat64("theta")
		m3d.Seed, _ = cmd.Flags().GetInt("seed")
		m3d.Realizations, _ = cmd.Flags().GetInt("realizations")
		if prof, _ := cmd.Flags().GetBool("profile"); prof {
			defer profile.Start(profile.CPUProfile).Stop()
		}
		if deck, _ := cmd.Flags().GetString("input"); deck != "" {
			if err := m3d.LoadDeck(deck); err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
		}
		Run3D(m3d)
	},
}

func init() {
	rootCmd.AddCommand(ThreeDCmd)
	ThreeDCmd.Flags().Int("n1", 32, "number of cells in X")
	ThreeDCmd.Flags().Int("n2", 32, "number of cells in Y")
	ThreeDCmd.Flags().Int("n3", 32, "number of cells in Z")
	ThreeDCmd.Flags().Float64("xl", 1, "physical extent in X")
	ThreeDCmd.Flags().Float64("yl", 1, "physical extent in Y")
	ThreeDCmd.Flags().Float64("zl", 1, "physical extent in Z")
	ThreeDCmd.Flags().StringP("kernel", "k", "markov", "covariance kernel: markov, gaussian, exponential, white")
	ThreeDCmd.Flags().Float64("sigma2", 1, "point variance")
	ThreeDCmd.Flags().Float64("theta", 0.5, "scale of fluctuation")
	ThreeDCmd.Flags().IntP("seed", "s", 0, "PRNG seed, 0 seeds from the clock")
	ThreeDCmd.Flags().IntP("realizations", "r", 1, "number of realizations to generate")
	ThreeDCmd.Flags().StringP("input", "i", "", "YAML input deck overriding the flags")
	ThreeDCmd.Flags().Bool("profile", false, "write a CPU profile of the run")
}

type Model3D struct {
	N1, N2, N3   int
	XL, YL, ZL   float64
	Kernel       string
	Sigma2       float64
	Theta        float64
	Seed         int
	Realizations int
	MaxM, MaxK   int
	Tol          float64
}

// LoadDeck overrides the model from a YAML input deck.
func (m3d *Model3D) LoadDeck(fileName string) (err error) {
	var (
		data []byte
		fp   InputParameters.FieldParameters
	)
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	if err = fp.Parse(data); err != nil {
		return
	}
	fp.Print()
	m3d.N1, m3d.N2, m3d.N3 = fp.N1, fp.N2, fp.N3
	m3d.XL, m3d.YL, m3d.ZL = fp.XL, fp.YL, fp.ZL
	m3d.Kernel = fp.Kernel
	m3d.Sigma2 = fp.Sigma2
	m3d.Theta = fp.ThetaX
	m3d.Seed = fp.Seed
	m3d.Realizations = fp.Realizations
	m3d.MaxM, m3d.MaxK, m3d.Tol = fp.MaxM, fp.MaxK, fp.Tol
	return
}

func Run3D(m3d *Model3D) {
	var (
		kern LAS3D.Kernel
	)
	switch m3d.Kernel {
	case "gaussian":
		kern = LAS3D.GaussianKernel{Sigma2: m3d.Sigma2, ThetaX: m3d.Theta, ThetaY: m3d.Theta, ThetaZ: m3d.Theta}
	case "exponential":
		kern = LAS3D.ExponentialKernel{Sigma2: m3d.Sigma2, Theta: m3d.Theta}
	case "white":
		kern = LAS3D.WhiteKernel{Sigma2: m3d.Sigma2}
	case "markov":
		fallthrough
	default:
		kern = LAS3D.MarkovKernel{Sigma2: m3d.Sigma2, ThetaX: m3d.Theta, ThetaY: m3d.Theta, ThetaZ: m3d.Theta}
	}
	g, err := LAS3D.New(LAS3D.Config{
		N1: m3d.N1, N2: m3d.N2, N3: m3d.N3,
		XL: m3d.XL, YL: m3d.YL, ZL: m3d.ZL,
		MaxM: m3d.MaxM, MaxK: m3d.MaxK, Tol: m3d.Tol,
		Seed: m3d.Seed,
	}, kern)
	if err != nil {
		os.Exit(1)
	}
	z := make([]float32, m3d.N1*m3d.N2*m3d.N3)
	if m3d.Realizations < 1 {
		m3d.Realizations = 1
	}
	for r := 0; r < m3d.Realizations; r++ {
		if err = g.Sample(z); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		mean, variance := LAS3D.FieldMoments(z)
		fmt.Printf("realization %4d: mean = %10.6f, variance = %10.6f\n", r+1, mean, variance)
	}
	stats := g.Stats()
	fmt.Printf("initialization time: %v, generation time: %v for %d realizations\n",
		stats.InitTime, stats.GenTime, stats.Realizations)
}
