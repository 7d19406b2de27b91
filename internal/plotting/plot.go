// internal/plotting/plot.go
package plotting

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// RankScatter draws the normalized rank of each peak in replicate 1 against
// replicate 2, coloring peaks at or below the soft IDR threshold, and saves
// the figure as a PNG.
func RankScatter(path string, r1, r2 []int, globalIDR []float64, threshold float64) error {
	if len(r1) != len(r2) {
		return fmt.Errorf("plot: rank vectors differ in length: %d vs %d", len(r1), len(r2))
	}

	n := float64(len(r1))
	var pass, fail plotter.XYs
	for i := range r1 {
		pt := plotter.XY{
			X: (float64(r1[i]) + 1) / (n + 1),
			Y: (float64(r2[i]) + 1) / (n + 1),
		}
		if globalIDR != nil && globalIDR[i] <= threshold {
			pass = append(pass, pt)
		} else {
			fail = append(fail, pt)
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("IDR ranks (red: IDR <= %.2f)", threshold)
	p.X.Label.Text = "replicate 1 rank"
	p.Y.Label.Text = "replicate 2 rank"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	add := func(xys plotter.XYs, c color.Color) error {
		if len(xys) == 0 {
			return nil
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = c
		s.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(s)
		return nil
	}
	if err := add(fail, color.Gray{Y: 60}); err != nil {
		return err
	}
	if err := add(pass, color.RGBA{R: 200, A: 255}); err != nil {
		return err
	}

	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}
