// Package plot renders diagnostics for a correction run: a PNG of raw
// versus corrected trajectories (gonum/plot) and an HTML page of per-tick
// correction and event counts (go-echarts).
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/steadycursor/internal/cursor/engine"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("plot: no samples")

var (
	rawColor       = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	correctedColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	targetColor    = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Trajectory draws raw and corrected paths in screen coordinates (y grows
// downward) with targets marked. The result encodes as PNG.
func Trajectory(title string, raw, corrected []engine.Vec2, targets []engine.TargetInfo) (io.WriterTo, error) {
	if len(raw) == 0 && len(corrected) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (vpx)"
	p.Y.Label.Text = "y (vpx)"
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	p.Add(plotter.NewGrid())

	if len(raw) > 0 {
		rawLine, err := plotter.NewLine(toXYs(raw))
		if err != nil {
			return nil, fmt.Errorf("plot: raw path: %w", err)
		}
		rawLine.Color = rawColor
		rawLine.Width = vg.Points(1)
		p.Add(rawLine)
		p.Legend.Add("raw", rawLine)
	}

	if len(corrected) > 0 {
		corrLine, err := plotter.NewLine(toXYs(corrected))
		if err != nil {
			return nil, fmt.Errorf("plot: corrected path: %w", err)
		}
		corrLine.Color = correctedColor
		corrLine.Width = vg.Points(1.5)
		p.Add(corrLine)
		p.Legend.Add("corrected", corrLine)
	}

	if len(targets) > 0 {
		centers := make(plotter.XYs, len(targets))
		for i, t := range targets {
			centers[i] = plotter.XY{X: t.Center.X, Y: t.Center.Y}
		}
		sc, err := plotter.NewScatter(centers)
		if err != nil {
			return nil, fmt.Errorf("plot: targets: %w", err)
		}
		sc.GlyphStyle.Color = targetColor
		sc.GlyphStyle.Shape = draw.CrossGlyph{}
		sc.GlyphStyle.Radius = vg.Points(4)
		p.Add(sc)
		p.Legend.Add("targets", sc)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	wt, err := p.WriterTo(12*vg.Inch, 8*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("plot: encode: %w", err)
	}
	return wt, nil
}

// SaveTrajectory renders Trajectory to a PNG file at path.
func SaveTrajectory(path, title string, raw, corrected []engine.Vec2, targets []engine.TargetInfo) (err error) {
	wt, err := Trajectory(title, raw, corrected, targets)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("plot: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("plot: close %s: %w", path, cerr)
		}
	}()
	if _, err := wt.WriteTo(f); err != nil {
		return fmt.Errorf("plot: write %s: %w", path, err)
	}
	return nil
}

func toXYs(pts []engine.Vec2) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, v := range pts {
		xys[i] = plotter.XY{X: v.X, Y: v.Y}
	}
	return xys
}
