// Package plotting renders a recorded run as PNG line plots.
package plotting

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/invpend/internal/report"
)

type Options struct {
	WidthIn  float64
	HeightIn float64
	DPI      int
}

func DefaultOptions() Options {
	return Options{WidthIn: 8, HeightIn: 6, DPI: 300}
}

type series struct {
	file   string
	title  string
	ylabel string
	column int
}

var runSeries = []series{
	{"cart_position.png", "Cart Position x1(t)", "x1 (m)", 0},
	{"cart_velocity.png", "Cart Velocity x2(t)", "x2 (m/s)", 1},
	{"pendulum_angle.png", "Pendulum Angle x3(t) (0 = upright)", "x3 (rad)", 2},
	{"pendulum_velocity.png", "Pendulum Velocity x4(t)", "x4 (rad/s)", 3},
	{"control_force.png", "Control Force F(t)", "F (N)", 4},
}

// SaveRun writes one time plot per column of run plus a phase plot of the
// pendulum into outDir and returns the written paths.
func SaveRun(run *report.Run, outDir string, opts Options) ([]string, error) {
	if run.Len() == 0 {
		return nil, fmt.Errorf("%s: no records", run.Path)
	}

	paths := make([]string, 0, len(runSeries)+1)
	for _, s := range runSeries {
		path := filepath.Join(outDir, s.file)
		if err := saveLinePlot(path, s.title, "time (s)", s.ylabel, run.Times, run.Column(s.column), opts); err != nil {
			return paths, fmt.Errorf("%s: %w", s.file, err)
		}
		paths = append(paths, path)
	}

	path := filepath.Join(outDir, "phase.png")
	if err := saveLinePlot(path, "Pendulum Phase Portrait", "x3 (rad)", "x4 (rad/s)", run.Column(2), run.Column(3), opts); err != nil {
		return paths, fmt.Errorf("phase.png: %w", err)
	}
	return append(paths, path), nil
}

func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(20)
	p.Title.Padding = vg.Points(12)

	p.X.Label.TextStyle.Font.Size = vg.Points(16)
	p.Y.Label.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Padding = vg.Points(10)
	p.Y.Label.Padding = vg.Points(10)

	p.X.LineStyle.Width = vg.Points(2)
	p.Y.LineStyle.Width = vg.Points(2)
	p.X.Padding = vg.Points(20)
	p.Y.Padding = vg.Points(20)

	p.X.Tick.Label.Font.Size = vg.Points(12)
	p.Y.Tick.Label.Font.Size = vg.Points(12)

	p.X.Tick.Marker = limitedTicker(8, "%.2f")
	p.Y.Tick.Marker = limitedTicker(8, "%.2f")
}

func saveLinePlot(path, title, xlabel, ylabel string, xs, ys []float64, opts Options) error {
	if len(xs) != len(ys) || len(xs) == 0 {
		return fmt.Errorf("plot data invalid: %d x values, %d y values", len(xs), len(ys))
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	stylePlot(p)

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(2.5)
	p.Add(line)

	return savePlotPNG(p, path, opts)
}

func savePlotPNG(p *plot.Plot, path string, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(opts.WidthIn)*vg.Inch, vg.Length(opts.HeightIn)*vg.Inch),
		vgimg.UseDPI(opts.DPI),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}
