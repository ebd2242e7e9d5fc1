// internal/adapter/render/chart.go

package render

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"socialpulse/internal/domain/pulse"
)

var (
	colorBand      = color.NRGBA{R: 66, G: 133, B: 244, A: 60}
	colorPredicted = color.RGBA{R: 25, G: 90, B: 200, A: 255}
	colorObserved  = color.RGBA{R: 220, G: 70, B: 50, A: 255}
)

// TrendChart renders observed daily values against a fitted forecast with its
// uncertainty band
func TrendChart(cfg Config, title string, observed []pulse.TimeSeriesPoint, forecast []pulse.ForecastPoint) ([]byte, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(forecast) == 0 {
		return nil, errors.New("no forecast points to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "date"
	p.Y.Label.Text = "value"
	p.X.Tick.Marker = plot.TimeTicks{Format: pulse.DateLayout}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	predicted := make(plotter.XYs, len(forecast))
	ring := make(plotter.XYs, 2*len(forecast))
	for i, f := range forecast {
		x := float64(f.Date.Unix())
		predicted[i] = plotter.XY{X: x, Y: f.Predicted}
		ring[i] = plotter.XY{X: x, Y: f.UpperBound}
		ring[len(ring)-1-i] = plotter.XY{X: x, Y: f.LowerBound}
	}

	band, err := plotter.NewPolygon(ring)
	if err != nil {
		return nil, fmt.Errorf("error building band: %w", err)
	}
	band.Color = colorBand
	band.LineStyle.Width = 0

	line, err := plotter.NewLine(predicted)
	if err != nil {
		return nil, fmt.Errorf("error building forecast line: %w", err)
	}
	line.LineStyle.Color = colorPredicted
	line.LineStyle.Width = vg.Points(1.5)

	p.Add(band, line)
	p.Legend.Add("forecast", line)
	p.Legend.Add("interval", band)

	if len(observed) > 0 {
		points := make(plotter.XYs, len(observed))
		for i, o := range observed {
			points[i] = plotter.XY{X: float64(o.Date.Unix()), Y: o.Value}
		}

		scatter, err := plotter.NewScatter(points)
		if err != nil {
			return nil, fmt.Errorf("error building observed points: %w", err)
		}
		scatter.GlyphStyle.Color = colorObserved
		scatter.GlyphStyle.Radius = vg.Points(2.5)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}

		p.Add(scatter)
		p.Legend.Add("observed", scatter)
	}

	c := newCanvas(cfg)
	p.Draw(draw.New(c))
	return encodePNG(c)
}
