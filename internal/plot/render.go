package plot

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"audiodash/models"
)

// PNGOptions control the static chart export.
type PNGOptions struct {
	Width    int
	Height   int
	Playhead *float64 // seconds; nil hides the marker
}

const rowFill = 0.8

// RenderPNG draws the contour panel of spec as stepped lines, one band per
// layer with the first declared layer on top, over the clamped time range.
func RenderPNG(spec *models.ChartSpec, w io.Writer, opts PNGOptions) error {
	panel, ok := spec.Panel(models.PanelContour)
	if !ok {
		return errors.New("chart has no contour panel")
	}
	if opts.Width <= 0 {
		opts.Width = 1024
	}
	if opts.Height <= 0 {
		opts.Height = 400
	}

	xMin, xMax := spec.XRange[0], spec.XRange[1]
	if xMax <= xMin {
		xMax = xMin + 1
	}

	var series []chart.Series
	var ticks []chart.Tick
	yMax := 1.0

	if !panel.Empty && len(panel.Traces) > 0 {
		heat := panel.Traces[0]
		n := len(heat.Y)
		yMax = float64(n)
		for l := n - 1; l >= 0; l-- {
			offset := float64(n - 1 - l)
			xs, ys := stepValues(heat.X, heat.Z[l], offset)
			series = append(series, chart.ContinuousSeries{
				Name:    heat.Y[l],
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: hexColor(LabelColor(l)),
					StrokeWidth: 2,
				},
			})
			ticks = append(ticks, chart.Tick{Value: offset + rowFill/2, Label: heat.Y[l]})
		}
	} else {
		series = append(series, chart.ContinuousSeries{
			Name:    "empty",
			XValues: []float64{xMin, xMax},
			YValues: []float64{0, 0},
			Style:   chart.Style{StrokeColor: drawing.ColorTransparent},
		})
	}

	if opts.Playhead != nil && !math.IsNaN(*opts.Playhead) {
		t := math.Max(xMin, math.Min(xMax, *opts.Playhead))
		series = append(series, chart.ContinuousSeries{
			Name:    "playhead",
			XValues: []float64{t, t},
			YValues: []float64{0, yMax},
			Style:   chart.Style{StrokeColor: drawing.ColorRed, StrokeWidth: 2},
		})
	}

	graph := chart.Chart{
		Title:      fmt.Sprintf("%s (%s)", spec.TrackID, panel.Annotation),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  "time (s)",
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
			Ticks: ticks,
		},
		Series: series,
	}
	return graph.Render(chart.PNG, w)
}

// stepValues expands interval values into a step line raised by offset.
func stepValues(times []float64, values []float64, offset float64) ([]float64, []float64) {
	xs := make([]float64, 0, 2*len(values))
	ys := make([]float64, 0, 2*len(values))
	for i, v := range values {
		if i+1 >= len(times) {
			break
		}
		y := offset + v*rowFill
		xs = append(xs, times[i], times[i+1])
		ys = append(ys, y, y)
	}
	return xs, ys
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
