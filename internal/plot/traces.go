package plot

import (
	"audiodash/models"
)

// d3Palette is the D3 category10 color scheme.
var d3Palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// LabelColor returns the palette color for the i-th distinct label.
func LabelColor(i int) string {
	return d3Palette[i%len(d3Palette)]
}

// segmentTraces draws one horizontal bar trace per distinct label. Bars start
// at the segment start (base) and extend by the segment duration.
func segmentTraces(ann *models.Annotation, row int) []models.Trace {
	suffix := models.AxisSuffix(row)
	labels := ann.Labels()
	byLabel := make(map[string]*models.Trace, len(labels))
	traces := make([]models.Trace, len(labels))

	for i, label := range labels {
		traces[i] = models.Trace{
			Type:          "bar",
			Name:          label,
			Orientation:   "h",
			Marker:        &models.Marker{Color: LabelColor(i)},
			HoverTemplate: "%{text}<br>%{base:.2f}s + %{x:.2f}s<extra></extra>",
			XAxis:         "x" + suffix,
			YAxis:         "y" + suffix,
		}
		byLabel[label] = &traces[i]
	}

	for _, layer := range ann.Layers {
		for _, seg := range layer.Segments {
			tr := byLabel[seg.Label]
			tr.X = append(tr.X, seg.Duration())
			tr.Base = append(tr.Base, seg.Start)
			tr.Y = append(tr.Y, layer.Name)
			tr.Text = append(tr.Text, seg.Label)
		}
	}
	return traces
}

// contourTraces draws the contour as a heatmap with one row per layer.
func contourTraces(c *models.Contour, row int) []models.Trace {
	if len(c.Layers) == 0 || len(c.Times) < 2 {
		return nil
	}
	suffix := models.AxisSuffix(row)
	zmin, zmax := 0.0, 1.0
	showScale := false
	return []models.Trace{{
		Type:          "heatmap",
		Name:          c.Field,
		X:             c.Times,
		Y:             c.Layers,
		Z:             c.Values,
		Colorscale:    "Viridis",
		ZMin:          &zmin,
		ZMax:          &zmax,
		ShowScale:     &showScale,
		HoverTemplate: "%{y} @ %{x:.2f}s: %{z:.2f}<extra></extra>",
		XAxis:         "x" + suffix,
		YAxis:         "y" + suffix,
	}}
}
