package models

import "fmt"

// PanelKind identifies a row of the comparison chart.
type PanelKind string

const (
	PanelReference PanelKind = "reference"
	PanelEstimated PanelKind = "estimated"
	PanelContour   PanelKind = "contour"
)

// Marker holds per-trace marker styling.
type Marker struct {
	Color string `json:"color,omitempty"`
}

// Trace is a Plotly trace. Only the fields the dashboard draws are modelled.
type Trace struct {
	Type          string      `json:"type"`
	Name          string      `json:"name,omitempty"`
	Orientation   string      `json:"orientation,omitempty"`
	X             []float64   `json:"x,omitempty"`
	Y             []string    `json:"y,omitempty"`
	Z             [][]float64 `json:"z,omitempty"`
	Base          []float64   `json:"base,omitempty"`
	Text          []string    `json:"text,omitempty"`
	Marker        *Marker     `json:"marker,omitempty"`
	Colorscale    string      `json:"colorscale,omitempty"`
	ZMin          *float64    `json:"zmin,omitempty"`
	ZMax          *float64    `json:"zmax,omitempty"`
	ShowScale     *bool       `json:"showscale,omitempty"`
	HoverTemplate string      `json:"hovertemplate,omitempty"`
	XAxis         string      `json:"xaxis"`
	YAxis         string      `json:"yaxis"`
}

// Panel is one row of a ChartSpec.
type Panel struct {
	Kind       PanelKind  `json:"kind"`
	Annotation string     `json:"annotation"`
	Row        int        `json:"row"`
	Height     float64    `json:"height"`
	Domain     [2]float64 `json:"domain"`
	Categories []string   `json:"categories"`
	XRange     [2]float64 `json:"x_range"`
	Empty      bool       `json:"empty"`
	Traces     []Trace    `json:"-"`
}

// ChartSpec is the composed three-row chart for one track.
type ChartSpec struct {
	TrackID string     `json:"track_id"`
	Title   string     `json:"title,omitempty"`
	XRange  [2]float64 `json:"x_range"`
	Panels  []Panel    `json:"panels"`
}

// Figure is the Plotly figure handed to the browser.
type Figure struct {
	Data   []Trace                `json:"data"`
	Layout map[string]interface{} `json:"layout"`
}

// Panel returns the panel of the given kind.
func (c *ChartSpec) Panel(kind PanelKind) (*Panel, bool) {
	for i := range c.Panels {
		if c.Panels[i].Kind == kind {
			return &c.Panels[i], true
		}
	}
	return nil, false
}

// AxisSuffix maps a 1-based row to the Plotly axis suffix ("", "2", "3").
func AxisSuffix(row int) string {
	if row <= 1 {
		return ""
	}
	return fmt.Sprintf("%d", row)
}

// Figure lays the panels out as stacked subplots sharing the time axis. The
// bottom x axis carries tick labels, the others match it. shapes[0] is the
// playhead line.
func (c *ChartSpec) Figure() Figure {
	fig := Figure{
		Data: []Trace{},
		Layout: map[string]interface{}{
			"barmode":    "overlay",
			"showlegend": false,
			"margin":     map[string]int{"l": 20, "r": 20, "t": 40, "b": 20},
		},
	}
	if c.Title != "" {
		fig.Layout["title"] = map[string]interface{}{"text": c.Title}
	}

	bottom := "x" + AxisSuffix(len(c.Panels))
	for _, p := range c.Panels {
		suffix := AxisSuffix(p.Row)
		xaxis := map[string]interface{}{
			"domain":         []float64{0, 1},
			"anchor":         "y" + suffix,
			"range":          []float64{p.XRange[0], p.XRange[1]},
			"showticklabels": "x"+suffix == bottom,
		}
		if "x"+suffix != bottom {
			xaxis["matches"] = bottom
		}
		fig.Layout["xaxis"+suffix] = xaxis
		fig.Layout["yaxis"+suffix] = map[string]interface{}{
			"domain":        []float64{p.Domain[0], p.Domain[1]},
			"anchor":        "x" + suffix,
			"type":          "category",
			"categoryorder": "array",
			"categoryarray": p.Categories,
		}
		fig.Data = append(fig.Data, p.Traces...)
	}

	fig.Layout["shapes"] = []map[string]interface{}{{
		"type": "line",
		"xref": bottom,
		"yref": "paper",
		"x0":   c.XRange[0],
		"x1":   c.XRange[0],
		"y0":   0,
		"y1":   1,
		"line": map[string]interface{}{"color": "#d62728", "width": 2},
	}}
	return fig
}
