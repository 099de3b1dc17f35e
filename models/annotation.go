package models

import "math"

// Segment is a single labeled time interval inside a layer.
type Segment struct {
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Label      string   `json:"label"`
	Confidence *float64 `json:"confidence,omitempty"` // Nullable, treated as certain when absent
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Layer represents one row of labeled segments in an annotation.
type Layer struct {
	Name     string    `json:"name"`
	Segments []Segment `json:"segments"`
}

// Annotation is a named, ordered collection of layers for a track.
// Start and End are optional in the source document; Span derives them from the
// segments when they are missing.
type Annotation struct {
	Name   string   `json:"name"`
	Start  *float64 `json:"start,omitempty"`
	End    *float64 `json:"end,omitempty"`
	Layers []Layer  `json:"layers"`
}

// Span returns the [start, end] time range covered by the annotation.
func (a *Annotation) Span() (float64, float64) {
	start, end := math.Inf(1), math.Inf(-1)
	for _, layer := range a.Layers {
		for _, seg := range layer.Segments {
			start = math.Min(start, seg.Start)
			end = math.Max(end, seg.End)
		}
	}
	if math.IsInf(start, 1) {
		start, end = 0, 0
	}
	if a.Start != nil {
		start = *a.Start
	}
	if a.End != nil {
		end = *a.End
	}
	return start, end
}

// LayerNames returns the layer names in declaration order.
func (a *Annotation) LayerNames() []string {
	names := make([]string, 0, len(a.Layers))
	for _, layer := range a.Layers {
		names = append(names, layer.Name)
	}
	return names
}

// ReversedLayerNames returns the layer names last-declared first, which is the
// category order that draws the first declared layer at the top of a panel.
func (a *Annotation) ReversedLayerNames() []string {
	names := a.LayerNames()
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

// Labels returns every distinct segment label in first-appearance order.
func (a *Annotation) Labels() []string {
	seen := make(map[string]bool)
	var labels []string
	for _, layer := range a.Layers {
		for _, seg := range layer.Segments {
			if !seen[seg.Label] {
				seen[seg.Label] = true
				labels = append(labels, seg.Label)
			}
		}
	}
	return labels
}
