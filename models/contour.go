package models

import (
	"errors"
	"fmt"
	"sort"
)

// ContourFieldProb is the per-segment probability (confidence) field.
const ContourFieldProb = "prob"

// ErrUnknownContourField is returned when a contour is requested for a field the
// annotation does not carry.
var ErrUnknownContourField = errors.New("unknown contour field")

// Contour is a continuous rendering of an annotation: one row per layer, one
// value per interval between consecutive boundaries.
type Contour struct {
	Field  string      `json:"field"`
	Times  []float64   `json:"times"`  // len(Times) == intervals+1
	Layers []string    `json:"layers"` // declaration order
	Values [][]float64 `json:"values"` // Values[layer][interval]
}

// Contour derives a contour view of the annotation for the given field.
// Intervals not covered by any segment of a layer are 0; covering segments
// without a confidence count as 1.
func (a *Annotation) Contour(field string) (*Contour, error) {
	if field != ContourFieldProb {
		return nil, fmt.Errorf("%w: %q", ErrUnknownContourField, field)
	}

	c := &Contour{
		Field:  field,
		Layers: a.LayerNames(),
	}

	boundaries := make(map[float64]struct{})
	for _, layer := range a.Layers {
		for _, seg := range layer.Segments {
			boundaries[seg.Start] = struct{}{}
			boundaries[seg.End] = struct{}{}
		}
	}
	for t := range boundaries {
		c.Times = append(c.Times, t)
	}
	sort.Float64s(c.Times)

	intervals := len(c.Times) - 1
	if intervals < 0 {
		intervals = 0
	}
	c.Values = make([][]float64, len(a.Layers))
	for l, layer := range a.Layers {
		row := make([]float64, intervals)
		for i := 0; i < intervals; i++ {
			mid := (c.Times[i] + c.Times[i+1]) / 2
			for _, seg := range layer.Segments {
				if seg.Start <= mid && mid < seg.End {
					row[i] = segmentProb(seg)
					break
				}
			}
		}
		c.Values[l] = row
	}
	return c, nil
}

func segmentProb(seg Segment) float64 {
	if seg.Confidence == nil {
		return 1
	}
	return *seg.Confidence
}
