// Package plot composes the three-row annotation comparison chart for a track.
package plot

import (
	"context"
	"fmt"

	"audiodash/models"
)

const (
	DefaultReference = "reference"
	DefaultEstimated = "adobe-mu1gamma1"

	verticalSpacing = 0.05
)

// rowHeights are the relative heights of the reference, estimated and contour rows.
var rowHeights = [3]float64{0.15, 0.40, 0.45}

// AnnotationLoader is the part of a track the composer reads.
type AnnotationLoader interface {
	ID() string
	LoadAnnotation(ctx context.Context, name string) (*models.Annotation, error)
}

// Composer builds chart specs. It holds no state between calls.
type Composer struct {
	Reference    string
	Estimated    string
	ContourField string
}

// NewComposer returns a composer for the given annotation names. Empty names
// fall back to the defaults.
func NewComposer(reference, estimated string) *Composer {
	if reference == "" {
		reference = DefaultReference
	}
	if estimated == "" {
		estimated = DefaultEstimated
	}
	return &Composer{
		Reference:    reference,
		Estimated:    estimated,
		ContourField: models.ContourFieldProb,
	}
}

// Compose loads both annotations of the track and lays out the reference,
// estimated and contour panels on a time axis clamped to the reference span.
func (c *Composer) Compose(ctx context.Context, track AnnotationLoader) (*models.ChartSpec, error) {
	ref, err := track.LoadAnnotation(ctx, c.Reference)
	if err != nil {
		return nil, err
	}
	est, err := track.LoadAnnotation(ctx, c.Estimated)
	if err != nil {
		return nil, err
	}
	contour, err := est.Contour(c.ContourField)
	if err != nil {
		return nil, fmt.Errorf("derive contour for track %s: %w", track.ID(), err)
	}

	start, end := ref.Span()
	xRange := [2]float64{start, end}
	domains := rowDomains()

	spec := &models.ChartSpec{
		TrackID: track.ID(),
		XRange:  xRange,
		Panels: []models.Panel{
			categoricalPanel(models.PanelReference, 1, ref),
			categoricalPanel(models.PanelEstimated, 2, est),
			contourPanel(3, est, contour),
		},
	}
	for i := range spec.Panels {
		spec.Panels[i].Height = rowHeights[i]
		spec.Panels[i].Domain = domains[i]
		spec.Panels[i].XRange = xRange
	}
	return spec, nil
}

// rowDomains splits the paper height into three stacked rows, top row first.
func rowDomains() [3][2]float64 {
	var domains [3][2]float64
	avail := 1 - verticalSpacing*float64(len(rowHeights)-1)
	top := 1.0
	for i, h := range rowHeights {
		bottom := top - h*avail
		if i == len(rowHeights)-1 {
			bottom = 0
		}
		domains[i] = [2]float64{bottom, top}
		top = bottom - verticalSpacing
	}
	return domains
}

func categoricalPanel(kind models.PanelKind, row int, ann *models.Annotation) models.Panel {
	traces := segmentTraces(ann, row)
	return models.Panel{
		Kind:       kind,
		Annotation: ann.Name,
		Row:        row,
		Categories: ann.ReversedLayerNames(),
		Empty:      len(traces) == 0,
		Traces:     traces,
	}
}

func contourPanel(row int, est *models.Annotation, contour *models.Contour) models.Panel {
	traces := contourTraces(contour, row)
	return models.Panel{
		Kind:       models.PanelContour,
		Annotation: est.Name,
		Row:        row,
		Categories: est.ReversedLayerNames(),
		Empty:      len(traces) == 0,
		Traces:     traces,
	}
}
