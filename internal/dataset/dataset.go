// Package dataset exposes the ordered collection of tracks listed by a manifest
// and loads their annotations on demand.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"

	"audiodash/models"
)

// AnnotationFetcher retrieves an annotation document from its location.
type AnnotationFetcher interface {
	FetchAnnotation(ctx context.Context, location string) (*models.Annotation, error)
}

// Dataset is the read-only, ordered set of tracks built once at startup.
type Dataset struct {
	ids     []string
	tracks  map[string]models.TrackInfo
	fetcher AnnotationFetcher
}

// New builds a dataset from manifest rows, keeping their order.
// Track ids must be unique and non-empty.
func New(infos []models.TrackInfo, fetcher AnnotationFetcher) (*Dataset, error) {
	ds := &Dataset{
		ids:     make([]string, 0, len(infos)),
		tracks:  make(map[string]models.TrackInfo, len(infos)),
		fetcher: fetcher,
	}
	for i, info := range infos {
		if info.ID == "" {
			return nil, fmt.Errorf("manifest row %d has an empty track id", i+1)
		}
		if _, dup := ds.tracks[info.ID]; dup {
			return nil, fmt.Errorf("duplicate track id %q", info.ID)
		}
		ds.ids = append(ds.ids, info.ID)
		ds.tracks[info.ID] = info
	}
	return ds, nil
}

// IDs returns the track ids in manifest order.
func (d *Dataset) IDs() []string {
	out := make([]string, len(d.ids))
	copy(out, d.ids)
	return out
}

func (d *Dataset) Len() int { return len(d.ids) }

// Track looks a track up by id. Unknown ids yield *models.InvalidSelectionError.
func (d *Dataset) Track(id string) (*Track, error) {
	info, ok := d.tracks[id]
	if !ok {
		return nil, &models.InvalidSelectionError{TrackID: id}
	}
	return &Track{Info: info, fetcher: d.fetcher}, nil
}

// TrackAt returns the i-th track in manifest order.
func (d *Dataset) TrackAt(i int) (*Track, error) {
	if i < 0 || i >= len(d.ids) {
		return nil, fmt.Errorf("track index %d out of range [0,%d)", i, len(d.ids))
	}
	return d.Track(d.ids[i])
}

// Summaries lists every track for the selection control.
func (d *Dataset) Summaries() []models.TrackSummary {
	out := make([]models.TrackSummary, 0, len(d.ids))
	for _, id := range d.ids {
		info := d.tracks[id]
		names := info.AnnotationNames()
		sort.Strings(names)
		out = append(out, models.TrackSummary{
			ID:          info.ID,
			Title:       info.Title,
			Artist:      info.Artist,
			Annotations: names,
		})
	}
	return out
}

// Track is one dataset entry. Annotations are fetched on every call.
type Track struct {
	Info    models.TrackInfo
	fetcher AnnotationFetcher
}

// ID returns the track identifier.
func (t *Track) ID() string { return t.Info.ID }

// LoadAnnotation fetches the named annotation. A name the manifest does not
// declare for the track yields *models.MissingAnnotationError.
func (t *Track) LoadAnnotation(ctx context.Context, name string) (*models.Annotation, error) {
	location, ok := t.Info.Annotations[name]
	if !ok || location == "" {
		return nil, &models.MissingAnnotationError{TrackID: t.Info.ID, Name: name}
	}
	if t.fetcher == nil {
		return nil, errors.New("dataset has no annotation fetcher")
	}
	ann, err := t.fetcher.FetchAnnotation(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("load annotation %q of track %s: %w", name, t.Info.ID, err)
	}
	if ann.Name == "" {
		ann.Name = name
	}
	return ann, nil
}

// IsRemote reports whether the track audio is served from an http(s) location.
func (t *Track) IsRemote() bool {
	return isRemote(t.Info.AudioPath)
}

// AudioURL returns the URL the browser should play. Local files are exposed
// through the media route.
func (t *Track) AudioURL() string {
	if t.Info.AudioPath == "" {
		return ""
	}
	if t.IsRemote() {
		return t.Info.AudioPath
	}
	return "/media/" + url.PathEscape(t.Info.ID)
}
