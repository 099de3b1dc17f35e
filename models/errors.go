package models

import "fmt"

// DatasetLoadError reports a manifest that could not be read or parsed.
// It is fatal at startup.
type DatasetLoadError struct {
	Source string
	Err    error
}

func (e *DatasetLoadError) Error() string {
	return fmt.Sprintf("load dataset from %s: %v", e.Source, e.Err)
}

func (e *DatasetLoadError) Unwrap() error { return e.Err }

// MissingAnnotationError reports a track without a required named annotation.
type MissingAnnotationError struct {
	TrackID string
	Name    string
}

func (e *MissingAnnotationError) Error() string {
	return fmt.Sprintf("track %s has no %q annotation", e.TrackID, e.Name)
}

// InvalidSelectionError reports a selected id that is not part of the dataset.
type InvalidSelectionError struct {
	TrackID string
}

func (e *InvalidSelectionError) Error() string {
	if e.TrackID == "" {
		return "no track selected"
	}
	return fmt.Sprintf("track %s is not in the dataset", e.TrackID)
}
