package models

// TrackInfo is one manifest row: metadata, audio location and the locations of
// the annotations available for the track.
type TrackInfo struct {
	ID          string            `json:"track_id"`
	Title       string            `json:"title,omitempty"`
	Artist      string            `json:"artist,omitempty"`
	AudioPath   string            `json:"audio"`
	Annotations map[string]string `json:"annotations"` // name -> document location
}

// AnnotationNames lists the annotations declared for the track.
func (t TrackInfo) AnnotationNames() []string {
	names := make([]string, 0, len(t.Annotations))
	for name := range t.Annotations {
		names = append(names, name)
	}
	return names
}

// TrackSummary is the public listing form of a track used by the dropdown.
type TrackSummary struct {
	ID          string   `json:"track_id"`
	Title       string   `json:"title,omitempty"`
	Artist      string   `json:"artist,omitempty"`
	Annotations []string `json:"annotations"`
}
