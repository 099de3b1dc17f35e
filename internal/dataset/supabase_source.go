package dataset

import (
	"context"
	"encoding/json"
	"fmt"

	postgrest "github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"audiodash/models"
)

// DefaultTracksTable is the table read when no table name is configured.
const DefaultTracksTable = "tracks"

// trackRow maps a row of the tracks table.
type trackRow struct {
	TrackID     string            `json:"track_id"`
	Title       *string           `json:"title,omitempty"`  // Nullable TEXT
	Artist      *string           `json:"artist,omitempty"` // Nullable TEXT
	Audio       *string           `json:"audio,omitempty"`  // Nullable TEXT
	Annotations map[string]string `json:"annotations"`      // JSONB name -> location
	Position    int               `json:"position"`
}

// SupabaseSource reads the manifest from a Supabase table ordered by position.
type SupabaseSource struct {
	Client *supa.Client
	Table  string
	// Base resolves relative audio and annotation locations, usually a storage bucket URL.
	Base string
}

// NewSupabaseSource initializes a Supabase client for the given project.
func NewSupabaseSource(projectURL, key, table, base string) (*SupabaseSource, error) {
	client, err := supa.NewClient(projectURL, key, nil)
	if err != nil {
		return nil, &models.DatasetLoadError{Source: projectURL, Err: err}
	}
	if table == "" {
		table = DefaultTracksTable
	}
	return &SupabaseSource{Client: client, Table: table, Base: base}, nil
}

// Load queries the tracks table and builds the dataset.
func (s *SupabaseSource) Load(_ context.Context, fetcher AnnotationFetcher) (*Dataset, error) {
	source := "supabase:" + s.Table

	body, _, err := s.Client.From(s.Table).
		Select("*", "", false).
		Order("position", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, &models.DatasetLoadError{Source: source, Err: err}
	}

	var rows []trackRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &models.DatasetLoadError{Source: source, Err: fmt.Errorf("decode rows: %w", err)}
	}

	ds, err := New(s.rowsToInfos(rows), fetcher)
	if err != nil {
		return nil, &models.DatasetLoadError{Source: source, Err: err}
	}
	return ds, nil
}

func (s *SupabaseSource) rowsToInfos(rows []trackRow) []models.TrackInfo {
	infos := make([]models.TrackInfo, 0, len(rows))
	for _, row := range rows {
		info := models.TrackInfo{
			ID:          row.TrackID,
			Annotations: make(map[string]string, len(row.Annotations)),
		}
		if row.Title != nil {
			info.Title = *row.Title
		}
		if row.Artist != nil {
			info.Artist = *row.Artist
		}
		if row.Audio != nil {
			info.AudioPath = resolve(s.Base, *row.Audio)
		}
		for name, loc := range row.Annotations {
			if loc != "" {
				info.Annotations[name] = resolve(s.Base, loc)
			}
		}
		infos = append(infos, info)
	}
	return infos
}
