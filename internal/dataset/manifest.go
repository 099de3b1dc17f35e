package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"audiodash/models"
)

const annotationColumnPrefix = "annotation."

// LoadCSV reads a CSV manifest from a local path or URL and builds the dataset.
// Any failure is reported as *models.DatasetLoadError.
func LoadCSV(ctx context.Context, location string, fetcher *SourceFetcher) (*Dataset, error) {
	body, err := fetcher.Read(ctx, location)
	if err != nil {
		return nil, &models.DatasetLoadError{Source: location, Err: err}
	}
	infos, err := ParseManifest(bytes.NewReader(body), baseOf(location))
	if err != nil {
		return nil, &models.DatasetLoadError{Source: location, Err: err}
	}
	ds, err := New(infos, fetcher)
	if err != nil {
		return nil, &models.DatasetLoadError{Source: location, Err: err}
	}
	return ds, nil
}

// ParseManifest parses manifest rows. Relative annotation and audio locations
// resolve against base. Boolean annotation cells mark the document as present
// at <track_id>/<name>.json.
func ParseManifest(r io.Reader, base string) ([]models.TrackInfo, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("manifest is empty")
		}
		return nil, fmt.Errorf("read manifest header: %w", err)
	}

	// spreadsheet exports often start with a UTF-8 byte order mark
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idCol, ok := cols["track_id"]
	if !ok {
		return nil, errors.New("manifest has no track_id column")
	}

	var infos []models.TrackInfo
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read manifest line %d: %w", line, err)
		}

		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		id := strings.TrimSpace(record[idCol])
		info := models.TrackInfo{
			ID:          id,
			Title:       cell("title"),
			Artist:      cell("artist"),
			Annotations: make(map[string]string),
		}

		audio := cell("audio")
		if audio == "" {
			audio = path.Join(id, "audio.mp3")
		}
		info.AudioPath = resolve(base, audio)

		for i, raw := range header {
			name := strings.TrimSpace(raw)
			if !strings.HasPrefix(strings.ToLower(name), annotationColumnPrefix) || i >= len(record) {
				continue
			}
			annName := name[len(annotationColumnPrefix):]
			if loc, ok := annotationLocation(id, annName, strings.TrimSpace(record[i])); ok {
				info.Annotations[annName] = resolve(base, loc)
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func annotationLocation(trackID, name, value string) (string, bool) {
	switch strings.ToLower(value) {
	case "", "false", "0", "no":
		return "", false
	case "true", "1", "yes":
		return path.Join(trackID, name+".json"), true
	default:
		return value, true
	}
}
