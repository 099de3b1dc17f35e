package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"audiodash/models"
)

const manifestCSV = `track_id,title,artist,audio,annotation.reference,annotation.adobe-mu1gamma1
SALAMI_2,Song Two,Artist A,,true,true
SALAMI_8,Song Eight,Artist B,audio/8.mp3,refs/8.json,false
SALAMI_21,,,https://cdn.example.com/21.mp3,https://cdn.example.com/21_ref.json,1
`

func TestParseManifest_LocalBase(t *testing.T) {
	infos, err := ParseManifest(strings.NewReader(manifestCSV), "/data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(infos))
	}

	first := infos[0]
	if first.ID != "SALAMI_2" || first.Title != "Song Two" || first.Artist != "Artist A" {
		t.Fatalf("unexpected first row %+v", first)
	}
	if first.AudioPath != "/data/SALAMI_2/audio.mp3" {
		t.Fatalf("derived audio = %q", first.AudioPath)
	}
	wantAnn := map[string]string{
		"reference":       "/data/SALAMI_2/reference.json",
		"adobe-mu1gamma1": "/data/SALAMI_2/adobe-mu1gamma1.json",
	}
	if !reflect.DeepEqual(first.Annotations, wantAnn) {
		t.Fatalf("annotations = %v, want %v", first.Annotations, wantAnn)
	}

	second := infos[1]
	if second.AudioPath != "/data/audio/8.mp3" {
		t.Fatalf("audio = %q", second.AudioPath)
	}
	if _, ok := second.Annotations["adobe-mu1gamma1"]; ok {
		t.Fatalf("false cell must mark the annotation absent")
	}
	if second.Annotations["reference"] != "/data/refs/8.json" {
		t.Fatalf("reference = %q", second.Annotations["reference"])
	}

	third := infos[2]
	if third.AudioPath != "https://cdn.example.com/21.mp3" {
		t.Fatalf("absolute audio URL changed: %q", third.AudioPath)
	}
	if third.Annotations["reference"] != "https://cdn.example.com/21_ref.json" {
		t.Fatalf("absolute annotation URL changed: %q", third.Annotations["reference"])
	}
}

func TestParseManifest_URLBase(t *testing.T) {
	infos, err := ParseManifest(strings.NewReader(manifestCSV), "https://bucket.example.com/sets/manifest.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := infos[0].Annotations["reference"]; got != "https://bucket.example.com/sets/SALAMI_2/reference.json" {
		t.Fatalf("reference = %q", got)
	}
}

func TestParseManifest_ByteOrderMark(t *testing.T) {
	infos, err := ParseManifest(strings.NewReader("\ufeff"+manifestCSV), "/data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 3 || infos[0].ID != "SALAMI_2" {
		t.Fatalf("unexpected rows %+v", infos)
	}
}

func TestParseManifest_Errors(t *testing.T) {
	if _, err := ParseManifest(strings.NewReader(""), "/"); err == nil {
		t.Fatalf("expected error for empty manifest")
	}
	if _, err := ParseManifest(strings.NewReader("title,artist\nx,y\n"), "/"); err == nil {
		t.Fatalf("expected error for missing track_id column")
	}
}

func TestNew_RejectsDuplicateAndEmptyIDs(t *testing.T) {
	if _, err := New([]models.TrackInfo{{ID: "a"}, {ID: "a"}}, nil); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if _, err := New([]models.TrackInfo{{ID: ""}}, nil); err == nil {
		t.Fatalf("expected empty id error")
	}
}

func TestDataset_LookupAndOrder(t *testing.T) {
	ds, err := New([]models.TrackInfo{{ID: "SALAMI_2"}, {ID: "SALAMI_8"}, {ID: "SALAMI_21"}}, StaticFetcher{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(ds.IDs(), []string{"SALAMI_2", "SALAMI_8", "SALAMI_21"}) {
		t.Fatalf("IDs = %v", ds.IDs())
	}
	tr, err := ds.TrackAt(1)
	if err != nil || tr.ID() != "SALAMI_8" {
		t.Fatalf("TrackAt(1) = %v, %v", tr, err)
	}
	if _, err := ds.TrackAt(3); err == nil {
		t.Fatalf("expected out of range error")
	}

	_, err = ds.Track("SALAMI_99")
	var sel *models.InvalidSelectionError
	if !errors.As(err, &sel) || sel.TrackID != "SALAMI_99" {
		t.Fatalf("expected InvalidSelectionError, got %v", err)
	}
}

func TestTrack_LoadAnnotation(t *testing.T) {
	ref := &models.Annotation{Layers: []models.Layer{{Name: "coarse"}}}
	ds, err := New([]models.TrackInfo{{
		ID:          "SALAMI_8",
		Annotations: map[string]string{"reference": "mem://ref"},
	}}, StaticFetcher{"mem://ref": ref})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr, _ := ds.Track("SALAMI_8")

	ann, err := tr.LoadAnnotation(context.Background(), "reference")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ann.Name != "reference" || len(ann.Layers) != 1 {
		t.Fatalf("unexpected annotation %+v", ann)
	}

	_, err = tr.LoadAnnotation(context.Background(), "adobe-mu1gamma1")
	var missing *models.MissingAnnotationError
	if !errors.As(err, &missing) || missing.Name != "adobe-mu1gamma1" {
		t.Fatalf("expected MissingAnnotationError, got %v", err)
	}
}

func TestTrack_AudioURL(t *testing.T) {
	local := &Track{Info: models.TrackInfo{ID: "SALAMI 8", AudioPath: "/data/8.mp3"}}
	if got := local.AudioURL(); got != "/media/SALAMI%208" {
		t.Fatalf("local AudioURL = %q", got)
	}
	remote := &Track{Info: models.TrackInfo{ID: "x", AudioPath: "https://cdn.example.com/x.mp3"}}
	if got := remote.AudioURL(); got != "https://cdn.example.com/x.mp3" {
		t.Fatalf("remote AudioURL = %q", got)
	}
}

func TestLoadCSV_FromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/manifest.csv":
			w.Write([]byte("track_id,annotation.reference\nSALAMI_2,true\n"))
		case "/SALAMI_2/reference.json":
			w.Write([]byte(`{"start":0,"end":180.5,"layers":[{"name":"coarse","segments":[{"start":0,"end":180.5,"label":"A"}]}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ds, err := LoadCSV(context.Background(), srv.URL+"/manifest.csv", NewSourceFetcher(5*time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr, err := ds.Track("SALAMI_2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ann, err := tr.LoadAnnotation(context.Background(), "reference")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start, end := ann.Span(); start != 0 || end != 180.5 {
		t.Fatalf("span = [%v,%v]", start, end)
	}
}

func TestLoadCSV_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := LoadCSV(context.Background(), srv.URL+"/manifest.csv", NewSourceFetcher(time.Second))
	var loadErr *models.DatasetLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected DatasetLoadError, got %v", err)
	}
}

func TestLoadCSV_LocalFile(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "manifest.csv")
	if err := os.WriteFile(manifest, []byte("track_id,audio\nA,a.wav\nB,\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	ds, err := LoadCSV(context.Background(), manifest, NewSourceFetcher(time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("Len = %d", ds.Len())
	}
	tr, _ := ds.Track("A")
	if tr.Info.AudioPath != filepath.Join(dir, "a.wav") {
		t.Fatalf("audio = %q", tr.Info.AudioPath)
	}
}

func TestSupabaseRowsToInfos(t *testing.T) {
	title := "Song"
	audio := "8/audio.mp3"
	src := &SupabaseSource{Table: DefaultTracksTable, Base: "https://store.example.com/bucket/"}
	infos := src.rowsToInfos([]trackRow{{
		TrackID:     "SALAMI_8",
		Title:       &title,
		Audio:       &audio,
		Annotations: map[string]string{"reference": "8/reference.json", "empty": ""},
	}})
	if len(infos) != 1 {
		t.Fatalf("expected 1 info, got %d", len(infos))
	}
	got := infos[0]
	if got.Title != "Song" || got.Artist != "" {
		t.Fatalf("unexpected metadata %+v", got)
	}
	if got.AudioPath != "https://store.example.com/bucket/8/audio.mp3" {
		t.Fatalf("audio = %q", got.AudioPath)
	}
	if len(got.Annotations) != 1 || got.Annotations["reference"] != "https://store.example.com/bucket/8/reference.json" {
		t.Fatalf("annotations = %v", got.Annotations)
	}
}
