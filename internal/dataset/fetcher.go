package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"audiodash/models"
)

// SourceFetcher reads manifests and annotation documents from local files or
// http(s) URLs.
type SourceFetcher struct {
	Client *http.Client
}

// NewSourceFetcher returns a fetcher whose HTTP requests time out after timeout.
func NewSourceFetcher(timeout time.Duration) *SourceFetcher {
	return &SourceFetcher{Client: &http.Client{Timeout: timeout}}
}

// Read returns the raw bytes stored at location.
func (f *SourceFetcher) Read(ctx context.Context, location string) ([]byte, error) {
	if !isRemote(location) {
		return os.ReadFile(location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", location, err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", location, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// FetchAnnotation reads and decodes an annotation document.
func (f *SourceFetcher) FetchAnnotation(ctx context.Context, location string) (*models.Annotation, error) {
	body, err := f.Read(ctx, location)
	if err != nil {
		return nil, err
	}
	var ann models.Annotation
	if err := json.Unmarshal(body, &ann); err != nil {
		return nil, fmt.Errorf("decode annotation %s: %w", location, err)
	}
	return &ann, nil
}

// StaticFetcher serves annotations from memory, keyed by location.
type StaticFetcher map[string]*models.Annotation

func (s StaticFetcher) FetchAnnotation(_ context.Context, location string) (*models.Annotation, error) {
	ann, ok := s[location]
	if !ok {
		return nil, fmt.Errorf("no annotation at %s", location)
	}
	cp := *ann
	return &cp, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// baseOf returns the location relative references in a manifest resolve against.
func baseOf(manifest string) string {
	if isRemote(manifest) {
		return manifest
	}
	return filepath.Dir(manifest)
}

// resolve joins ref onto base. Absolute URLs and absolute paths are returned as is.
func resolve(base, ref string) string {
	if ref == "" || isRemote(ref) {
		return ref
	}
	if isRemote(base) {
		b, err := url.Parse(base)
		if err != nil {
			return ref
		}
		r, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return b.ResolveReference(r).String()
	}
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(base, ref)
}
