package handlers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"audiodash/internal/controller"
	"audiodash/internal/dataset"
	"audiodash/internal/playhead"
	"audiodash/internal/plot"
	"audiodash/internal/worker"
	"audiodash/middleware"
	"audiodash/models"
)

func f64(v float64) *float64 { return &v }

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func testApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ann := &models.Annotation{Start: f64(0), End: f64(120), Layers: []models.Layer{
		{Name: "function", Segments: []models.Segment{
			{Start: 0, End: 60, Label: "verse"},
			{Start: 60, End: 120, Label: "chorus"},
		}},
	}}
	fetcher := dataset.StaticFetcher{"mem://ann": ann}
	ds, err := dataset.New([]models.TrackInfo{
		{ID: "SALAMI_2", Title: "First", AudioPath: "https://cdn.example.com/2.mp3",
			Annotations: map[string]string{"reference": "mem://ann", "adobe-mu1gamma1": "mem://ann"}},
		{ID: "SALAMI_8", Title: "Second", AudioPath: "https://cdn.example.com/8.mp3",
			Annotations: map[string]string{"adobe-mu1gamma1": "mem://ann"}},
	}, fetcher)
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}

	events := worker.NewRouter(8, logger)
	t.Cleanup(events.Stop)

	ctrl := controller.New(ds, plot.NewComposer("", ""), playhead.NewHub(), logger, controller.DefaultTrackIndex)
	h := NewApplicationHandler(ctrl, ds, controller.NewSessions(), events, logger)

	app := fiber.New()
	app.Use(middleware.RequestLogger(logger))
	h.Register(app)
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	var env envelope
	body, _ := io.ReadAll(resp.Body)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(body, &env); err != nil {
			t.Fatalf("decode %s: %v (%s)", req.URL, err, body)
		}
	}
	return resp, env
}

func jsonRequest(method, target, body string, cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestHealth(t *testing.T) {
	app := testApp(t)
	resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestListTracks(t *testing.T) {
	app := testApp(t)
	resp, env := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/tracks", nil))
	if resp.StatusCode != fiber.StatusOK || env.Status != "success" {
		t.Fatalf("status = %d %s", resp.StatusCode, env.Status)
	}
	var tracks []models.TrackSummary
	if err := json.Unmarshal(env.Data, &tracks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tracks) != 2 || tracks[0].ID != "SALAMI_2" || tracks[1].ID != "SALAMI_8" {
		t.Fatalf("unexpected tracks %+v", tracks)
	}
}

func TestGetTrackChart(t *testing.T) {
	app := testApp(t)

	resp, env := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/tracks/SALAMI_2/chart", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, env.Message)
	}
	var data struct {
		Chart  models.ChartSpec `json:"chart"`
		Figure models.Figure    `json:"figure"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(data.Chart.Panels) != 3 || data.Chart.XRange != [2]float64{0, 120} {
		t.Fatalf("unexpected chart %+v", data.Chart)
	}
	if _, ok := data.Figure.Layout["shapes"]; !ok {
		t.Fatalf("figure has no playhead shape")
	}

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/tracks/SALAMI_99/chart", nil))
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("unknown track status = %d", resp.StatusCode)
	}

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/tracks/SALAMI_8/chart", nil))
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("missing reference status = %d", resp.StatusCode)
	}
}

func TestGetTrackChartPNG(t *testing.T) {
	app := testApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/tracks/SALAMI_2/chart.png?t=30&width=600&height=400", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK || !bytes.HasPrefix(body, []byte("\x89PNG")) {
		t.Fatalf("expected PNG, got %d %q", resp.StatusCode, body[:min(len(body), 32)])
	}

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/tracks/SALAMI_2/chart.png?t=abc", nil))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("bad t status = %d", resp.StatusCode)
	}
}

func TestGetTrackAudio(t *testing.T) {
	app := testApp(t)
	resp, env := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/tracks/SALAMI_8/audio", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var info AudioInfo
	if err := json.Unmarshal(env.Data, &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.AudioURL != "https://cdn.example.com/8.mp3" || info.Duration != nil {
		t.Fatalf("unexpected audio info %+v", info)
	}
}

func TestSessionFlow(t *testing.T) {
	app := testApp(t)

	resp, env := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/init", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("init status = %d", resp.StatusCode)
	}
	var initData InitData
	if err := json.Unmarshal(env.Data, &initData); err != nil {
		t.Fatalf("decode init: %v", err)
	}
	if initData.TrackID == nil || *initData.TrackID != "SALAMI_2" {
		t.Fatalf("two-track dataset should start on the first track, got %v", initData.TrackID)
	}
	cookies := resp.Cookies()
	if len(cookies) == 0 || cookies[0].Name != middleware.SessionCookie {
		t.Fatalf("expected session cookie, got %v", cookies)
	}

	// valid selection
	resp, env = do(t, app, jsonRequest(http.MethodPost, "/api/v1/select", `{"track_id":"SALAMI_2"}`, cookies))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("select status = %d: %s", resp.StatusCode, env.Message)
	}
	var sel SelectTrackData
	if err := json.Unmarshal(env.Data, &sel); err != nil {
		t.Fatalf("decode select: %v", err)
	}
	if sel.Noop || sel.Update == nil || sel.Figure == nil || sel.Update.Autoplay {
		t.Fatalf("unexpected selection %+v", sel)
	}

	// unknown and null ids are no-ops
	for _, body := range []string{`{"track_id":"SALAMI_99"}`, `{"track_id":null}`, `{}`} {
		resp, env = do(t, app, jsonRequest(http.MethodPost, "/api/v1/select", body, cookies))
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("%s: status = %d", body, resp.StatusCode)
		}
		sel = SelectTrackData{}
		if err := json.Unmarshal(env.Data, &sel); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !sel.Noop || sel.Update != nil {
			t.Fatalf("%s: expected noop, got %+v", body, sel)
		}
	}

	// missing reference shows a placeholder, second selection autoplays
	resp, env = do(t, app, jsonRequest(http.MethodPost, "/api/v1/select", `{"track_id":"SALAMI_8"}`, cookies))
	sel = SelectTrackData{}
	if err := json.Unmarshal(env.Data, &sel); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK || sel.Update == nil || sel.Figure != nil || sel.Update.Placeholder == "" || !sel.Update.Autoplay {
		t.Fatalf("unexpected placeholder selection %+v", sel)
	}
}

func TestToggleNavbar(t *testing.T) {
	app := testApp(t)

	resp, env := do(t, app, jsonRequest(http.MethodPost, "/api/v1/navbar", `{"is_open":false}`, nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, env.Message)
	}
	var cfg controller.NavbarConfig
	if err := json.Unmarshal(env.Data, &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !cfg.IsOpen {
		t.Fatalf("expected navbar open")
	}

	resp, _ = do(t, app, jsonRequest(http.MethodPost, "/api/v1/navbar", `{}`, nil))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("missing is_open status = %d", resp.StatusCode)
	}
}

func TestPublishPlayhead(t *testing.T) {
	app := testApp(t)

	resp, env := do(t, app, jsonRequest(http.MethodPost, "/api/v1/playhead", `{"time":-3}`, nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, env.Message)
	}
	var o playhead.Overlay
	if err := json.Unmarshal(env.Data, &o); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if o.X0 != 0 || o.X1 != 0 {
		t.Fatalf("negative time should clamp to 0, got %+v", o)
	}

	resp, _ = do(t, app, jsonRequest(http.MethodPost, "/api/v1/playhead", `{}`, nil))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("missing time status = %d", resp.StatusCode)
	}
}

func TestDashboardPage(t *testing.T) {
	app := testApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	page := string(body)
	for _, want := range []string{
		`id="annotation-graph"`, `id="audio-player"`, `value="SALAMI_8"`, `data-initial="SALAMI_2"`,
		`id="track-search"`, `@media (min-width: 992px)`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("page missing %s", want)
		}
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/assets/dashboard.js", nil), -1)
	if err != nil || resp.StatusCode != fiber.StatusOK {
		t.Fatalf("script: %v %d", err, resp.StatusCode)
	}
	body, _ = io.ReadAll(resp.Body)
	script := string(body)
	// playback sync samples every frame, resets on end and pauses while the chart is pressed
	for _, want := range []string{`requestAnimationFrame(tick)`, `addEventListener("ended"`, `isUserInteracting = true`, `/api/v1/playhead/stream`} {
		if !strings.Contains(script, want) {
			t.Fatalf("script missing %s", want)
		}
	}
}

func TestStreamOverlays(t *testing.T) {
	updates := make(chan playhead.Overlay, 2)
	updates <- playhead.Overlay{Shape: 0, X0: 12.5, X1: 12.5}
	close(updates)

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := streamOverlays(w, updates, make(chan time.Time)); err != nil {
		t.Fatalf("streamOverlays: %v", err)
	}
	want := "event: playhead\ndata: {\"shape\":0,\"x0\":12.5,\"x1\":12.5}\n\n"
	if buf.String() != want {
		t.Fatalf("stream = %q, want %q", buf.String(), want)
	}
}
