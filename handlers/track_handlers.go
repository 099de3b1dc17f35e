package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"audiodash/internal/dataset"
	"audiodash/internal/plot"
	"audiodash/internal/probe"
	"audiodash/models"
	"audiodash/utils"
)

// TrackListResponse lists the tracks in manifest order.
type TrackListResponse struct {
	Status string                `json:"status"`
	Data   []models.TrackSummary `json:"data"`
}

// ChartData is a chart spec with its Plotly figure.
type ChartData struct {
	Chart  *models.ChartSpec `json:"chart"`
	Figure models.Figure     `json:"figure"`
}

// ChartResponse wraps ChartData.
type ChartResponse struct {
	Status string    `json:"status"`
	Data   ChartData `json:"data"`
}

// AudioInfo describes where a track's audio is played from.
type AudioInfo struct {
	TrackID  string   `json:"track_id"`
	AudioURL string   `json:"audio_url"`
	Duration *float64 `json:"duration_seconds,omitempty"`
	Format   string   `json:"format,omitempty"`
}

// AudioInfoResponse wraps AudioInfo.
type AudioInfoResponse struct {
	Status string    `json:"status"`
	Data   AudioInfo `json:"data"`
}

// trackParam returns the unescaped :id path parameter.
func trackParam(c *fiber.Ctx) string {
	raw := c.Params("id")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}

// respondTrackError maps dataset and composer errors to HTTP responses.
func (h *ApplicationHandler) respondTrackError(c *fiber.Ctx, id string, err error) error {
	var invalid *models.InvalidSelectionError
	var missing *models.MissingAnnotationError
	switch {
	case errors.As(err, &invalid):
		return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Track %s not found", id))
	case errors.As(err, &missing):
		return utils.RespondWithError(c, fiber.StatusUnprocessableEntity, err.Error())
	default:
		h.Logger.WithFields(logrus.Fields{"track_id": id}).WithError(err).Error("Error loading track")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not load track %s", id))
	}
}

// ListTracks godoc
// @Summary List tracks
// @Description Lists every track of the dataset in manifest order.
// @Tags tracks
// @Produce json
// @Success 200 {object} TrackListResponse
// @Router /tracks [get]
func (h *ApplicationHandler) ListTracks(c *fiber.Ctx) error {
	return utils.RespondWithJSON(c, fiber.StatusOK, h.Dataset.Summaries())
}

// GetTrackChart godoc
// @Summary Get a track's chart
// @Description Composes the three-panel chart of a track and returns it with its Plotly figure.
// @Tags tracks
// @Produce json
// @Param id path string true "Track ID"
// @Success 200 {object} ChartResponse
// @Failure 404 {object} ErrorResponse "Unknown track"
// @Failure 422 {object} ErrorResponse "Required annotation missing"
// @Router /tracks/{id}/chart [get]
func (h *ApplicationHandler) GetTrackChart(c *fiber.Ctx) error {
	id := trackParam(c)
	chart, err := h.Controller.ChartFor(c.UserContext(), id)
	if err != nil {
		return h.respondTrackError(c, id, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, ChartData{Chart: chart, Figure: chart.Figure()})
}

// GetTrackChartPNG godoc
// @Summary Export a track's chart as PNG
// @Tags tracks
// @Produce png
// @Param id path string true "Track ID"
// @Param t query number false "Playhead time in seconds"
// @Param width query int false "Image width in pixels"
// @Param height query int false "Image height in pixels"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tracks/{id}/chart.png [get]
func (h *ApplicationHandler) GetTrackChartPNG(c *fiber.Ctx) error {
	id := trackParam(c)

	opts := plot.PNGOptions{
		Width:  c.QueryInt("width", 1200),
		Height: c.QueryInt("height", 800),
	}
	if opts.Width <= 0 || opts.Height <= 0 || opts.Width > 4096 || opts.Height > 4096 {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "width and height must be between 1 and 4096")
	}
	if raw := c.Query("t"); raw != "" {
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid playhead time %q", raw))
		}
		opts.Playhead = &t
	}

	chart, err := h.Controller.ChartFor(c.UserContext(), id)
	if err != nil {
		return h.respondTrackError(c, id, err)
	}

	var buf bytes.Buffer
	if err := plot.RenderPNG(chart, &buf, opts); err != nil {
		h.Logger.WithField("track_id", id).WithError(err).Error("Error rendering chart PNG")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not render chart")
	}
	c.Type("png")
	return c.Send(buf.Bytes())
}

// GetTrackAudio godoc
// @Summary Get a track's audio source
// @Description Returns the URL the player loads; includes the duration when audio probing is enabled.
// @Tags tracks
// @Produce json
// @Param id path string true "Track ID"
// @Success 200 {object} AudioInfoResponse
// @Failure 404 {object} ErrorResponse
// @Router /tracks/{id}/audio [get]
func (h *ApplicationHandler) GetTrackAudio(c *fiber.Ctx) error {
	id := trackParam(c)
	track, err := h.Dataset.Track(id)
	if err != nil {
		return h.respondTrackError(c, id, err)
	}

	info := AudioInfo{TrackID: track.ID(), AudioURL: track.AudioURL()}
	if h.ProbeAudio {
		h.probeInto(c.UserContext(), track, &info)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, info)
}

func (h *ApplicationHandler) probeInto(ctx context.Context, track *dataset.Track, info *AudioInfo) {
	probed, err := probe.Probe(ctx, track.Info.AudioPath)
	if err != nil {
		h.Logger.WithField("track_id", track.ID()).WithError(err).Warn("Could not probe audio")
		return
	}
	info.Duration = &probed.Duration
	info.Format = probed.Format
}

// ServeMedia streams the audio file of a track stored on the local filesystem.
func (h *ApplicationHandler) ServeMedia(c *fiber.Ctx) error {
	id := trackParam(c)
	track, err := h.Dataset.Track(id)
	if err != nil {
		return h.respondTrackError(c, id, err)
	}
	if track.IsRemote() {
		return c.Redirect(track.Info.AudioPath, fiber.StatusFound)
	}
	return c.SendFile(track.Info.AudioPath)
}
