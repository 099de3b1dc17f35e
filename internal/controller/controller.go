// Package controller holds the dashboard's event handlers. Each handler takes
// explicit inputs and returns the view update; the only state it touches is
// the session it is given.
package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"audiodash/internal/dataset"
	"audiodash/internal/playhead"
	"audiodash/internal/plot"
	"audiodash/models"
)

// DefaultTrackIndex is the historical initial selection.
const DefaultTrackIndex = 8

// Dataset is the track lookup the controller needs.
type Dataset interface {
	IDs() []string
	Track(id string) (*dataset.Track, error)
}

// Composer builds the chart for a track.
type Composer interface {
	Compose(ctx context.Context, track plot.AnnotationLoader) (*models.ChartSpec, error)
}

// TrackUpdate is what the view applies after a valid selection.
type TrackUpdate struct {
	TrackID     string            `json:"track_id"`
	Title       string            `json:"title,omitempty"`
	Artist      string            `json:"artist,omitempty"`
	Chart       *models.ChartSpec `json:"chart,omitempty"`
	AudioURL    string            `json:"audio_url"`
	Autoplay    bool              `json:"autoplay"`
	Placeholder string            `json:"placeholder,omitempty"`
}

// NavbarConfig is the navbar collapse state.
type NavbarConfig struct {
	IsOpen bool `json:"is_open"`
}

// Controller wires the dataset, the composer and the playhead hub together.
type Controller struct {
	dataset      Dataset
	composer     Composer
	hub          *playhead.Hub
	log          *logrus.Logger
	defaultIndex int
}

// New creates a controller. A negative defaultIndex selects the first track.
func New(ds Dataset, composer Composer, hub *playhead.Hub, logger *logrus.Logger, defaultIndex int) *Controller {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if hub == nil {
		hub = playhead.NewHub()
	}
	return &Controller{
		dataset:      ds,
		composer:     composer,
		hub:          hub,
		log:          logger,
		defaultIndex: defaultIndex,
	}
}

// Hub returns the playhead hub the controller publishes to.
func (c *Controller) Hub() *playhead.Hub { return c.hub }

// OnInit returns the track selected when a session starts: the track at the
// default index, or the first track when the dataset is shorter.
func (c *Controller) OnInit() (string, bool) {
	ids := c.dataset.IDs()
	if len(ids) == 0 {
		return "", false
	}
	if c.defaultIndex >= 0 && c.defaultIndex < len(ids) {
		return ids[c.defaultIndex], true
	}
	return ids[0], true
}

// OnTrackSelected loads the selected track and composes its chart. A nil,
// empty or unknown id leaves the session untouched and returns false. A track
// whose annotations cannot be composed is displayed with a placeholder.
func (c *Controller) OnTrackSelected(ctx context.Context, s *Session, id *string) (TrackUpdate, bool) {
	if id == nil || *id == "" {
		return TrackUpdate{}, false
	}
	track, err := c.dataset.Track(*id)
	if err != nil {
		c.log.WithFields(logrus.Fields{"session": s.ID, "track_id": *id}).
			WithError(err).Debug("Ignoring invalid track selection")
		return TrackUpdate{}, false
	}

	s.mu.Lock()
	if err := s.transition(Loading); err != nil {
		s.mu.Unlock()
		c.log.WithError(err).Error("Session state machine rejected selection")
		return TrackUpdate{}, false
	}
	autoplay := s.selections > 0
	s.mu.Unlock()

	update := TrackUpdate{
		TrackID:  track.ID(),
		Title:    track.Info.Title,
		Artist:   track.Info.Artist,
		AudioURL: track.AudioURL(),
		Autoplay: autoplay,
	}

	// The session is not locked while annotations load so playback updates
	// and snapshots keep flowing.
	chart, err := c.composer.Compose(ctx, track)
	if err != nil {
		update.Placeholder = placeholderFor(track.ID(), err)
		c.log.WithFields(logrus.Fields{"session": s.ID, "track_id": track.ID()}).
			WithError(err).Warn("Could not compose chart, showing placeholder")
	} else {
		update.Chart = chart
	}

	s.mu.Lock()
	s.trackID = update.TrackID
	s.chart = update.Chart
	s.placeholder = update.Placeholder
	s.audioURL = update.AudioURL
	s.playhead = 0
	s.selections++
	err = s.transition(Displayed)
	s.mu.Unlock()
	if err != nil {
		c.log.WithError(err).Error("Session state machine rejected display")
	}

	c.log.WithFields(logrus.Fields{
		"session":     s.ID,
		"track_id":    update.TrackID,
		"placeholder": update.Placeholder != "",
	}).Info("Track selected")
	return update, true
}

// OnNavbarToggle flips the navbar collapse state.
func OnNavbarToggle(isOpen bool) NavbarConfig {
	return NavbarConfig{IsOpen: !isOpen}
}

// ToggleNavbar applies OnNavbarToggle to the session.
func (c *Controller) ToggleNavbar(s *Session, isOpen bool) NavbarConfig {
	cfg := OnNavbarToggle(isOpen)
	s.mu.Lock()
	s.navbarOpen = cfg.IsOpen
	s.mu.Unlock()
	return cfg
}

// OnPlayback records the playback position and publishes the playhead overlay.
// It never rebuilds the chart.
func (c *Controller) OnPlayback(s *Session, t float64) (playhead.Overlay, bool) {
	o, ok := playhead.OverlayAt(t)
	if !ok {
		return playhead.Overlay{}, false
	}
	s.mu.Lock()
	s.playhead = o.X0
	s.mu.Unlock()
	c.hub.Publish(s.ID.String(), t)
	return o, true
}

// ChartFor composes the chart of a track outside any session.
func (c *Controller) ChartFor(ctx context.Context, id string) (*models.ChartSpec, error) {
	track, err := c.dataset.Track(id)
	if err != nil {
		return nil, err
	}
	return c.composer.Compose(ctx, track)
}

func placeholderFor(trackID string, err error) string {
	var missing *models.MissingAnnotationError
	if errors.As(err, &missing) {
		return fmt.Sprintf("No %s annotation available for %s.", missing.Name, trackID)
	}
	return fmt.Sprintf("No annotation data could be loaded for %s.", trackID)
}
