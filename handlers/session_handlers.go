package handlers

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"audiodash/internal/controller"
	"audiodash/internal/worker"
	"audiodash/middleware"
	"audiodash/models"
	"audiodash/utils"
)

var validate = validator.New()

// InitData is the initial selection for a session.
type InitData struct {
	SessionID  string  `json:"session_id"`
	TrackID    *string `json:"track_id"`
	NavbarOpen bool    `json:"navbar_open"`
}

// SelectTrackRequest is the body of a track selection. A null or missing
// track_id is accepted and changes nothing.
type SelectTrackRequest struct {
	TrackID *string `json:"track_id"`
}

// SelectTrackData is the outcome of a selection. Noop is true when the view
// was left untouched.
type SelectTrackData struct {
	Noop   bool                    `json:"noop"`
	Update *controller.TrackUpdate `json:"update,omitempty"`
	Figure *models.Figure          `json:"figure,omitempty"`
}

// SelectTrackResponse wraps SelectTrackData.
type SelectTrackResponse struct {
	Status string          `json:"status"`
	Data   SelectTrackData `json:"data"`
}

// NavbarRequest carries the current collapse state.
type NavbarRequest struct {
	IsOpen *bool `json:"is_open" validate:"required"`
}

// NavbarResponse wraps the new collapse state.
type NavbarResponse struct {
	Status string                  `json:"status"`
	Data   controller.NavbarConfig `json:"data"`
}

// InitSession godoc
// @Summary Initial track for the session
// @Description Returns the track shown when the dashboard opens. track_id is null for an empty dataset.
// @Tags session
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /init [get]
func (h *ApplicationHandler) InitSession(c *fiber.Ctx) error {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "No session")
	}
	data := InitData{SessionID: s.ID.String(), NavbarOpen: s.Snapshot().NavbarOpen}
	if id, ok := h.Controller.OnInit(); ok {
		data.TrackID = &id
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, data)
}

// SelectTrack godoc
// @Summary Select a track
// @Description Loads the track's annotations and returns the chart, audio URL and autoplay flag. Unknown or null ids are a no-op.
// @Tags session
// @Accept json
// @Produce json
// @Param selection body SelectTrackRequest true "Track to select"
// @Success 200 {object} SelectTrackResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Event queue unavailable"
// @Router /select [post]
func (h *ApplicationHandler) SelectTrack(c *fiber.Ctx) error {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "No session")
	}

	req := new(SelectTrackRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse selection JSON: "+err.Error())
	}

	ctx := c.UserContext()
	var (
		update  controller.TrackUpdate
		applied bool
	)
	err := h.Events.Do(ctx, s.ID.String(), worker.Func{
		Name: "select:" + s.ID.String(),
		Fn: func() error {
			update, applied = h.Controller.OnTrackSelected(context.WithoutCancel(ctx), s, req.TrackID)
			return nil
		},
	})
	if err != nil {
		return h.respondDispatchError(c, err)
	}

	if !applied {
		return utils.RespondWithJSON(c, fiber.StatusOK, SelectTrackData{Noop: true})
	}
	data := SelectTrackData{Update: &update}
	if update.Chart != nil {
		fig := update.Chart.Figure()
		data.Figure = &fig
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, data)
}

// ToggleNavbar godoc
// @Summary Toggle the navbar
// @Description Returns the negation of the submitted collapse state.
// @Tags session
// @Accept json
// @Produce json
// @Param navbar body NavbarRequest true "Current state"
// @Success 200 {object} NavbarResponse
// @Failure 400 {object} ErrorResponse
// @Router /navbar [post]
func (h *ApplicationHandler) ToggleNavbar(c *fiber.Ctx) error {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "No session")
	}

	req := new(NavbarRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse navbar JSON: "+err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}

	var cfg controller.NavbarConfig
	err := h.Events.Do(c.UserContext(), s.ID.String(), worker.Func{
		Name: "navbar:" + s.ID.String(),
		Fn: func() error {
			cfg = h.Controller.ToggleNavbar(s, *req.IsOpen)
			return nil
		},
	})
	if err != nil {
		return h.respondDispatchError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, cfg)
}

func (h *ApplicationHandler) respondDispatchError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, worker.ErrQueueFull), errors.Is(err, worker.ErrStopped):
		return utils.RespondWithError(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return utils.RespondWithError(c, fiber.StatusServiceUnavailable, "Request abandoned before the event ran")
	default:
		h.Logger.WithError(err).Error("Event failed")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, err.Error())
	}
}
