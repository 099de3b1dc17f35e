package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"audiodash/internal/playhead"
	"audiodash/middleware"
	"audiodash/utils"
)

const keepAliveInterval = 15 * time.Second

// PlayheadRequest is the current playback position in seconds.
type PlayheadRequest struct {
	Time *float64 `json:"time" validate:"required"`
}

// PublishPlayhead godoc
// @Summary Report the playback position
// @Description Moves the playhead on every chart open in this session. The chart itself is not rebuilt.
// @Tags playhead
// @Accept json
// @Produce json
// @Param playhead body PlayheadRequest true "Playback time"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /playhead [post]
func (h *ApplicationHandler) PublishPlayhead(c *fiber.Ctx) error {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "No session")
	}

	req := new(PlayheadRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse playhead JSON: "+err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}

	o, ok := h.Controller.OnPlayback(s, *req.Time)
	if !ok {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Playhead time must be finite")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, o)
}

// StreamPlayhead godoc
// @Summary Stream playhead overlays
// @Description Server-sent events named "playhead", one per position update of this session.
// @Tags playhead
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Router /playhead/stream [get]
func (h *ApplicationHandler) StreamPlayhead(c *fiber.Ctx) error {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "No session")
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	sessionID := s.ID.String()
	updates, cancel := h.Controller.Hub().Subscribe(sessionID)
	log := h.Logger.WithField("session", sessionID)
	log.Debug("Playhead stream opened")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()
		if err := streamOverlays(w, updates, ticker.C); err != nil {
			log.WithError(err).Debug("Playhead stream closed")
		}
	}))
	return nil
}

// streamOverlays writes overlays as SSE events until updates is closed or a
// write fails. keepAlive ticks emit comments so dead clients are noticed.
func streamOverlays(w *bufio.Writer, updates <-chan playhead.Overlay, keepAlive <-chan time.Time) error {
	for {
		select {
		case o, ok := <-updates:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(o)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "event: playhead\ndata: %s\n\n", payload); err != nil {
				return err
			}
		case <-keepAlive:
			if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
				return err
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
}
