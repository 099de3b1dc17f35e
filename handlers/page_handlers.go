package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"audiodash/middleware"
	"audiodash/utils"
	"audiodash/web"
)

// Dashboard renders the dashboard page for the caller's session.
func (h *ApplicationHandler) Dashboard(c *fiber.Ctx) error {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "No session")
	}
	view := s.Snapshot()

	initial := view.TrackID
	if initial == "" {
		initial, _ = h.Controller.OnInit()
	}

	var buf bytes.Buffer
	err := web.RenderDashboard(&buf, web.Page{
		Title:        h.Title,
		Tracks:       h.Dataset.Summaries(),
		InitialTrack: initial,
		NavbarOpen:   view.NavbarOpen,
	})
	if err != nil {
		h.Logger.WithError(err).Error("Error rendering dashboard")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not render dashboard")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// DashboardScript serves the embedded client controller.
func DashboardScript(c *fiber.Ctx) error {
	data, err := web.Assets.ReadFile("assets/dashboard.js")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Asset not found")
	}
	c.Type("js", "utf-8")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.Send(data)
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *ApplicationHandler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "ok",
		"message":  "Dashboard is healthy",
		"tracks":   h.Dataset.Len(),
		"sessions": h.Sessions.Len(),
	})
}
