package handlers

import (
	"github.com/gofiber/fiber/v2"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	"audiodash/middleware"
)

// Register mounts every route on app.
func (h *ApplicationHandler) Register(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Get("/swagger/*", fiberSwagger.WrapHandler)
	app.Get("/assets/dashboard.js", DashboardScript)

	app.Get("/media/:id", h.ServeMedia)

	withSession := middleware.Sessions(h.Sessions)
	app.Get("/", withSession, h.Dashboard)

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/tracks", h.ListTracks)
	apiV1.Get("/tracks/:id/chart", h.GetTrackChart)
	apiV1.Get("/tracks/:id/chart.png", h.GetTrackChartPNG)
	apiV1.Get("/tracks/:id/audio", h.GetTrackAudio)

	apiV1.Get("/init", withSession, h.InitSession)
	apiV1.Post("/select", withSession, h.SelectTrack)
	apiV1.Post("/navbar", withSession, h.ToggleNavbar)
	apiV1.Post("/playhead", withSession, h.PublishPlayhead)
	apiV1.Get("/playhead/stream", withSession, h.StreamPlayhead)
}
