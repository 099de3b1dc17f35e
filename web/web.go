// Package web holds the dashboard page and its client script.
package web

import (
	"embed"
	"html/template"
	"io"

	"audiodash/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets/*
var Assets embed.FS

var funcMap = template.FuncMap{
	"trackLabel": func(t models.TrackSummary) string {
		switch {
		case t.Title != "" && t.Artist != "":
			return t.ID + " · " + t.Artist + " - " + t.Title
		case t.Title != "":
			return t.ID + " · " + t.Title
		default:
			return t.ID
		}
	},
}

var pageTemplate = template.Must(template.New("dashboard.html").Funcs(funcMap).ParseFS(templateFS, "templates/dashboard.html"))

// Page is the data rendered into the dashboard template.
type Page struct {
	Title        string
	Tracks       []models.TrackSummary
	InitialTrack string
	NavbarOpen   bool
}

// RenderDashboard writes the dashboard HTML.
func RenderDashboard(w io.Writer, page Page) error {
	return pageTemplate.ExecuteTemplate(w, "dashboard.html", page)
}
