package handlers

import (
	"github.com/sirupsen/logrus"

	"audiodash/internal/controller"
	"audiodash/internal/dataset"
	"audiodash/internal/worker"
)

// ErrorResponse defines a common structure for error responses.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Controller *controller.Controller
	Dataset    *dataset.Dataset
	Sessions   *controller.Sessions
	Events     *worker.Router // serializes selection and navbar events per session
	Logger     *logrus.Logger
	Title      string
	ProbeAudio bool
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(ctrl *controller.Controller, ds *dataset.Dataset, sessions *controller.Sessions, events *worker.Router, logger *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		Controller: ctrl,
		Dataset:    ds,
		Sessions:   sessions,
		Events:     events,
		Logger:     logger,
		Title:      "Audio Structure Annotations",
	}
}
