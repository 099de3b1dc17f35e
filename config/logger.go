package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// InitLogger sets up the JSON logger. debug lowers the level to Debug.
func InitLogger(debug bool) *logrus.Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	log.SetLevel(logrus.InfoLevel)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
