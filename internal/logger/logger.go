// Package logger configures the application logger from config: level,
// formatter per environment, and an optional GELF UDP fan-out.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Vantled/balikbayani-sub001/internal/config"
	"github.com/Vantled/balikbayani-sub001/internal/gelf"
)

// New builds a configured logrus logger.
func New(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Environment == "production" || cfg.Environment == "staging" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	if cfg.GelfAddr != "" {
		w, err := gelf.New(cfg.GelfAddr)
		if err != nil {
			log.WithError(err).Warn("GELF init failed")
		} else {
			log.SetOutput(io.MultiWriter(os.Stderr, w))
			log.WithField("addr", cfg.GelfAddr).Info("GELF logging enabled")
		}
	}

	return log
}
