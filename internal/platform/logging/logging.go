package logging

import (
	"github.com/sirupsen/logrus"

	"crmdesk/internal/platform/config"
)

// Setup configures the process-wide logrus logger from config. Unknown
// levels fall back to info rather than failing startup.
func Setup(cfg config.Config) *logrus.Logger {
	logger := logrus.StandardLogger()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
