package config

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the application logger. The returned closer releases the
// log file when one is configured; it is a no-op otherwise.
func NewLogger(cfg LogConfig) (*logrus.Logger, func() error, error) {
	logg := logrus.New()

	switch cfg.Format {
	case "json":
		logg.SetFormatter(&logrus.JSONFormatter{})
	default:
		logg.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level := logrus.InfoLevel
	if cfg.Level != "" {
		l, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("parse log level: %w", err)
		}
		level = l
	}
	logg.SetLevel(level)

	closer := func() error { return nil }
	logg.SetOutput(os.Stdout)
	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logg.SetOutput(io.MultiWriter(os.Stdout, file))
		closer = file.Close
	}

	return logg, closer, nil
}

// LogError writes err with the module/function that produced it.
func LogError(logger *logrus.Logger, moduleName, funcName string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"function": funcName,
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err)
}
