package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Apply sets the global logrus level and formatter.
func (l LoggingConfig) Apply() error {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	logrus.SetLevel(level)

	switch strings.ToLower(l.Format) {
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.WithField("format", l.Format).Warnln("Unknown log format, keeping the current one")
	}

	return nil
}
