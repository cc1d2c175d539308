package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a JSON logger writing to stdout. level falls back to info when
// empty or unparsable.
func New(level string) *logrus.Logger {
	log := &logrus.Logger{
		Out:       os.Stdout,
		Formatter: new(logrus.JSONFormatter),
		Level:     logrus.InfoLevel,
	}
	if level != "" {
		if parsed, err := logrus.ParseLevel(level); err == nil {
			log.Level = parsed
		}
	}
	return log
}
