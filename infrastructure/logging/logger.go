// Package logging builds the shared logger handle.
package logging

import (
	"github.com/sirupsen/logrus"
)

// NewLogger builds a logrus logger at the named level. Unknown level
// names fall back to info.
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}
