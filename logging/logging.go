package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
	mu     sync.Mutex
)

// InitLogger configures the shared logger. Diagnostics meant for the user go to
// stdout, so the logger always writes to stderr.
func InitLogger(level logrus.Level) {
	l := GetLogger()
	l.SetLevel(level)
}

// GetLogger returns the shared logger, creating it at InfoLevel on first use so
// package init() functions can grab it before main has parsed flags.
func GetLogger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return logger
}
