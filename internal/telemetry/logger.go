package telemetry

import (
	"os"

	"github.com/sirupsen/logrus"
)

// logger is created once and only reconfigured afterwards, so L is safe to
// call from any goroutine.
var logger = newLogger(logrus.InfoLevel)

func newLogger(level logrus.Level) *logrus.Logger {
	l := logrus.New()
	configure(l, level)
	return l
}

func configure(l *logrus.Logger, level logrus.Level) {
	l.SetOutput(os.Stderr)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// Init configures the package logger. Safe to call more than once.
func Init(level logrus.Level) {
	configure(logger, level)
}

// L returns the package logger. It logs at info level until Init is called.
func L() *logrus.Logger {
	return logger
}

// ParseLogLevel converts a level name; unknown names give info.
func ParseLogLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
