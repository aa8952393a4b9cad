package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	timestampFormat = "15:04:05"
	envLogLevel     = "LOG_LEVEL"
)

var Logger = New(os.Stderr)

// New builds a text logger writing to out at the level named by LOG_LEVEL (info by default).
func New(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
		PadLevelText:    true,
	})

	level, err := logrus.ParseLevel(strings.TrimSpace(os.Getenv(envLogLevel)))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	return l
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func Info(msg string, fields map[string]interface{}) {
	Logger.WithFields(SanitizeMap(fields)).Info(SanitizeLogMessage(msg))
}

func Error(err error, msg string, fields map[string]interface{}) {
	entry := Logger.WithFields(SanitizeMap(fields))
	if err != nil {
		entry = entry.WithField(logrus.ErrorKey, SanitizeLogMessage(err.Error()))
	}
	entry.Error(SanitizeLogMessage(msg))
}

func Warn(msg string, fields map[string]interface{}) {
	Logger.WithFields(SanitizeMap(fields)).Warn(SanitizeLogMessage(msg))
}

func Debug(msg string, fields map[string]interface{}) {
	Logger.WithFields(SanitizeMap(fields)).Debug(SanitizeLogMessage(msg))
}

func Fatal(msg string, fields map[string]interface{}) {
	Logger.WithFields(SanitizeMap(fields)).Fatal(SanitizeLogMessage(msg))
}
