package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New Builds a JSON structured logger writing to stdout. An unknown level falls
// back to info
func New(service, level string) *logrus.Entry {
	return NewWithOutput(os.Stdout, service, level)
}

// NewWithOutput Same as [New] with a custom output
func NewWithOutput(out io.Writer, service, level string) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "ts",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger.WithField("service", service)
}
