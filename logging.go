package main

import (
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// newLogger builds the process logger; debug enables request-level detail
func newLogger(out io.Writer, debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// runLogger tags every entry of one run with a fresh run id
func runLogger(logger logrus.FieldLogger) (logrus.FieldLogger, string) {
	id := uuid.NewString()
	return logger.WithField("run_id", id), id
}
