package main

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// NewLogger returns a Logrus logger writing to out at the given level.
func NewLogger(level uint32, out io.Writer) *log.Logger {
	l := log.New()
	l.SetLevel(log.Level(level))
	l.Formatter = &log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}
	l.Out = out
	return l
}
