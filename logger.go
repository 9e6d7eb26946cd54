package canopy

import (
	"io"

	"github.com/charmbracelet/log"
)

// logger receives debug frame stats and tree warnings. Silent until
// SetLogger installs one.
var logger = log.NewWithOptions(io.Discard, log.Options{})

// SetLogger installs the logger canopy reports to. Nil restores the silent
// default.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.NewWithOptions(io.Discard, log.Options{})
	}
	logger = l
}

// Logger returns the logger canopy reports to.
func Logger() *log.Logger {
	return logger
}
