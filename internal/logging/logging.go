// Package logging wires the shared application logger. Everything logs to a
// rotating file under the state directory; the terminal is reserved for the
// UI, so nothing here ever writes to stdout or stderr.
package logging

import (
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sanjog-lama/adk-graph-ui/internal/config"
)

var logger = log.New(io.Discard)

// Setup points the shared logger at ~/.adkchat/logs/adkchat.log with
// rotation (10 MB, 5 backups). Failure to resolve the directory leaves the
// logger discarding, which is acceptable: logging must never take the app
// down.
func Setup(profile string) *log.Logger {
	dir, err := config.Dir()
	if err != nil {
		return logger
	}
	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "logs", "adkchat.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 5,
	}
	logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          config.ProfileName(profile),
	})
	return logger
}

// L returns the shared logger. Before Setup it discards.
func L() *log.Logger { return logger }
