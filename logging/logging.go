// Package logging is the engine-wide structured logger, a thin façade over
// charmbracelet/log built lazily on first use.
package logging

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once      sync.Once
	singleton *log.Logger
)

func get() *log.Logger {
	once.Do(func() {
		l := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "helix",
		})
		l.SetLevel(log.InfoLevel)
		singleton = l
	})
	return singleton
}

// SetLevel switches the global level; unknown names keep the current level.
func SetLevel(name string) {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		get().Warn("unknown log level", "level", name)
		return
	}
	get().SetLevel(lvl)
}

func Debug(msg string, keyvals ...any) { get().Debug(msg, keyvals...) }

func Info(msg string, keyvals ...any) { get().Info(msg, keyvals...) }

func Warn(msg string, keyvals ...any) { get().Warn(msg, keyvals...) }

func Error(msg string, keyvals ...any) { get().Error(msg, keyvals...) }

func Fatal(msg string, keyvals ...any) { get().Fatal(msg, keyvals...) }
