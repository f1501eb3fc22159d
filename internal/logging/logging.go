// Package logging is the process-wide structured logger.
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once     sync.Once
	instance *log.Logger
)

func logger() *log.Logger {
	once.Do(func() {
		instance = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Prefix:          "rig",
		})
		instance.SetLevel(log.InfoLevel)
	})
	return instance
}

// SetLevel parses a level name ("debug", "info", "warn", "error").
// Unknown names leave the level unchanged and return the parse error.
func SetLevel(name string) error {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return err
	}
	logger().SetLevel(lvl)
	return nil
}

// SetOutput redirects log output, e.g. to a file or a test buffer.
func SetOutput(w io.Writer) {
	logger().SetOutput(w)
}

func Debug(msg string, keyvals ...interface{}) { logger().Debug(msg, keyvals...) }
func Info(msg string, keyvals ...interface{})  { logger().Info(msg, keyvals...) }
func Warn(msg string, keyvals ...interface{})  { logger().Warn(msg, keyvals...) }
func Error(msg string, keyvals ...interface{}) { logger().Error(msg, keyvals...) }

// Fatal logs and exits with status 1.
func Fatal(msg string, keyvals ...interface{}) { logger().Fatal(msg, keyvals...) }
