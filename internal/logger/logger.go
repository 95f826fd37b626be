/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package logger provides a configurable logger that can be silenced for MCP integrations.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu sync.RWMutex
	// Default logs to stderr. Set to io.Discard for silent mode (MCP).
	logger = newLogger(os.Stderr, log.InfoLevel)
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: "incdeps",
		Level:  level,
	})
}

// SetOutput configures the logger output destination.
// Use io.Discard to silence all logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// SetVerbose enables debug output.
func SetVerbose(verbose bool) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
}

// SetQuiet suppresses everything below errors.
func SetQuiet() {
	mu.Lock()
	defer mu.Unlock()
	logger.SetLevel(log.ErrorLevel)
}

// Get returns the shared logger.
func Get() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	Get().Warnf(format, args...)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	Get().Infof(format, args...)
}

// Debug logs a debug message.
func Debug(format string, args ...any) {
	Get().Debugf(format, args...)
}
