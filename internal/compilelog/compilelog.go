// Package compilelog is a small leveled wrapper around the standard
// library log package: a Logger with a handful of named levels and a
// Log(level, msg) method, adapting a log-function-with-level convention to
// Go idiom. See SPEC_FULL.md for why stdlib log is kept here instead of a
// third-party logging library.
package compilelog

import (
	"log"
	"os"
)

// Level orders verbosity from quietest to loudest.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelFine
)

// Logger drops messages more verbose than (numerically above) its
// configured Level.
type Logger struct {
	level  Level
	stdlib *log.Logger
}

// New constructs a Logger writing to os.Stderr at level.
func New(level Level) *Logger {
	return &Logger{level: level, stdlib: log.New(os.Stderr, "", log.LstdFlags)}
}

// Log emits msg if level is at or below the Logger's configured
// verbosity.
func (l *Logger) Log(level Level, msg string) {
	if l == nil || level > l.level {
		return
	}
	l.stdlib.Println(levelPrefix(level) + msg)
}

// Logf is the formatting counterpart to Log.
func (l *Logger) Logf(level Level, format string, args ...interface{}) {
	if l == nil || level > l.level {
		return
	}
	l.stdlib.Printf(levelPrefix(level)+format, args...)
}

func levelPrefix(level Level) string {
	switch level {
	case LevelError:
		return "[ERROR] "
	case LevelWarn:
		return "[WARN] "
	case LevelInfo:
		return "[INFO] "
	default:
		return "[FINE] "
	}
}
