package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level represents log level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Options controls where log lines go
type Options struct {
	// Console writes to stderr. The terminal UI turns this off.
	Console bool
	// File appends to a daily file under Dir.
	File bool
	// Dir defaults to ~/.securescan/logs
	Dir string
}

var (
	mu      sync.RWMutex
	level   = LevelInfo
	file    *os.File
	current = newLogger(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
)

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger().Level(level.zerolog())
}

// Init configures the outputs. Calling it again replaces the previous outputs.
func Init(opts Options) error {
	var writers []io.Writer
	if opts.Console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}

	var f *os.File
	if opts.File {
		dir := opts.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			dir = filepath.Join(home, ".securescan", "logs")
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}

		logFile := filepath.Join(dir, fmt.Sprintf("securescan-%s.log", time.Now().Format("2006-01-02")))
		var err error
		f, err = os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		writers = append(writers, f)
	}

	var w io.Writer = io.Discard
	if len(writers) > 0 {
		w = zerolog.MultiLevelWriter(writers...)
	}

	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
	}
	file = f
	current = newLogger(w)
	return nil
}

// SetOutput sends log lines to w in zerolog's JSON form. Used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	current = newLogger(w)
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
	}
}

// SetLevel sets the log level
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
	current = current.Level(l.zerolog())
}

// SetLevelFromString sets log level from string. Unknown names are ignored.
func SetLevelFromString(name string) {
	switch name {
	case "debug":
		SetLevel(LevelDebug)
	case "info":
		SetLevel(LevelInfo)
	case "warn":
		SetLevel(LevelWarn)
	case "error":
		SetLevel(LevelError)
	}
}

// Get returns the underlying zerolog logger for structured fields
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func log(l Level, format string, args ...interface{}) {
	lg := Get()
	var ev *zerolog.Event
	switch l {
	case LevelDebug:
		ev = lg.Debug()
	case LevelWarn:
		ev = lg.Warn()
	case LevelError:
		ev = lg.Error()
	default:
		ev = lg.Info()
	}
	ev.Msgf(format, args...)
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	log(LevelDebug, format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	log(LevelInfo, format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	log(LevelWarn, format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	log(LevelError, format, args...)
}

// Debugf is an alias for Debug
func Debugf(format string, args ...interface{}) {
	Debug(format, args...)
}

// Infof is an alias for Info
func Infof(format string, args ...interface{}) {
	Info(format, args...)
}

// Warnf is an alias for Warn
func Warnf(format string, args ...interface{}) {
	Warn(format, args...)
}

// Errorf is an alias for Error
func Errorf(format string, args ...interface{}) {
	Error(format, args...)
}
