package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level
type LogLevel int

const (
	// LevelError only logs errors
	LevelError LogLevel = iota
	// LevelWarn logs warnings and errors
	LevelWarn
	// LevelInfo logs info, warnings and errors
	LevelInfo
	// LevelDebug logs everything including debug messages
	LevelDebug
)

var levelNames = map[LogLevel]string{
	LevelError: "ERROR",
	LevelWarn:  "WARN",
	LevelInfo:  "INFO",
	LevelDebug: "DEBUG",
}

var logrusLevels = map[LogLevel]logrus.Level{
	LevelError: logrus.ErrorLevel,
	LevelWarn:  logrus.WarnLevel,
	LevelInfo:  logrus.InfoLevel,
	LevelDebug: logrus.DebugLevel,
}

// String returns the upper-case name of the level
func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// Logger represents a component logger
type Logger struct {
	component string
	level     LogLevel
	entry     *logrus.Entry
}

// LogWriter adapts a Logger to io.Writer, logging each write as one
// trimmed message at a fixed level
type LogWriter struct {
	logger *Logger
	level  LogLevel
}

// NewLogWriter creates a LogWriter that logs to logger at level
func NewLogWriter(logger *Logger, level LogLevel) *LogWriter {
	return &LogWriter{
		logger: logger,
		level:  level,
	}
}

// Write implements io.Writer
func (w *LogWriter) Write(p []byte) (int, error) {
	if msg := strings.TrimSpace(string(p)); msg != "" && w.logger.level >= w.level {
		w.logger.entry.Log(logrusLevels[w.level], msg)
	}
	return len(p), nil
}

// StdLogger returns a standard library logger writing through l at level,
// for APIs such as http.Server.ErrorLog
func (l *Logger) StdLogger(level LogLevel) *log.Logger {
	return log.New(NewLogWriter(l, level), "", 0)
}

// New creates a new logger for a component writing to stdout
func New(component string, level LogLevel) *Logger {
	return NewWithOutput(component, level, os.Stdout)
}

// NewWithOutput creates a new logger for a component writing to out
func NewWithOutput(component string, level LogLevel, out io.Writer) *Logger {
	base := logrus.New()
	base.SetOutput(out)
	base.SetLevel(logrusLevels[level])
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		DisableColors:    true,
		DisableQuote:     true,
		QuoteEmptyFields: true,
	})
	return &Logger{
		component: component,
		level:     level,
		entry:     base.WithField("component", component),
	}
}

// Named returns a logger for a sub-component sharing the same output and level
func (l *Logger) Named(component string) *Logger {
	return &Logger{
		component: component,
		level:     l.level,
		entry:     l.entry.WithField("component", component),
	}
}

// Level returns the configured level
func (l *Logger) Level() LogLevel {
	return l.level
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LevelError {
		l.entry.Errorf(format, args...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LevelWarn {
		l.entry.Warnf(format, args...)
	}
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LevelInfo {
		l.entry.Infof(format, args...)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LevelDebug {
		l.entry.Debugf(format, args...)
	}
}

// ParseLevel parses a log level string into a LogLevel
func ParseLevel(level string) (LogLevel, error) {
	switch strings.ToUpper(level) {
	case "ERROR":
		return LevelError, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "INFO":
		return LevelInfo, nil
	case "DEBUG":
		return LevelDebug, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}
