// Package stdlogger adapts the global zerolog logger to printf style logger
// interfaces such as gorm's logger.Writer.
package stdlogger

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger writes printf style messages through zerolog.
type Logger struct {
	component string
	level     zerolog.Level
}

// New returns a Logger whose Printf logs at info level.
func New() *Logger {
	return &Logger{level: zerolog.InfoLevel}
}

// NewComponent returns a Logger tagged with component whose Printf logs at level.
func NewComponent(component string, level zerolog.Level) *Logger {
	return &Logger{component: component, level: level}
}

func (l *Logger) event(level zerolog.Level) *zerolog.Event {
	e := log.WithLevel(level)
	if l.component != "" {
		e = e.Str("component", l.component)
	}

	return e
}

// Printf implements gorm's logger.Writer.
func (l *Logger) Printf(format string, args ...interface{}) {
	// gorm prefixes its messages with a newline
	l.event(l.level).Msgf(strings.TrimLeft(format, "\r\n"), args...)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.event(zerolog.DebugLevel).Msgf(format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.event(zerolog.InfoLevel).Msgf(format, args...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.event(zerolog.WarnLevel).Msgf(format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.event(zerolog.ErrorLevel).Msgf(format, args...)
}
