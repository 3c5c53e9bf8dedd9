// Package stdlogger adapts the global zerolog logger to printf style logger
// interfaces, most notably gorm's logger.Writer.
package stdlogger

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"
)

const slowQuery = 200 * time.Millisecond

// Logger writes printf style messages to the global zerolog logger.
type Logger struct {
	level zerolog.Level
}

// New returns a Logger whose Printf logs at info level.
func New() *Logger {
	return NewWithLevel(zerolog.InfoLevel)
}

// NewWithLevel returns a Logger whose Printf logs at level.
func NewWithLevel(level zerolog.Level) *Logger {
	return &Logger{level: level}
}

// Printf implements gorm's logger.Writer.
func (l *Logger) Printf(format string, args ...any) {
	log.WithLevel(l.level).Msgf(format, args...)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	log.Debug().Msgf(format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	log.Info().Msgf(format, args...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, args ...any) {
	log.Warn().Msgf(format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	log.Error().Msgf(format, args...)
}

// Gorm returns a gorm logger writing through zerolog.
// An empty or unknown level silences gorm; debug and trace log every
// statement, any other level logs slow queries and errors only.
func Gorm(level string) gormlogger.Interface {
	lvl, err := zerolog.ParseLevel(level)
	if level == "" || err != nil {
		return gormlogger.Default.LogMode(gormlogger.Silent)
	}

	mode := gormlogger.Warn
	if lvl <= zerolog.DebugLevel {
		mode = gormlogger.Info
	}

	return gormlogger.New(NewWithLevel(lvl), gormlogger.Config{
		SlowThreshold:             slowQuery,
		LogLevel:                  mode,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
