package commands

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// Logger adapts a zerolog.Logger to srcom.Logger.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger writes human readable logs to out. Verbose enables debug output;
// otherwise only warnings and errors are shown.
func NewLogger(out io.Writer, verbose, noColor bool) *Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}

	return &Logger{
		logger: zerolog.New(output).Level(level).With().Timestamp().Logger(),
	}
}

// Debug implements srcom.Logger.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug().Fields(fields).Msg(msg)
}

// Info implements srcom.Logger.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info().Fields(fields).Msg(msg)
}

// Warn implements srcom.Logger.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn().Fields(fields).Msg(msg)
}

// Error implements srcom.Logger.
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error().Fields(fields).Msg(msg)
}

var _ srcom.Logger = (*Logger)(nil)
