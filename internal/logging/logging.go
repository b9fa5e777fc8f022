package logging

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const applicationName = "rfp-service"

type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})

	// expected to terminate the process
	Fatal(format string, v ...interface{})
}

type loggingWrapper struct {
	logger *zerolog.Logger
}

func (l *loggingWrapper) Debug(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}

func (l *loggingWrapper) Info(format string, v ...interface{}) {
	l.logger.Info().Msgf(format, v...)
}

func (l *loggingWrapper) Warn(format string, v ...interface{}) {
	l.logger.Warn().Msgf(format, v...)
}

func (l *loggingWrapper) Error(format string, v ...interface{}) {
	l.logger.Error().Msgf(format, v...)
}

// expected to terminate the process
func (l *loggingWrapper) Fatal(format string, v ...interface{}) {
	l.logger.Fatal().Msgf(format, v...)
}

// context key with a separate type, so no other package has a chance of accessing it
type key int

// the value actually doesn't matter, the type alone will guarantee no package gets at this context value
const LoggerKey key = 0

// SetGlobalSeverity restricts log output to the given severity and above.
func SetGlobalSeverity(severity string) {
	switch strings.ToUpper(severity) {
	case "DEBUG":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "INFO":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "WARN":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "ERROR":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func NewLogger() Logger {
	logger := zerolog.New(os.Stdout).
		With().
		Str("App", applicationName).
		Timestamp().
		Logger()

	return &loggingWrapper{
		logger: &logger,
	}
}

// WithRequestID creates a logger tagged with the given request id.
func WithRequestID(reqID string) Logger {
	logger := zerolog.New(os.Stdout).
		With().
		Str("App", applicationName).
		Str("RequestId", reqID).
		Timestamp().
		Logger()

	return &loggingWrapper{
		logger: &logger,
	}
}

// CreateContextWithLoggerForRequestId places a request scoped logger in the context.
//
// Whenever processing a specific request, be a good citizen and pass the context down,
// so log output can be associated with the request being processed.
func CreateContextWithLoggerForRequestId(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, LoggerKey, WithRequestID(reqID))
}

func LoggerFromContext(ctx context.Context) Logger {
	logger, ok := ctx.Value(LoggerKey).(Logger)
	if !ok {
		return NewLogger()
	}

	return logger
}

func NewNoopLogger() Logger {
	return &noopLogger{}
}

type noopLogger struct {
}

func (l *noopLogger) Debug(format string, v ...interface{}) {
}

func (l *noopLogger) Info(format string, v ...interface{}) {
}

func (l *noopLogger) Warn(format string, v ...interface{}) {
}

func (l *noopLogger) Error(format string, v ...interface{}) {
}

// expected to terminate the process
func (l *noopLogger) Fatal(format string, v ...interface{}) {
}
