package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// The process-wide logger. Services receive a zerolog.Logger by injection;
// the package-level helpers below cover code that runs before wiring is
// done: startup failures, pool health callbacks, migrations.
var defaultLogger zerolog.Logger

// LogLevel names a log level in configuration.
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Config controls the global logger.
type Config struct {
	Level  LogLevel
	Pretty bool // human-readable console output instead of JSON
	Output io.Writer
}

// Configure rebuilds the global logger. An unknown or empty level falls
// back to info; a nil output falls back to stdout.
func Configure(config Config) {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(string(config.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var writer io.Writer = config.Output
	if config.Pretty {
		writer = zerolog.ConsoleWriter{
			Out:        config.Output,
			TimeFormat: time.RFC3339,
		}
	}

	defaultLogger = zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = defaultLogger
}

// Info logs at info level
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn logs at warn level
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error logs at error level
func Error() *zerolog.Event {
	return defaultLogger.Error()
}

func init() {
	Configure(Config{
		Level:  InfoLevel,
		Pretty: true,
	})
}
