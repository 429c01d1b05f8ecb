package containers

import (
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
)

func DefaultLogger() zerolog.Logger {
	return NewLogger(zerolog.InfoLevel)
}

func NewLogger(level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// ConfigLogger builds the logger described by cfg.LogLevel, falling back to info.
func ConfigLogger(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return NewLogger(level)
}

// LogEnv writes every container environment variable, in key order.
func LogEnv(logger zerolog.Logger, container string, env map[string]string) {
	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	for _, key := range keys {
		logger.Info().
			Str("container", container).
			Str("key", key).
			Str("value", env[key]).
			Msg("container environment")
	}
}

type logConsumer struct {
	logger    zerolog.Logger
	container string
}

// LogConsumer forwards container stdout and stderr to the logger at debug level.
func LogConsumer(logger zerolog.Logger, container string) testcontainers.LogConsumer {
	return logConsumer{
		logger:    logger,
		container: container,
	}
}

func (l logConsumer) Accept(log testcontainers.Log) {
	l.logger.Debug().
		Str("container", l.container).
		Str("stream", log.LogType).
		Msg(strings.TrimRight(string(log.Content), "\n"))
}
