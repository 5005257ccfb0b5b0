package logging

import (
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel is the environment variable for the log level.
const EnvLogLevel = `LOG_LEVEL`

// Name is the name of the application that the logger is for.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// name is the name of the application.
	name Name

	// level is the minimum level to log at.
	level slog.Level
}

// NewConfig creates a new logging configuration for the named application. The
// level is taken from the LOG_LEVEL environment variable, defaulting to info.
func NewConfig(name Name) *Config {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv(EnvLogLevel)) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return &Config{
		name:  name,
		level: level,
	}
}

// CommonLogger creates the common logger for the application. All logs are
// written to stdout as JSON with the application name attached.
func CommonLogger(c *Config) (*slog.Logger, error) {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: c.level,
	})

	l := slog.New(h).With(slog.String(KeyAppName, string(c.name)))

	// Set the default logger so that packages logging through slog directly
	// share the same handler.
	slog.SetDefault(l)

	return l, nil
}
