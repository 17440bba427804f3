package logging

import (
	"log/slog"
	"os"
)

// Name is the name of the application that the logger is created for.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// name is the name of the application.
	name Name
}

// NewConfig creates a new logging configuration.
func NewConfig(name Name) *Config {
	return &Config{
		name: name,
	}
}

// CommonLogger creates the logger that is used across the application. The
// logger is also set as the slog default.
func CommonLogger(c *Config) (*slog.Logger, error) {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	l := slog.New(h).With(slog.String(KeyAppName, string(c.name)))
	slog.SetDefault(l)
	return l, nil
}
