//go:build !prod

package logging

import (
	"log/slog"
	"os"
)

// Setup initializes logging for development mode.
// Logs are written to os.Stderr only; stdout is reserved for the echoed
// file path.
func Setup(cfg *Config) (*slog.Logger, func() error, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	logger := newLogger(os.Stderr, cfg)
	setGlobal(logger)

	return logger, func() error { return nil }, nil
}
