// Package logging builds the zap loggers campdown writes diagnostics to.
//
// Progress output for the user stays on the CLI/TUI progress events; the
// logger carries the rest: retries, skipped files, parse failures.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls logger construction.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string

	// Format is "console" or "json".
	Format string
}

// New creates a logger from the config. Unknown levels fall back to info.
func New(cfg Config) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level)

	return zap.New(core)
}

// NewNop returns a logger that drops everything. Used by the TUI, which
// renders progress itself, and by tests.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
