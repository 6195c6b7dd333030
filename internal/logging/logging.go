// Package logging builds the zap loggers used by the commands.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sink selects the encoder and destination.
type Sink int

const (
	// None discards all entries.
	None Sink = iota
	// File writes JSON lines to a path. The terminal is in the alternate
	// screen while interactive, so nothing may be written to it.
	File
	// Console writes human-readable entries to stderr.
	Console
)

// New builds a logger for sink at level. Path is only used by File.
func New(sink Sink, level, path string) (*zap.Logger, error) {
	if sink == None {
		return zap.NewNop(), nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{path},
		DisableCaller:    true,
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if sink == Console {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	} else if path == "" {
		return nil, fmt.Errorf("log file: path is required")
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// ForInteractive logs to path, or nowhere when path is empty.
func ForInteractive(level, path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	return New(File, level, path)
}
