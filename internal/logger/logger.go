// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger holds the process-wide diagnostic logger. Progress and
// summaries meant for the user are printed by the stages themselves; this
// logger carries warnings and debug detail.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger. It is a no-op until Initialize is called so
// packages and tests can log without setup.
var Logger = zap.NewNop().Sugar()

// Initialize replaces Logger. jsonOutput selects zap's production JSON
// encoder; otherwise a console encoder writes to stderr. verbose lowers the
// level from info to debug.
func Initialize(jsonOutput, verbose bool) error {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		level.SetLevel(zap.DebugLevel)
	}

	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = level
		config.OutputPaths = []string{"stderr"}
		z, err := config.Build()
		if err != nil {
			return err
		}
		Logger = z.Sugar()
		return nil
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encCfg.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(os.Stderr),
		level,
	)
	Logger = zap.New(core).Sugar()
	return nil
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Logger.Sync()
}
