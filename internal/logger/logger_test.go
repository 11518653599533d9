// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaultLoggerIsNoop(t *testing.T) {
	require.NotNil(t, Logger)
	assert.NotPanics(t, func() {
		Logger.Infow("message", "key", "value")
	})
}

func TestInitialize(t *testing.T) {
	orig := Logger
	defer func() { Logger = orig }()

	tests := []struct {
		name      string
		json      bool
		verbose   bool
		wantDebug bool
	}{
		{"console info", false, false, false},
		{"console debug", false, true, true},
		{"json info", true, false, false},
		{"json debug", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, Initialize(tt.json, tt.verbose))
			core := Logger.Desugar().Core()
			assert.True(t, core.Enabled(zapcore.InfoLevel))
			assert.Equal(t, tt.wantDebug, core.Enabled(zapcore.DebugLevel))
		})
	}
}
