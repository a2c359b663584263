package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	orig := Logger
	t.Cleanup(func() { Logger = orig })

	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{"console info", "info", "console", false},
		{"json debug", "debug", "json", false},
		{"default format", "warn", "", false},
		{"upper case level", "ERROR", "console", false},
		{"bad level", "loud", "console", true},
		{"bad format", "info", "xml", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Initialize(tt.level, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, Logger)
		})
	}
}

func TestUseCore(t *testing.T) {
	orig := Logger
	t.Cleanup(func() { Logger = orig })

	core, logs := observer.New(zap.DebugLevel)
	UseCore(core)
	Logger.Debugw("level finished", "size", 2, "frequent", 5)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "level finished", entry.Message)
	assert.Equal(t, int64(2), entry.ContextMap()["size"])
}
