package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewConfigLevels(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":  zapcore.DebugLevel,
		" WARN ": zapcore.WarnLevel,
		"":       zapcore.InfoLevel,
		"bogus":  zapcore.InfoLevel,
	}
	for in, want := range tests {
		cfg := newConfig(in)
		assert.Equal(t, want, cfg.Level.Level(), in)
		assert.Equal(t, "json", cfg.Encoding)
		assert.Equal(t, "severity", cfg.EncoderConfig.LevelKey)
	}
}

func TestNewLoggerBuilds(t *testing.T) {
	logger, err := NewLogger("error")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestContextRoundTrip(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("hello")
	assert.Equal(t, 1, logs.Len())

	assert.NotNil(t, FromContext(context.Background()))
}
