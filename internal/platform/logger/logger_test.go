package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewZapLogger_FallsBackOnBadLevel(t *testing.T) {
	l, err := NewZapLogger(ZapLoggerConfig{Level: "loud", Encoding: "console"})
	require.NoError(t, err)
	require.NotNil(t, l)
	l.Infof("logger works: %d", 1)
}

func TestFromZap_WithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With("component", "cart")

	l.Warnf("persist failed: %s", "boom")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "persist failed: boom", entries[0].Message)
	assert.Equal(t, "cart", entries[0].ContextMap()["component"])
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Error("ignored")
	assert.NotNil(t, l.With("k", "v"))
}
