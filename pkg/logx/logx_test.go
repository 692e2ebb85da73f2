package logx_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcodd23/go-micro-sqlite/pkg/configmgr"
	"github.com/marcodd23/go-micro-sqlite/pkg/logx"
)

func TestGetLogger_DefaultBeforeSetup(t *testing.T) {
	logx.SetLogger(nil)

	_, ok := logx.GetLogger().(*logx.DefaultLogger)
	assert.True(t, ok)
	assert.Nil(t, logx.GetLogger().GetLogger())
}

// TestZeroLogWrapper_Fields checks each level carries its severity and the attached errors.
func TestZeroLogWrapper_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := logx.NewZeroLogWrapper(zerolog.New(&buf).Level(zerolog.DebugLevel))
	logx.SetLogger(l)
	t.Cleanup(func() { logx.SetLogger(nil) })

	require.Same(t, l, logx.GetLogger())

	logx.GetLogger().LogWarning(context.Background(), "fetch without row", errors.New("no row loaded"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "WARNING", entry["severity"])
	assert.Equal(t, "fetch without row", entry["message"])
	assert.Equal(t, "no row loaded", entry["error"])

	buf.Reset()
	logx.GetLogger().LogDebug(context.Background(), "compiled")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "DEBUG", entry["severity"])

	assert.Panics(t, func() { logx.GetLogger().LogPanic(context.Background(), "panic") })
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logx.ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, logx.ParseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, logx.ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, logx.ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, logx.ParseLevel("verbose"))
}

func TestSetupLogger(t *testing.T) {
	previous := zerolog.GlobalLevel()
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(previous)
		logx.SetLogger(nil)
	})

	cfg := configmgr.BaseConfig{
		Name:        "test-service",
		Environment: "PROD",
		Version:     "1.2.3",
		Logging:     &configmgr.LoggingConfig{Level: "error"},
	}

	l := logx.SetupLogger(cfg)
	assert.Same(t, l, logx.GetLogger())
	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())

	_, ok := l.GetLogger().(*zerolog.Logger)
	assert.True(t, ok)
}
