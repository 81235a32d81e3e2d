package dispatch

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"log/slog"
	"os"
	"testing"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("DISPATCH_STRICT", "true")
	t.Setenv("DISPATCH_LOG_LEVEL", "debug")
	conf, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.True(t, conf.Strict)
	assert.Equal(t, slog.LevelDebug, conf.LogLevel)
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	// Setenv restores the original values during cleanup.
	t.Setenv("DISPATCH_STRICT", "")
	t.Setenv("DISPATCH_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("DISPATCH_STRICT"))
	require.NoError(t, os.Unsetenv("DISPATCH_LOG_LEVEL"))
	conf, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.False(t, conf.Strict)
	assert.Equal(t, slog.LevelInfo, conf.LogLevel)
}

func TestConfigFromEnv_Invalid(t *testing.T) {
	t.Setenv("DISPATCH_STRICT", "maybe")
	_, err := ConfigFromEnv()
	assert.Error(t, err)
}

func TestConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := Config{LogLevel: slog.LevelWarn}.NewLogger(&buf)
	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigFunc_InvalidInput(t *testing.T) {
	opts := options{inst: nopInstrument{}}
	assert.ErrorIs(t, WithLogger(nil)(&opts), ErrInvalidConfig)
	assert.ErrorIs(t, WithInstrument(nil)(&opts), ErrInvalidConfig)
	assert.Nil(t, opts.log)
	assert.Equal(t, nopInstrument{}, opts.inst)

	assert.Panics(t, func() {
		NewRegistry(WithLogger(nil))
	})
}

func TestConfigFunc_Strict(t *testing.T) {
	opts := options{}
	require.NoError(t, WithConfig(Config{Strict: true, LogLevel: slog.LevelError})(&opts))
	assert.True(t, opts.conf.Strict)
	require.NoError(t, Strict(false)(&opts))
	assert.False(t, opts.conf.Strict)
	assert.Equal(t, slog.LevelError, opts.conf.LogLevel)
}
