package logger

import (
	"testing"

	"github.com/sifan077/LinkDesk/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestFromApp(t *testing.T) {
	dev := FromApp(config.AppConfig{Env: "development", LogLevel: "debug"})
	assert.True(t, dev.Development)
	assert.Equal(t, "console", dev.Encoding)

	prod := FromApp(config.AppConfig{Env: "production"})
	assert.False(t, prod.Development)
	assert.Empty(t, prod.Encoding)
}

func TestNew_Level(t *testing.T) {
	l, err := New(Config{Level: "WARN", Encoding: "json"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Config{Encoding: "xml"})
	assert.Error(t, err)
}

func TestInitReplacesGlobal(t *testing.T) {
	l, err := Init(Config{Development: true, Level: "error"})
	require.NoError(t, err)
	assert.Same(t, l, L())
	assert.NoError(t, Sync())
}
