package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":4000", cfg.Addr)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 64, cfg.SendBuffer)
	assert.Equal(t, 30*time.Second, cfg.PingInterval)
}

func TestLoadEnvAndFlags(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("LOG_STDOUT", "true")
	t.Setenv("WRITE_TIMEOUT", "2s")

	cfg, err := Load([]string{"-send-buffer", "8"})
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.True(t, cfg.LogStdout)
	assert.Equal(t, 2*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 8, cfg.SendBuffer)

	cfg, err = Load([]string{"-addr", ":7000"})
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr, "flag overrides env")
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("SEND_BUFFER", "lots")
	_, err := Load(nil)
	assert.ErrorIs(t, err, ErrInvalid)

	t.Setenv("SEND_BUFFER", "")
	t.Setenv("PING_INTERVAL", "90s")
	_, err = Load(nil)
	assert.ErrorIs(t, err, ErrInvalid, "ping interval must be shorter than read timeout")
}
