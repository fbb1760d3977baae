package main

import (
	"path/filepath"
	"testing"

	"github.com/couchcryptid/weather-geocoder/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRun_MissingLocaleFileReturnsError(t *testing.T) {
	cfg := &config.Config{LocaleFile: filepath.Join(t.TempDir(), "missing.yaml")}

	err := run(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load locale")
}

func TestRun_BadRedisURLReturnsError(t *testing.T) {
	cfg := &config.Config{RedisURL: "not-a-redis-url"}

	err := run(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configure redis")
}
