package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasmlab/mozhi/pkg/translate"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(nil, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, translate.EngineGoogle, cfg.EngineType())
	assert.Equal(t, 15*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, CacheNone, cfg.CacheBackend)
	assert.Equal(t, 2*time.Hour, cfg.SessionMaxIdle)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}

func TestLoad_EnvironmentAndFlags(t *testing.T) {
	environ := map[string]string{
		"MT_ENGINE":        "libretranslate",
		"MT_URL":           "http://libretranslate:5000",
		"PROVIDER_TIMEOUT": "5s",
		"CACHE_BACKEND":    "redis",
		"LOG_LEVEL":        "debug",
	}

	cfg, err := load([]string{"--mt-url", "http://localhost:5000", "--port", "9090"}, environ)
	require.NoError(t, err)

	assert.Equal(t, translate.EngineLibreTranslate, cfg.EngineType())
	assert.Equal(t, "http://localhost:5000", cfg.EngineURL)
	assert.Equal(t, 9090, cfg.GRPCPort)
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, CacheRedis, cfg.CacheBackend)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
	assert.NotContains(t, cfg.Fields(), "mt_api_key")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		environ map[string]string
	}{
		{"unknown engine", nil, map[string]string{"MT_ENGINE": "argos"}},
		{"bad duration", nil, map[string]string{"PROVIDER_TIMEOUT": "soon"}},
		{"zero timeout", []string{"--provider-timeout", "0s"}, map[string]string{}},
		{"unknown cache", []string{"--cache", "memcached"}, map[string]string{}},
		{"zero max idle", nil, map[string]string{"SESSION_MAX_IDLE": "0s"}},
		{"negative max idle", nil, map[string]string{"SESSION_MAX_IDLE": "-1m"}},
		{"bad log level", nil, map[string]string{"LOG_LEVEL": "chatty"}},
		{"unknown flag", []string{"--nope"}, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(tt.args, tt.environ)
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mozhi.env")
	require.NoError(t, os.WriteFile(path, []byte("MOZHI_TEST_ENGINE_URL=http://from-file:5000\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("MOZHI_TEST_ENGINE_URL") })

	loaded, err := loadEnvFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, loaded)
	assert.Equal(t, "http://from-file:5000", os.Getenv("MOZHI_TEST_ENGINE_URL"))

	_, err = loadEnvFile(filepath.Join(dir, "missing.env"))
	assert.Error(t, err)
}
