package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ISSO_PAGE_URL", "https://blog.example.org/posts/1/")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Empty(t, cfg.Service.Endpoint)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ISSO_PAGE_URL", "http://localhost:1313/")
	t.Setenv("ISSO_ENDPOINT", "http://localhost:8080/isso/")
	t.Setenv("ISSO_HTTP_TIMEOUT_SECONDS", "3")
	t.Setenv("ISSO_METRICS", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "http://localhost:8080/isso/", cfg.Service.Endpoint)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadMetricsFileEnablesMetrics(t *testing.T) {
	t.Setenv("ISSO_PAGE_URL", "https://blog.example.org/")
	t.Setenv("ISSO_METRICS_FILE", "/var/lib/node_exporter/isso.prom")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/var/lib/node_exporter/isso.prom", cfg.Metrics.File)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing page", Config{HTTP: HTTPConfig{Timeout: time.Second}}},
		{"relative page", Config{Page: PageConfig{URL: "/posts/1/"}, HTTP: HTTPConfig{Timeout: time.Second}}},
		{"relative endpoint", Config{Page: PageConfig{URL: "http://a/"}, Service: ServiceConfig{Endpoint: "/isso"}, HTTP: HTTPConfig{Timeout: time.Second}}},
		{"zero timeout", Config{Page: PageConfig{URL: "http://a/"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cfg.Validate())
		})
	}
}
