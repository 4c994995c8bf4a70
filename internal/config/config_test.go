package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadWithDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(WithoutSystemEnv())
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, "templates", cfg.TemplatesDir)
	require.Equal(t, "content", cfg.ContentDir)
	require.Equal(t, "dist", cfg.OutDir)
	require.Equal(t, "info", cfg.LogLevel)
	require.False(t, cfg.Dev)
	require.False(t, cfg.Production())
	require.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := Load(WithoutSystemEnv(), WithEnvMap(map[string]string{
		"PORT":                           "9000",
		"PEARTREE_WEB_DEV":               "true",
		"PEARTREE_WEB_ENV":               "prod",
		"PEARTREE_WEB_BASE_URL":          "https://www.peartreedental.co.uk/",
		"PEARTREE_WEB_WRITE_TIMEOUT":     "20s",
		"PEARTREE_WEB_GA_MEASUREMENT_ID": "G-TEST",
	}))
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Port, "falls back to Cloud Run PORT")
	require.True(t, cfg.Dev)
	require.True(t, cfg.Production())
	require.Equal(t, "https://www.peartreedental.co.uk", cfg.BaseURL)
	require.Equal(t, 20*time.Second, cfg.Server.WriteTimeout)
	require.Equal(t, "G-TEST", cfg.Analytics.GA4MeasurementID)

	cfg, err = Load(WithoutSystemEnv(), WithEnvMap(map[string]string{"PORT": "9000", "PEARTREE_WEB_PORT": "8181"}))
	require.NoError(t, err)
	require.Equal(t, "8181", cfg.Port)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Parallel()

	_, err := Load(WithoutSystemEnv(), WithEnvMap(map[string]string{"PEARTREE_WEB_IDLE_TIMEOUT": "soon"}))
	require.ErrorContains(t, err, "config: parse env")
}
