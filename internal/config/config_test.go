package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stellarbit/hubclient/internal/hub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, hub.DefaultEndpoint, cfg.GetHubEndpoint())
	assert.Equal(t, 30*time.Second, cfg.GetTimeout())
	assert.True(t, cfg.Sessions.Persist)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.HasCredentials())
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `hub:
  endpoint: https://hub.example.com/
  username: nova
  password: stardust
  timeout: PT10S
sessions:
  persist: false
logging:
  level: warn
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	opts := cfg.HubOptions()
	assert.Equal(t, "https://hub.example.com/", opts.Endpoint)
	assert.Equal(t, "nova", opts.Username)
	assert.Equal(t, "stardust", opts.Password)
	assert.Equal(t, 10*time.Second, opts.Timeout)
	assert.False(t, cfg.Sessions.Persist)
	assert.Equal(t, "hub.example.com", cfg.GetHubKey())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `hub:
  endpoint: https://hub.example.com/
  username: nova
`)

	t.Setenv("HUB_USERNAME", "orion")
	t.Setenv("HUB_ENDPOINT", "http://localhost:4000/")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "orion", cfg.Hub.Username)
	assert.Equal(t, "http://localhost:4000/", cfg.GetHubEndpoint())
	assert.Equal(t, "localhost_4000", cfg.GetHubKey())
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	path := writeConfig(t, `logging:
  level: chatty
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_SetHubEndpoint(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.SetHubEndpoint("https://hub.example.com:8443/"))
	assert.Equal(t, "hub.example.com_8443", cfg.GetHubKey())

	assert.Error(t, cfg.SetHubEndpoint("hub.example.com"))
}

func TestConfig_InvalidTimeoutIsIgnored(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hub.Timeout = "whenever"

	assert.Zero(t, cfg.GetTimeout())
}

func TestLoad_ShortEnvironmentNamesWin(t *testing.T) {
	path := writeConfig(t, `hub:
  timeout: 10s
`)

	t.Setenv("HUB_TIMEOUT", "PT1M")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.GetTimeout())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoggingConfig_Apply(t *testing.T) {
	previous := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(previous) })

	require.NoError(t, LoggingConfig{Level: "debug", Format: "json"}.Apply())
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	assert.NoError(t, LoggingConfig{Level: "info", Format: "fancy"}.Apply())
	assert.Error(t, LoggingConfig{Level: "chatty"}.Apply())
}
