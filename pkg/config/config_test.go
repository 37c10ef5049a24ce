package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	require.NoError(t, Load())

	assert.Equal(t, "8080", AppConfig.Server.Port)
	assert.Equal(t, "./hfscout.db", AppConfig.Database.Path)
	assert.Equal(t, "https://huggingface.co", AppConfig.Hub.BaseURL)
	assert.Equal(t, 20, AppConfig.Search.HTTPTimeoutSeconds)
	assert.Equal(t, 60, AppConfig.Search.StatusTTLMinutes)
	assert.Contains(t, AppConfig.Search.PlaceholderDomains, "example.com")
	assert.Empty(t, AppConfig.Search.BrowserUseAPIKey)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/var/data/app.db")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("BROWSERUSE_API_KEY", "secret")

	require.NoError(t, Load())

	assert.Equal(t, "9090", AppConfig.Server.Port)
	assert.Equal(t, "/var/data/app.db", AppConfig.Database.Path)
	assert.Equal(t, 5, AppConfig.Search.HTTPTimeoutSeconds)
	assert.Equal(t, "secret", AppConfig.Search.BrowserUseAPIKey)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "not-a-number")

	require.NoError(t, Load())

	assert.Equal(t, 20, AppConfig.Search.HTTPTimeoutSeconds)
}

func TestLoadPlaceholderDomainList(t *testing.T) {
	t.Setenv("PLACEHOLDER_DOMAINS", "foo.com, bar.org ,,baz.net")

	require.NoError(t, Load())

	assert.Equal(t, []string{"foo.com", "bar.org", "baz.net"}, AppConfig.Search.PlaceholderDomains)
}
