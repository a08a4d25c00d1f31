package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
database:
  host: db.local
  port: "5432"
  user: bot
  name: ipobot
ipo:
  base_url: "https://api.example.com"
  page_size: 5
pans:
  max_per_user: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.True(t, cfg.HasDatabase())
	assert.Equal(t, "https://api.example.com", cfg.IPO.BaseURL)
	assert.Equal(t, 5, cfg.IPO.PageSize)
	assert.Equal(t, 10, cfg.Pans.MaxPerUser)
	require.NotNil(t, cfg.CoreConfig())
	assert.Equal(t, "longpoll", cfg.CoreConfig().Telegram.RunMode)
}

func TestLoadWithoutDatabaseFallsBackToMemory(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
ipo:
  base_url: "https://api.example.com"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.HasDatabase())
}

func TestLoadRejectsMissingBaseURL(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ipo.base_url")
}
