package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/ipobot/internal/config"
	"github.com/m3rciful/ipobot/internal/ipo"
	"github.com/m3rciful/ipobot/internal/pans"
	"github.com/m3rciful/ipobot/internal/storage"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.IPO.BaseURL = "http://localhost"

	svc := pans.NewService(storage.NewMemoryStore(0))
	client := ipo.NewClient(ipo.Options{BaseURL: cfg.IPO.BaseURL})

	a, err := New(cfg, svc, client)
	require.NoError(t, err)
	return a
}

func TestNewAppliesDefaults(t *testing.T) {
	a := newTestApp(t)

	assert.Equal(t, storage.MaxPANsPerUser, a.panLimit)
	assert.Equal(t, defaultPageSize, a.pageSize)
}

func TestNewRegistersEverySurface(t *testing.T) {
	a := newTestApp(t)

	for _, cmd := range []string{"/start", "/help", "/ipos", "/cancel", "/stats"} {
		_, _, ok := a.registry.LookupCommand(cmd)
		assert.True(t, ok, cmd)
	}

	keys := a.registry.ListCallbacks()
	for _, key := range []string{
		cbMainMenu, cbAddPAN, cbMyPANs, cbDeletePAN,
		cbIPOList, cbIPOPage, cbIPOCheck, cbCancel,
	} {
		assert.Contains(t, keys, key)
	}
}

func TestTelegramRunOptionsBuildsRoutes(t *testing.T) {
	a := newTestApp(t)

	opts, err := a.TelegramRunOptions()
	require.NoError(t, err)
	require.NotNil(t, opts.Config)
	assert.Same(t, a.registry, opts.Registry)

	// 5 command routes, the callback route, text and document routes.
	assert.Len(t, opts.Routes, 8)
	assert.NotEmpty(t, opts.Middlewares)
}
