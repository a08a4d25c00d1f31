package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/ipobot/internal/config"
	"github.com/m3rciful/ipobot/internal/ipo"
	"github.com/m3rciful/ipobot/internal/pans"
	"github.com/m3rciful/ipobot/internal/storage"
)

func newTestAppWithIPO(t *testing.T, client *ipo.Client) *App {
	t.Helper()
	cfg := &config.Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.IPO.BaseURL = "http://localhost"

	a, err := New(cfg, pans.NewService(storage.NewMemoryStore(0)), client)
	require.NoError(t, err)
	return a
}

func TestLastPageRestoresCachedIndex(t *testing.T) {
	a := newTestApp(t)

	assert.Equal(t, 0, a.lastPage(7))

	a.sessions.SetTemp(7, tempIPOPage, 2)
	assert.Equal(t, 2, a.lastPage(7))

	// Foreign value in the scratch slot falls back to the first page.
	a.sessions.SetTemp(8, tempIPOPage, "two")
	assert.Equal(t, 0, a.lastPage(8))
}

func TestLookupIPOUsesCachedPage(t *testing.T) {
	a := newTestApp(t)
	a.sessions.SetTemp(7, tempIPOPageItems, []ipo.IPO{{ID: "11", Name: "Acme Industries"}})

	item, err := a.lookupIPO(context.Background(), 7, "11")
	require.NoError(t, err)
	assert.Equal(t, "Acme Industries", item.Name)
}

func TestLookupIPORefetchesOnCacheMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[{"ipoid":"42","iponame":"Globex Corp"}]}`))
	}))
	defer srv.Close()

	a := newTestAppWithIPO(t, ipo.NewClient(ipo.Options{BaseURL: srv.URL}))

	item, err := a.lookupIPO(context.Background(), 7, "42")
	require.NoError(t, err)
	assert.Equal(t, "Globex Corp", item.Name)

	_, err = a.lookupIPO(context.Background(), 7, "404")
	assert.ErrorIs(t, err, errNotListed)
}

func TestLookupIPOSurfacesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	a := newTestAppWithIPO(t, ipo.NewClient(ipo.Options{
		BaseURL:     srv.URL,
		ListTimeout: 20 * time.Millisecond,
	}))

	_, err := a.lookupIPO(context.Background(), 7, "42")
	assert.ErrorIs(t, err, ipo.ErrTimeout)
}
