package ipo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFetchesItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, listPath, r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]string{
				{"ipoid": "42", "iponame": "Acme Industries"},
				{"ipoid": "43", "iponame": "Globex Corp"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL})
	items, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, IPO{ID: "42", Name: "Acme Industries"}, items[0])
}

func TestListRemoteFailures(t *testing.T) {
	t.Run("non-200", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := NewClient(Options{BaseURL: srv.URL})
		_, err := c.List(context.Background())
		assert.ErrorIs(t, err, ErrRemote)
	})

	t.Run("application failure carries message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"message": "registrar unavailable",
			})
		}))
		defer srv.Close()

		c := NewClient(Options{BaseURL: srv.URL})
		_, err := c.List(context.Background())
		require.ErrorIs(t, err, ErrRemote)
		assert.Contains(t, err.Error(), "registrar unavailable")
	})
}

func TestListTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, ListTimeout: 50 * time.Millisecond})
	_, err := c.List(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestCheckAllotmentSendsBatch(t *testing.T) {
	var got checkRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, checkPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{"pan": "ABCDE1234F", "status": "Allotted", "allotted_qty": "10", "success": true},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL})
	entries, err := c.CheckAllotment(context.Background(), "42", []string{"ABCDE1234F", "BVJPC7028R"})
	require.NoError(t, err)

	assert.Equal(t, "42", got.IPOID)
	assert.Equal(t, []string{"ABCDE1234F", "BVJPC7028R"}, got.PANs)
	require.Len(t, entries, 1)
	assert.Equal(t, "Allotted", entries[0].Status)
	assert.Equal(t, "10", entries[0].AllottedQty)
}
