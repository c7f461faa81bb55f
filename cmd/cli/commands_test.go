package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  string
	body   map[string]any
}

func withServer(t *testing.T, status int) *[]recorded {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.EscapedPath(), query: r.URL.RawQuery}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.body)
		}
		calls = append(calls, rec)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	oldHost, oldDryRun, oldVerbose := host, dryRun, verbose
	host = srv.URL
	t.Cleanup(func() { host, dryRun, verbose = oldHost, oldDryRun, oldVerbose })
	return &calls
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestStartCommand(t *testing.T) {
	calls := withServer(t, http.StatusCreated)
	require.NoError(t, run(t, "start", "p1", "Anna", "p2", "Bea", "--event", "ev-1", "--server", "B"))

	require.Len(t, *calls, 1)
	c := (*calls)[0]
	assert.Equal(t, http.MethodPost, c.method)
	assert.Equal(t, "/matches", c.path)
	assert.Equal(t, "ev-1", c.body["eventId"])
	assert.Equal(t, "B", c.body["server"])
	assert.Equal(t, map[string]any{"id": "p1", "name": "Anna"}, c.body["playerA"])
}

func TestPointCommand(t *testing.T) {
	calls := withServer(t, http.StatusOK)
	require.NoError(t, run(t, "point", "ev 1", "A", "--kind", "winner"))

	c := (*calls)[0]
	assert.Equal(t, "/matches/ev%201/point", c.path)
	assert.Equal(t, map[string]any{"side": "A", "kind": "winner"}, c.body)
}

func TestEndCommandDryRun(t *testing.T) {
	calls := withServer(t, http.StatusOK)
	require.NoError(t, run(t, "end", "ev-1", "--dry-run"))

	c := (*calls)[0]
	assert.Equal(t, "/matches/ev-1/end", c.path)
	assert.Equal(t, "dry_run=true", c.query)
}

func TestErrorStatusFailsCommand(t *testing.T) {
	withServer(t, http.StatusConflict)
	assert.Error(t, run(t, "abandon", "ev-1"))
}
