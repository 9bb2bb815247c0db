package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livetemplate/htmlelements"
	"github.com/livetemplate/htmlelements/internal/config"
)

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServePage(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, body := get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.True(t, resp.Uncompressed, "page should be served gzip-compressed")
	assert.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))

	assert.True(t, strings.HasPrefix(body, "<!DOCTYPE html>"))
	assert.Contains(t, body, "<title>HTML Elements — Go demo</title>")
	assert.Contains(t, body, `<div id="elements-root"`)
	assert.Contains(t, body, `<script src="/assets/htmlelements-client.js"></script>`)
	assert.Contains(t, body, tailwindCDNOrigin)
	assert.Contains(t, body, `(50)`)
}

func TestServePageWithoutTailwind(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Features.TailwindCDN = false
	_, ts := newTestServer(t, cfg)

	_, body := get(t, ts.URL+"/")
	assert.NotContains(t, body, tailwindCDNOrigin)
}

func TestServeAssets(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, body := get(t, ts.URL+"/assets/htmlelements-client.js")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "javascript")
	assert.Contains(t, body, "data-action")

	resp, _ = get(t, ts.URL+"/assets/htmlelements-client.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/assets/missing.js")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t, nil)
	newWSTestClient(t, ts)

	resp, body := get(t, ts.URL+"/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 1, health.Sessions)
}

func TestStateAPI(t *testing.T) {
	_, ts := newTestServer(t, nil)
	c := newWSTestClient(t, ts)

	c.send(htmlelements.ActionText, map[string]interface{}{"value": "from api"})
	c.mustReceive()

	resp, body := get(t, ts.URL+"/api/state/"+c.session)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info SessionInfo
	require.NoError(t, json.Unmarshal([]byte(body), &info))
	assert.Equal(t, c.session, info.ID)
	assert.Equal(t, "from api", info.State.Text)
	assert.Equal(t, 50, info.State.Range)

	resp, body = get(t, ts.URL+"/api/sessions")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Sessions []SessionInfo `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, c.session, list.Sessions[0].ID)

	resp, body = get(t, ts.URL+"/api/state/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "session not found")
}

func TestCORSOnlyWhenConfigured(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.CORSOrigins = []string{"http://dash.example"}
	_, ts := newTestServer(t, cfg)

	req, err := http.NewRequest("GET", ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://dash.example")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "http://dash.example", resp.Header.Get("Access-Control-Allow-Origin"))

	_, plain := newTestServer(t, nil)
	req, err = http.NewRequest("GET", plain.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://dash.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.State.Radio = "r9"
	_, err := New(cfg)
	assert.Error(t, err)
}

func writeConfigFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestReloadSwapsContentAndState(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	writeConfigFile(t, path, "title: First\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	srv, ts := newTestServer(t, cfg)

	writeConfigFile(t, path, "title: Second\nstate:\n  text: preset\n")
	require.NoError(t, srv.Reload())

	assert.Equal(t, "Second", srv.Content().Title)
	assert.Equal(t, "preset", srv.InitialState().Text)

	_, body := get(t, ts.URL+"/")
	assert.Contains(t, body, "<title>Second</title>")

	// New sessions start from the reloaded state.
	c := newWSTestClient(t, ts)
	sess, ok := srv.sessions.get(c.session)
	require.True(t, ok)
	assert.Equal(t, "preset", sess.store.Snapshot().Text)

	// A broken file keeps the last good content.
	writeConfigFile(t, path, "state:\n  radio: r7\n")
	assert.Error(t, srv.Reload())
	assert.Equal(t, "Second", srv.Content().Title)
}

func TestReloadWithoutConfigFile(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	assert.Error(t, srv.Reload())
	assert.Error(t, srv.EnableWatch(false))
}

func TestWatchBroadcastsReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	writeConfigFile(t, path, "title: Before\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	srv, ts := newTestServer(t, cfg)
	require.NoError(t, srv.EnableWatch(false))

	c := newWSTestClient(t, ts)
	c.timeout = 5 * time.Second

	// Unrelated files in the same directory are ignored.
	writeConfigFile(t, filepath.Join(filepath.Dir(path), "notes.txt"), "x")
	writeConfigFile(t, path, "title: After\n")

	msg := c.mustReceive()
	assert.Equal(t, MsgReload, msg.Action)
	assert.Equal(t, config.FileName, msg.File)
	assert.Equal(t, "After", srv.Content().Title)
}

func TestStartAndShutdown(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	srv, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestWritePageStatic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, htmlelements.DefaultState().WithText("snap"), nil, PageOptions{}))
	out := buf.String()

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<style>")
	assert.Contains(t, out, `value="snap"`)
	assert.NotContains(t, out, "htmlelements-client.js")
	assert.NotContains(t, out, tailwindCDNOrigin)
}
