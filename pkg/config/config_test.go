package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feed2index/pkg/domain"
	"github.com/umputun/feed2index/pkg/indexer"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_SEARCH_KEY", "secret-key")
	path := writeConfig(t, `
index:
  name: blog
  backend: remote
  create: true
  remote:
    endpoint: https://example.search.windows.net
    api_key: ${TEST_SEARCH_KEY}
sources:
  - kind: feed
    url: https://example.com/rss.xml
  - name: pages
    kind: sitemap
    url: https://example.com/sitemap.xml
    mode: delete
  - kind: export
    path: /tmp/export.json
    base_url: https://example.com
    published_only: true
schedule:
  interval: 15m
fetch:
  timeout: 10s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "blog", cfg.Index.Name)
	assert.Equal(t, BackendRemote, cfg.Index.Backend)
	assert.True(t, cfg.Index.Create)
	assert.Equal(t, "secret-key", cfg.Index.Remote.APIKey)
	assert.Equal(t, "2023-11-01", cfg.Index.Remote.APIVersion)
	assert.Equal(t, 30*time.Second, cfg.Index.Remote.Timeout)
	assert.Equal(t, 15*time.Minute, cfg.Schedule.Interval)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "feed2index/1.0", cfg.Fetch.UserAgent)
	assert.Equal(t, "page-content", cfg.Extraction.ContentID)

	require.Len(t, cfg.Sources, 3)
	assert.Equal(t, "https://example.com/rss.xml", cfg.Sources[0].Name, "name defaults to url")
	assert.Equal(t, "upsert", cfg.Sources[0].Mode)
	assert.Equal(t, "pages", cfg.Sources[1].Name)
	assert.Equal(t, "/tmp/export.json", cfg.Sources[2].Name, "export name defaults to path")

	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, ":8080", listen)
	assert.Equal(t, 30*time.Second, timeout)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
sources:
  - kind: feed
    url: https://example.com/rss.xml
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "posts", cfg.Index.Name)
	assert.Equal(t, BackendSQLite, cfg.Index.Backend)
	assert.Contains(t, cfg.Index.SQLite.DSN, "feed2index.db")
	assert.Equal(t, 4, cfg.Index.SQLite.MaxOpenConns)
	assert.Equal(t, time.Hour, cfg.Index.SQLite.ConnMaxLifetime)
	assert.Equal(t, int64(32*1024*1024), cfg.Fetch.MaxSize)
	assert.Zero(t, cfg.Schedule.Interval)
	assert.False(t, cfg.Server.Enabled)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "no sources", body: "index:\n  name: posts\n", wantErr: "at least one source"},
		{name: "unknown kind", body: "sources:\n  - kind: atom\n    url: http://x\n", wantErr: "unknown kind"},
		{name: "feed without url", body: "sources:\n  - kind: feed\n", wantErr: "sources[0].url is required"},
		{name: "export without path", body: "sources:\n  - kind: export\n", wantErr: "sources[0].path is required"},
		{name: "bad mode", body: "sources:\n  - kind: feed\n    url: http://x\n    mode: merge\n", wantErr: "unknown mode"},
		{name: "unknown backend", body: "index:\n  backend: mongo\nsources:\n  - kind: feed\n    url: http://x\n",
			wantErr: "unknown index backend"},
		{name: "remote without endpoint", body: "index:\n  backend: remote\nsources:\n  - kind: feed\n    url: http://x\n",
			wantErr: "endpoint is required"},
		{name: "remote without key", body: "index:\n  backend: remote\n  remote:\n    endpoint: http://s\nsources:\n  - kind: feed\n    url: http://x\n",
			wantErr: "api_key is required"},
		{name: "server with remote", body: "index:\n  backend: remote\n  remote:\n    endpoint: http://s\n    api_key: k\n" +
			"server:\n  enabled: true\nsources:\n  - kind: feed\n    url: http://x\n", wantErr: "requires sqlite backend"},
		{name: "negative interval", body: "schedule:\n  interval: -1m\nsources:\n  - kind: feed\n    url: http://x\n",
			wantErr: "non-negative"},
		{name: "unknown field", body: "sorces:\n  - kind: feed\n", wantErr: "parse config"},
		{name: "invalid yaml", body: "sources: [\n", wantErr: "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestConfig_SyncSources(t *testing.T) {
	cfg := &Config{Sources: []SourceConfig{
		{Name: "feed", Kind: "feed", URL: "https://example.com/rss", Mode: "upsert"},
		{Name: "old", Kind: "sitemap", URL: "https://example.com/sitemap.xml", Mode: "delete"},
		{Name: "dump", Kind: "export", Path: "/data/export.json", BaseURL: "https://example.com", PublishedOnly: true, Mode: "upsert"},
	}}

	sources := cfg.SyncSources()
	require.Len(t, sources, 3)
	assert.Equal(t, indexer.Source{Name: "feed", Kind: indexer.SourceFeed, URL: "https://example.com/rss", Mode: domain.ModeUpsert}, sources[0])
	assert.Equal(t, domain.ModeDelete, sources[1].Mode)
	assert.Equal(t, indexer.SourceSitemap, sources[1].Kind)
	assert.Equal(t, indexer.Source{Name: "dump", Kind: indexer.SourceExport, Path: "/data/export.json",
		BaseURL: "https://example.com", PublishedOnly: true, Mode: domain.ModeUpsert}, sources[2])
}
