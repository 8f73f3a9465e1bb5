// Package config loads feed2index configuration from a YAML file. Environment variables referenced
// as $VAR or ${VAR} are expanded before parsing.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/umputun/feed2index/pkg/domain"
	"github.com/umputun/feed2index/pkg/indexer"
)

// schema.json is generated for editor tooling, Verify doesn't read it
//go:generate go run ../../cmd/schema/main.go schema.json

// index backends
const (
	BackendSQLite = "sqlite"
	BackendRemote = "remote"
)

// Config holds the application configuration
type Config struct {
	Index      IndexConfig      `yaml:"index" json:"index" jsonschema:"required,description=Search index configuration"`
	Sources    []SourceConfig   `yaml:"sources" json:"sources" jsonschema:"required,description=Sources to synchronize in order"`
	Fetch      FetchConfig      `yaml:"fetch" json:"fetch" jsonschema:"description=HTTP fetch configuration"`
	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Sitemap page extraction configuration"`

	Schedule struct {
		Interval time.Duration `yaml:"interval" json:"interval" jsonschema:"default=0,description=Synchronization interval (0 runs a single pass)"`
	} `yaml:"schedule" json:"schedule" jsonschema:"description=Scheduler configuration"`

	Server struct {
		Enabled bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Serve search API over the local index"`
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
}

// IndexConfig defines the target search index
type IndexConfig struct {
	Name    string       `yaml:"name" json:"name" jsonschema:"required,default=posts,description=Index name"`
	Backend string       `yaml:"backend" json:"backend" jsonschema:"default=sqlite,enum=sqlite,enum=remote,description=Index backend"`
	Create  bool         `yaml:"create" json:"create" jsonschema:"default=false,description=Create index if missing"`
	SQLite  SQLiteConfig `yaml:"sqlite" json:"sqlite" jsonschema:"description=Local sqlite index"`
	Remote  RemoteConfig `yaml:"remote" json:"remote" jsonschema:"description=Hosted search service"`
}

// SQLiteConfig defines local index database
type SQLiteConfig struct {
	DSN             string        `yaml:"dsn" json:"dsn" jsonschema:"description=Database connection string"`
	MaxOpenConns    int           `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=4,description=Maximum number of open connections"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=1h,description=Connection maximum lifetime"`
}

// RemoteConfig defines hosted search service connection
type RemoteConfig struct {
	Endpoint   string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=Service url such as https://name.search.windows.net"`
	APIKey     string        `yaml:"api_key" json:"api_key" jsonschema:"description=Admin API key (can use environment variable)"`
	APIVersion string        `yaml:"api_version" json:"api_version" jsonschema:"default=2023-11-01,description=REST API version"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
}

// SourceConfig defines a single source
type SourceConfig struct {
	Name          string `yaml:"name" json:"name" jsonschema:"description=Source name (defaults to url or path)"`
	Kind          string `yaml:"kind" json:"kind" jsonschema:"required,enum=feed,enum=sitemap,enum=export,description=Source kind"`
	URL           string `yaml:"url" json:"url" jsonschema:"description=Feed or sitemap url"`
	Path          string `yaml:"path" json:"path" jsonschema:"description=Export file path"`
	BaseURL       string `yaml:"base_url" json:"base_url" jsonschema:"description=Prefix for links of exported posts"`
	PublishedOnly bool   `yaml:"published_only" json:"published_only" jsonschema:"default=false,description=Skip exported posts not published"`
	Mode          string `yaml:"mode" json:"mode" jsonschema:"default=upsert,enum=upsert,enum=delete,description=Batch mode"`
}

// FetchConfig defines http client parameters
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=feed2index/1.0,description=User agent for HTTP requests"`
	MaxSize   int64         `yaml:"max_size" json:"max_size" jsonschema:"default=33554432,description=Maximum document size in bytes"`
}

// ExtractionConfig defines how sitemap pages are converted to text
type ExtractionConfig struct {
	ContentID   string `yaml:"content_id" json:"content_id" jsonschema:"default=page-content,description=Id of the element holding page content"`
	Readability bool   `yaml:"readability" json:"readability" jsonschema:"default=false,description=Use readability extraction when content element is missing"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if err := Verify(&cfg); err != nil {
		return nil, fmt.Errorf("verify config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	// index defaults
	if c.Index.Name == "" {
		c.Index.Name = "posts"
	}
	if c.Index.Backend == "" {
		c.Index.Backend = BackendSQLite
	}
	if c.Index.SQLite.DSN == "" {
		c.Index.SQLite.DSN = "file:feed2index.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Index.SQLite.MaxOpenConns == 0 {
		c.Index.SQLite.MaxOpenConns = 4
	}
	if c.Index.SQLite.ConnMaxLifetime == 0 {
		c.Index.SQLite.ConnMaxLifetime = time.Hour
	}
	if c.Index.Remote.APIVersion == "" {
		c.Index.Remote.APIVersion = "2023-11-01"
	}
	if c.Index.Remote.Timeout == 0 {
		c.Index.Remote.Timeout = 30 * time.Second
	}

	// fetch and extraction defaults
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 30 * time.Second
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "feed2index/1.0"
	}
	if c.Fetch.MaxSize == 0 {
		c.Fetch.MaxSize = 32 * 1024 * 1024
	}
	if c.Extraction.ContentID == "" {
		c.Extraction.ContentID = "page-content"
	}

	// server defaults
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}

	for i := range c.Sources {
		src := &c.Sources[i]
		if src.Name == "" {
			src.Name = src.URL
			if src.Kind == string(indexer.SourceExport) {
				src.Name = src.Path
			}
		}
		if src.Mode == "" {
			src.Mode = domain.ModeUpsert.String()
		}
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	switch cfg.Index.Backend {
	case BackendSQLite:
	case BackendRemote:
		if cfg.Index.Remote.Endpoint == "" {
			return fmt.Errorf("%w: index.remote.endpoint is required for remote backend", domain.ErrConfiguration)
		}
		if cfg.Index.Remote.APIKey == "" {
			return fmt.Errorf("%w: index.remote.api_key is required for remote backend", domain.ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown index backend %q", domain.ErrConfiguration, cfg.Index.Backend)
	}

	if len(cfg.Sources) == 0 {
		return fmt.Errorf("%w: at least one source is required", domain.ErrConfiguration)
	}
	for i, src := range cfg.Sources {
		switch indexer.SourceKind(src.Kind) {
		case indexer.SourceFeed, indexer.SourceSitemap:
			if src.URL == "" {
				return fmt.Errorf("%w: sources[%d].url is required for %s", domain.ErrConfiguration, i, src.Kind)
			}
		case indexer.SourceExport:
			if src.Path == "" {
				return fmt.Errorf("%w: sources[%d].path is required for export", domain.ErrConfiguration, i)
			}
		default:
			return fmt.Errorf("%w: sources[%d] has unknown kind %q", domain.ErrConfiguration, i, src.Kind)
		}
		if _, err := domain.ParseMode(src.Mode); err != nil {
			return fmt.Errorf("sources[%d]: %w", i, err)
		}
	}

	if cfg.Schedule.Interval < 0 {
		return fmt.Errorf("%w: schedule.interval must be non-negative", domain.ErrConfiguration)
	}
	if cfg.Server.Enabled && cfg.Index.Backend != BackendSQLite {
		return fmt.Errorf("%w: search server requires sqlite backend", domain.ErrConfiguration)
	}
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("%w: server timeout must be at least 1 second", domain.ErrConfiguration)
	}
	if cfg.Fetch.Timeout < time.Second {
		return fmt.Errorf("%w: fetch timeout must be at least 1 second", domain.ErrConfiguration)
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// SyncSources returns configured sources for the synchronizer, modes are validated on load
func (c *Config) SyncSources() []indexer.Source {
	res := make([]indexer.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		mode, _ := domain.ParseMode(s.Mode)
		res = append(res, indexer.Source{
			Name:          s.Name,
			Kind:          indexer.SourceKind(s.Kind),
			URL:           s.URL,
			Path:          s.Path,
			BaseURL:       s.BaseURL,
			PublishedOnly: s.PublishedOnly,
			Mode:          mode,
		})
	}
	return res
}
