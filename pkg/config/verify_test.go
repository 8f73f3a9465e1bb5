package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feed2index/pkg/domain"
)

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema()
	require.NotNil(t, schema)
	require.NotNil(t, schema.Properties)

	assert.ElementsMatch(t, []string{"index", "sources"}, schema.Required)

	index, ok := schema.Properties.Get("index")
	require.True(t, ok)
	assert.Equal(t, []string{"name"}, index.Required)
	backend, ok := index.Properties.Get("backend")
	require.True(t, ok)
	assert.Equal(t, []any{"sqlite", "remote"}, backend.Enum)

	sources, ok := schema.Properties.Get("sources")
	require.True(t, ok)
	require.NotNil(t, sources.Items)
	assert.Equal(t, []string{"kind"}, sources.Items.Required)
}

func TestVerify(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{Sources: []SourceConfig{{Kind: "feed", URL: "http://x", Mode: "upsert"}}}
		cfg.Index.Name = "posts"
		cfg.Index.Backend = BackendSQLite
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, Verify(valid()))
	})

	t.Run("missing index name", func(t *testing.T) {
		cfg := valid()
		cfg.Index.Name = " "
		err := Verify(cfg)
		require.ErrorIs(t, err, domain.ErrConfiguration)
		assert.Contains(t, err.Error(), "index.name is required")
	})

	t.Run("missing sources", func(t *testing.T) {
		cfg := valid()
		cfg.Sources = nil
		err := Verify(cfg)
		require.ErrorIs(t, err, domain.ErrConfiguration)
		assert.Contains(t, err.Error(), "sources is required")
	})

	t.Run("bad source kind", func(t *testing.T) {
		cfg := valid()
		cfg.Sources = append(cfg.Sources, SourceConfig{Kind: "atom", URL: "http://y"})
		err := Verify(cfg)
		require.ErrorIs(t, err, domain.ErrConfiguration)
		assert.Contains(t, err.Error(), "sources[1].kind has unsupported value atom")
	})

	t.Run("missing source kind", func(t *testing.T) {
		cfg := valid()
		cfg.Sources[0].Kind = ""
		err := Verify(cfg)
		require.ErrorIs(t, err, domain.ErrConfiguration)
		assert.Contains(t, err.Error(), "sources[0].kind is required")
	})
}
