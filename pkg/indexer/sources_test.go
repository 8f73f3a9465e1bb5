package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feed2index/pkg/domain"
	"github.com/umputun/feed2index/pkg/indexer/mocks"
)

func TestSynchronizer_SyncSource(t *testing.T) {
	feeds := &mocks.FeedParserMock{
		ParseFunc: func(_ context.Context, feedURL string) (*domain.Feed, error) {
			if feedURL == "" {
				return nil, domain.ErrConfiguration
			}
			return &domain.Feed{Title: "f", Items: []domain.FeedItem{{ID: "i1", Content: "<p>x</p>"}}}, nil
		},
	}
	sitemaps := &mocks.SitemapParserMock{
		ParseFunc: func(context.Context, string) ([]domain.SitemapEntry, error) {
			return []domain.SitemapEntry{{Location: "http://example.com/p1"}, {Location: "http://example.com/p2"}}, nil
		},
	}
	pages := &mocks.PageExtractorMock{
		ExtractFunc: func(context.Context, string) (string, error) { return "page", nil },
	}

	newSync := func() (*Synchronizer, *mocks.IndexMock) {
		index := &mocks.IndexMock{
			BatchUpsertFunc: acceptAll,
			BatchDeleteFunc: func(_ context.Context, keys []string) (domain.BatchResult, error) {
				return domain.BatchResult{Succeeded: keys}, nil
			},
		}
		return New(Params{Index: index, Feeds: feeds, Sitemaps: sitemaps, Pages: pages}), index
	}

	t.Run("feed", func(t *testing.T) {
		s, index := newSync()
		res, err := s.SyncSource(context.Background(), Source{Name: "blog", Kind: SourceFeed, URL: "http://example.com/rss"})
		require.NoError(t, err)
		assert.Equal(t, []string{"i1"}, res.Succeeded)
		require.Len(t, index.BatchUpsertCalls(), 1)
		assert.Equal(t, "x", index.BatchUpsertCalls()[0].Docs[0].Content)
	})

	t.Run("feed error", func(t *testing.T) {
		s, index := newSync()
		_, err := s.SyncSource(context.Background(), Source{Kind: SourceFeed})
		require.ErrorIs(t, err, domain.ErrConfiguration)
		assert.Empty(t, index.BatchUpsertCalls(), "nothing submitted from failed source")
	})

	t.Run("sitemap upsert", func(t *testing.T) {
		s, index := newSync()
		before := len(pages.ExtractCalls())
		res, err := s.SyncSource(context.Background(), Source{Kind: SourceSitemap, URL: "http://example.com/sitemap.xml"})
		require.NoError(t, err)
		assert.Len(t, res.Succeeded, 2)
		assert.Len(t, pages.ExtractCalls(), before+2)
		require.Len(t, index.BatchUpsertCalls(), 1)
	})

	t.Run("sitemap delete skips page fetch", func(t *testing.T) {
		s, index := newSync()
		before := len(pages.ExtractCalls())
		res, err := s.SyncSource(context.Background(), Source{Kind: SourceSitemap, URL: "http://example.com/sitemap.xml",
			Mode: domain.ModeDelete})
		require.NoError(t, err)
		assert.Equal(t, []string{HashKey("http://example.com/p1"), HashKey("http://example.com/p2")}, res.Succeeded)
		assert.Len(t, pages.ExtractCalls(), before)
		assert.Len(t, index.BatchDeleteCalls(), 1)
	})

	t.Run("export", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ghost.json")
		data := `{"db":[{"data":{"posts":[
			{"id":1,"uuid":"u1","title":"one","slug":"one","html":"<p>1</p>","status":"published"},
			{"id":2,"uuid":"u2","title":"two","slug":"two","html":"<p>2</p>","status":"draft"}]}}]}`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		s, index := newSync()
		res, err := s.SyncSource(context.Background(), Source{Kind: SourceExport, Path: path, BaseURL: "http://example.net",
			PublishedOnly: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"u1"}, res.Succeeded)
		require.Len(t, index.BatchUpsertCalls(), 1)
		assert.Equal(t, "http://example.net/one", index.BatchUpsertCalls()[0].Docs[0].Link)
	})

	t.Run("export missing path", func(t *testing.T) {
		s, _ := newSync()
		_, err := s.SyncSource(context.Background(), Source{Kind: SourceExport})
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("unknown kind", func(t *testing.T) {
		s, _ := newSync()
		_, err := s.SyncSource(context.Background(), Source{Kind: "atom"})
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("missing parser", func(t *testing.T) {
		_, err := New(Params{Index: &mocks.IndexMock{}}).SyncFeed(context.Background(), "http://example.com/rss", domain.ModeUpsert)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})
}
