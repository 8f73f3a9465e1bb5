package indexer

import (
	"context"
	"fmt"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feed2index/pkg/domain"
	"github.com/umputun/feed2index/pkg/export"
)

// SourceKind defines type of a source
type SourceKind string

// supported source kinds
const (
	SourceFeed    SourceKind = "feed"
	SourceSitemap SourceKind = "sitemap"
	SourceExport  SourceKind = "export"
)

// Source describes a single source to synchronize
type Source struct {
	Name          string
	Kind          SourceKind
	URL           string // feed or sitemap url
	Path          string // export file
	BaseURL       string // export links prefix
	PublishedOnly bool   // export: skip drafts
	Mode          domain.Mode
}

// SyncSource parses the source, maps it to documents and submits them in the source mode
func (s *Synchronizer) SyncSource(ctx context.Context, src Source) (domain.BatchResult, error) {
	lgr.Printf("[INFO] synchronizing %s source %q, mode %s", src.Kind, src.Name, src.Mode)
	switch src.Kind {
	case SourceFeed:
		return s.SyncFeed(ctx, src.URL, src.Mode)
	case SourceSitemap:
		return s.SyncSitemap(ctx, src.URL, src.Mode)
	case SourceExport:
		return s.SyncExport(ctx, src.Path, src.BaseURL, src.PublishedOnly, src.Mode)
	default:
		return domain.BatchResult{}, fmt.Errorf("%w: unknown source kind %q", domain.ErrConfiguration, src.Kind)
	}
}

// SyncFeed parses the feed at feedURL and submits its items
func (s *Synchronizer) SyncFeed(ctx context.Context, feedURL string, mode domain.Mode) (domain.BatchResult, error) {
	if s.feeds == nil {
		return domain.BatchResult{}, fmt.Errorf("%w: feed parser is not set", domain.ErrConfiguration)
	}
	feed, err := s.feeds.Parse(ctx, feedURL)
	if err != nil {
		return domain.BatchResult{}, err
	}
	lgr.Printf("[DEBUG] feed %q has %d items", feed.Title, len(feed.Items))
	return s.Synchronize(ctx, FeedDocuments(feed.Items), mode)
}

// SyncSitemap parses the sitemap at sitemapURL, extracts all its pages and submits them
func (s *Synchronizer) SyncSitemap(ctx context.Context, sitemapURL string, mode domain.Mode) (domain.BatchResult, error) {
	if s.sitemaps == nil {
		return domain.BatchResult{}, fmt.Errorf("%w: sitemap parser is not set", domain.ErrConfiguration)
	}
	entries, err := s.sitemaps.Parse(ctx, sitemapURL)
	if err != nil {
		return domain.BatchResult{}, err
	}
	lgr.Printf("[DEBUG] sitemap %s has %d entries", sitemapURL, len(entries))

	var docs []domain.Document
	if mode == domain.ModeDelete {
		docs = sitemapKeys(entries) // deleting needs keys only, pages are not fetched
	} else if docs, err = s.SitemapDocuments(ctx, entries); err != nil {
		return domain.BatchResult{}, err
	}
	return s.Synchronize(ctx, docs, mode)
}

// SyncExport loads posts from the export file and submits them
func (s *Synchronizer) SyncExport(ctx context.Context, path, baseURL string, publishedOnly bool, mode domain.Mode) (domain.BatchResult, error) {
	posts, err := export.Load(path)
	if err != nil {
		return domain.BatchResult{}, err
	}
	if publishedOnly {
		total := len(posts)
		posts = export.Published(posts)
		lgr.Printf("[DEBUG] %d of %d exported posts published", len(posts), total)
	}
	return s.Synchronize(ctx, ExportDocuments(posts, baseURL), mode)
}

func sitemapKeys(entries []domain.SitemapEntry) []domain.Document {
	docs := make([]domain.Document, 0, len(entries))
	for _, e := range entries {
		if domain.IsResolved(e.Location) {
			docs = append(docs, domain.Document{Key: HashKey(e.Location), Link: e.Location})
		}
	}
	return docs
}
