// Package indexer maps feed items, sitemap entries and exported posts to search documents and
// submits them to a search index in a single batch per source.
package indexer

import (
	"context"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/go-pkgz/lgr"

	"github.com/umputun/feed2index/pkg/content"
	"github.com/umputun/feed2index/pkg/domain"
)

//go:generate moq -out mocks/index.go -pkg mocks -skip-ensure -fmt goimports . Index
//go:generate moq -out mocks/page_extractor.go -pkg mocks -skip-ensure -fmt goimports . PageExtractor
//go:generate moq -out mocks/feed_parser.go -pkg mocks -skip-ensure -fmt goimports . FeedParser
//go:generate moq -out mocks/sitemap_parser.go -pkg mocks -skip-ensure -fmt goimports . SitemapParser

// Index is a search index accepting document batches. Batch calls may fail partially,
// per-document failures are reported in the result, not as error.
type Index interface {
	BatchUpsert(ctx context.Context, docs []domain.Document) (domain.BatchResult, error)
	BatchDelete(ctx context.Context, keys []string) (domain.BatchResult, error)
}

// PageExtractor fetches a page and returns the plain text of its content region
type PageExtractor interface {
	Extract(ctx context.Context, pageURL string) (string, error)
}

// FeedParser parses a remote feed
type FeedParser interface {
	Parse(ctx context.Context, feedURL string) (*domain.Feed, error)
}

// SitemapParser parses a remote sitemap
type SitemapParser interface {
	Parse(ctx context.Context, sitemapURL string) ([]domain.SitemapEntry, error)
}

// Synchronizer builds documents from sources and submits them to the index
type Synchronizer struct {
	index    Index
	pages    PageExtractor
	feeds    FeedParser
	sitemaps SitemapParser
}

// Params defines synchronizer dependencies. Pages, Feeds and Sitemaps are needed only
// for the matching source kinds.
type Params struct {
	Index    Index
	Pages    PageExtractor
	Feeds    FeedParser
	Sitemaps SitemapParser
}

// New creates a new synchronizer
func New(p Params) *Synchronizer {
	return &Synchronizer{index: p.Index, pages: p.Pages, feeds: p.Feeds, sitemaps: p.Sitemaps}
}

// Synchronize submits docs to the index as one batch. Upsert sends documents, delete sends their keys.
// Partial failures are returned in the result with nil error, error means the whole call failed.
func (s *Synchronizer) Synchronize(ctx context.Context, docs []domain.Document, mode domain.Mode) (domain.BatchResult, error) {
	if mode != domain.ModeUpsert && mode != domain.ModeDelete {
		return domain.BatchResult{}, fmt.Errorf("%w: unsupported mode %s", domain.ErrConfiguration, mode)
	}
	if len(docs) == 0 {
		lgr.Printf("[DEBUG] nothing to %s", mode)
		return domain.BatchResult{}, nil
	}

	var res domain.BatchResult
	var err error
	switch mode {
	case domain.ModeUpsert:
		res, err = s.index.BatchUpsert(ctx, docs)
	case domain.ModeDelete:
		keys := make([]string, len(docs))
		for i, d := range docs {
			keys[i] = d.Key
		}
		res, err = s.index.BatchDelete(ctx, keys)
	}
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("batch %s of %d documents: %w", mode, len(docs), err)
	}

	if res.HasFailures() {
		lgr.Printf("[WARN] failed to %s some of the documents: %s", mode, strings.Join(res.Failed, ", "))
		for _, key := range res.Failed {
			if reason, ok := res.Errors[key]; ok {
				lgr.Printf("[DEBUG] document %s: %s", key, reason)
			}
		}
	}
	lgr.Printf("[INFO] batch %s: %s", mode, res)
	return res, nil
}

// FeedDocuments maps feed items to documents, content html is converted to plain text.
// Items without guid get a key derived from the link, items with neither are skipped.
func FeedDocuments(items []domain.FeedItem) []domain.Document {
	docs := make([]domain.Document, 0, len(items))
	for _, item := range items {
		key := item.ID
		if !domain.IsResolved(key) {
			if !domain.IsResolved(item.Link) {
				lgr.Printf("[WARN] skip feed item %q without guid and link", item.Title)
				continue
			}
			key = HashKey(item.Link)
		}

		docs = append(docs, domain.Document{
			Key:         key,
			Title:       item.Title,
			Content:     htmlText(item.Content, key),
			Description: item.Description,
			Link:        item.Link,
			Categories:  item.Categories,
			PublishedAt: item.PublishedAt,
		})
	}
	return docs
}

// SitemapDocuments maps sitemap entries to documents. Page content is fetched and extracted for every
// entry in order, one page at a time. A page failure aborts the whole sitemap and no documents are returned.
func (s *Synchronizer) SitemapDocuments(ctx context.Context, entries []domain.SitemapEntry) ([]domain.Document, error) {
	if s.pages == nil {
		return nil, fmt.Errorf("%w: page extractor is not set", domain.ErrConfiguration)
	}

	docs := make([]domain.Document, 0, len(entries))
	for _, entry := range entries {
		if !domain.IsResolved(entry.Location) {
			lgr.Printf("[WARN] skip sitemap entry without location")
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("sitemap documents: %w", err)
		}

		text, err := s.pages.Extract(ctx, entry.Location)
		if err != nil {
			return nil, fmt.Errorf("extract page %s: %w", entry.Location, err)
		}
		lgr.Printf("[DEBUG] extracted %d chars from %s", len(text), entry.Location)

		docs = append(docs, domain.Document{
			Key:         HashKey(entry.Location),
			Content:     text,
			Link:        entry.Location,
			PublishedAt: entry.LastModified,
		})
	}
	return docs, nil
}

// ExportDocuments maps exported posts to documents, link is baseURL joined with the post slug
func ExportDocuments(posts []domain.Post, baseURL string) []domain.Document {
	base := strings.TrimRight(baseURL, "/")
	docs := make([]domain.Document, 0, len(posts))
	for _, post := range posts {
		if post.UUID == "" {
			lgr.Printf("[WARN] skip post %q without uuid", post.Title)
			continue
		}
		docs = append(docs, domain.Document{
			Key:         post.UUID,
			Title:       post.Title,
			Content:     htmlText(post.HTML, post.UUID),
			Link:        base + "/" + post.Slug,
			Categories:  post.Tags,
			PublishedAt: post.PublishedAt,
		})
	}
	return docs
}

// HashKey returns stable 16 hex chars key for s
func HashKey(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}

func htmlText(h, key string) string {
	text, err := content.TextFromHTML(h)
	if err != nil {
		lgr.Printf("[WARN] can't extract text for %s: %v", key, err)
		return ""
	}
	return text
}
