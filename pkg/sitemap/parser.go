// Package sitemap parses sitemap documents (sitemaps.org 0.9 with the google image extension)
// into sitemap entries.
package sitemap

import (
	"context"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/go-pkgz/lgr"

	"github.com/umputun/feed2index/pkg/domain"
	"github.com/umputun/feed2index/pkg/fetch"
	"github.com/umputun/feed2index/pkg/xmlquery"
)

// namespace uris
const (
	NamespaceSitemap = "http://www.sitemaps.org/schemas/sitemap/0.9"
	NamespaceImage   = "http://www.google.com/schemas/sitemap-image/1.1"
)

// Fetcher loads remote documents
type Fetcher interface {
	Bytes(ctx context.Context, rawURL, accept string) ([]byte, error)
}

// Parser parses sitemaps. It keeps no per-call state.
type Parser struct {
	fetcher  Fetcher
	resolver *xmlquery.Resolver
}

// NewParser creates a new sitemap parser
func NewParser(fetcher Fetcher) *Parser {
	return &Parser{
		fetcher:  fetcher,
		resolver: xmlquery.NewResolver(map[string]string{"sitemap": NamespaceSitemap, "image": NamespaceImage}),
	}
}

// Parse fetches and parses the sitemap at sitemapURL
func (p *Parser) Parse(ctx context.Context, sitemapURL string) ([]domain.SitemapEntry, error) {
	if sitemapURL == "" {
		return nil, fmt.Errorf("%w: sitemap url must be set", domain.ErrConfiguration)
	}

	data, err := p.fetcher.Bytes(ctx, sitemapURL, fetch.AcceptXML)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap: %w", err)
	}

	entries, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse sitemap %s: %w", sitemapURL, err)
	}
	return entries, nil
}

// ParseBytes parses already loaded sitemap document
func (p *Parser) ParseBytes(data []byte) ([]domain.SitemapEntry, error) {
	doc, err := xmlquery.Parse(data)
	if err != nil {
		return nil, err
	}

	root := doc.Root()
	if root.NamespaceURI() != NamespaceSitemap {
		return nil, fmt.Errorf("%w: root element %q is not in sitemap namespace", domain.ErrMalformedDocument, root.FullTag())
	}
	if root.Tag != "urlset" {
		// sitemap index and other sitemap documents carry no url entries, nested sitemaps are not followed
		lgr.Printf("[WARN] sitemap root is %q, not urlset, no entries", root.Tag)
		return []domain.SitemapEntry{}, nil
	}

	elements := p.resolver.Elements(&doc.Element, "sitemap:urlset/sitemap:url")
	entries := make([]domain.SitemapEntry, 0, len(elements))
	for _, el := range elements {
		entries = append(entries, p.parseEntry(el))
	}
	return entries, nil
}

func (p *Parser) parseEntry(el *etree.Element) domain.SitemapEntry {
	entry := domain.SitemapEntry{
		Location:        strings.TrimSpace(p.resolver.String(el, "sitemap:loc")),
		LastModified:    xmlquery.Date(p.resolver.String(el, "sitemap:lastmod")),
		ChangeFrequency: strings.TrimSpace(p.resolver.String(el, "sitemap:changefreq")),
		Priority:        xmlquery.Decimal(p.resolver.String(el, "sitemap:priority")),
	}

	loc, ok := p.resolver.Lookup(el, "image:image/image:loc")
	if loc = strings.TrimSpace(loc); ok && loc != "" {
		entry.Image = &domain.SitemapImage{
			Location: loc,
			Caption:  strings.TrimSpace(p.resolver.String(el, "image:image/image:caption")),
		}
	}
	return entry
}
