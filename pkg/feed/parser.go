package feed

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/mmcdole/gofeed"

	"github.com/umputun/feed2index/pkg/domain"
	"github.com/umputun/feed2index/pkg/fetch"
	"github.com/umputun/feed2index/pkg/xmlquery"
)

// namespaces bound for queries. atom and media are declared so prefixed queries can be written,
// but nothing from them is consumed.
var namespaces = map[string]string{
	"content": "http://purl.org/rss/1.0/modules/content/",
	"atom":    "http://www.w3.org/2005/Atom",
	"media":   "http://search.yahoo.com/mrss/",
}

// Fetcher loads remote documents
type Fetcher interface {
	Bytes(ctx context.Context, rawURL, accept string) ([]byte, error)
}

// Parser parses RSS 2.0 feeds. Atom and RSS 1.0 feeds are accepted too, via gofeed.
// Parser keeps no per-call state, every Parse returns a freshly allocated result.
type Parser struct {
	fetcher  Fetcher
	resolver *xmlquery.Resolver
}

// NewParser creates a new feed parser
func NewParser(fetcher Fetcher) *Parser {
	return &Parser{fetcher: fetcher, resolver: xmlquery.NewResolver(namespaces)}
}

// Parse fetches and parses the feed at feedURL
func (p *Parser) Parse(ctx context.Context, feedURL string) (*domain.Feed, error) {
	if feedURL == "" {
		return nil, fmt.Errorf("%w: feed url must be set", domain.ErrConfiguration)
	}

	data, err := p.fetcher.Bytes(ctx, feedURL, fetch.AcceptXML)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	feed, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}
	return feed, nil
}

// ParseBytes parses already loaded feed document
func (p *Parser) ParseBytes(data []byte) (*domain.Feed, error) {
	switch gofeed.DetectFeedType(bytes.NewReader(data)) {
	case gofeed.FeedTypeRSS, gofeed.FeedTypeAtom:
	default:
		return nil, fmt.Errorf("%w: not an rss or atom feed", domain.ErrMalformedDocument)
	}

	doc, err := xmlquery.Parse(data)
	if err != nil {
		return nil, err
	}

	if root := doc.Root(); root.Space != "" || root.Tag != "rss" {
		return p.parseGeneric(data) // atom, rdf
	}
	return p.parseRSS(doc)
}

func (p *Parser) parseRSS(doc *etree.Document) (*domain.Feed, error) {
	channel := p.resolver.Element(&doc.Element, "rss/channel")
	if channel == nil {
		return nil, fmt.Errorf("%w: missing rss/channel", domain.ErrMalformedDocument)
	}

	result := &domain.Feed{
		Title:       strings.TrimSpace(p.resolver.String(channel, "title")),
		Description: p.resolver.String(channel, "description"),
	}

	elements := p.resolver.Elements(channel, "item")
	result.Items = make([]domain.FeedItem, 0, len(elements))
	for _, el := range elements {
		result.Items = append(result.Items, p.parseItem(el))
	}
	return result, nil
}

// parseItem resolves item fields, missing elements give domain.Unresolvable and missing or bad
// dates give zero time
func (p *Parser) parseItem(el *etree.Element) domain.FeedItem {
	item := domain.FeedItem{
		ID:          strings.TrimSpace(p.resolver.String(el, "guid")),
		Title:       strings.TrimSpace(p.resolver.String(el, "title")),
		Description: p.resolver.String(el, "description"),
		Link:        strings.TrimSpace(p.resolver.String(el, "link")),
		Content:     p.resolver.String(el, "content:encoded"),
		PublishedAt: xmlquery.Date(p.resolver.String(el, "pubDate")),
	}

	for _, cat := range p.resolver.Elements(el, "category") {
		if v := strings.TrimSpace(xmlquery.InnerText(cat)); v != "" {
			item.Categories = append(item.Categories, v)
		}
	}
	return item
}

// parseGeneric handles non-rss2 feeds with gofeed. Empty fields are treated as missing.
func (p *Parser) parseGeneric(data []byte) (*domain.Feed, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedDocument, err)
	}

	result := &domain.Feed{
		Title:       orUnresolvable(parsed.Title),
		Description: orUnresolvable(parsed.Description),
		Items:       make([]domain.FeedItem, 0, len(parsed.Items)),
	}

	for _, it := range parsed.Items {
		item := domain.FeedItem{
			ID:          orUnresolvable(it.GUID),
			Title:       orUnresolvable(it.Title),
			Description: orUnresolvable(it.Description),
			Link:        orUnresolvable(it.Link),
			Content:     orUnresolvable(it.Content),
			Categories:  it.Categories,
		}
		if it.PublishedParsed != nil {
			item.PublishedAt = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			item.PublishedAt = *it.UpdatedParsed
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}

func orUnresolvable(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return domain.Unresolvable
	}
	return s
}
