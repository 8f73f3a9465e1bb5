package content

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-pkgz/lgr"
	"github.com/markusmobius/go-trafilatura"

	"github.com/umputun/feed2index/pkg/fetch"
)

// Fetcher loads a remote page
type Fetcher interface {
	Bytes(ctx context.Context, rawURL, accept string) ([]byte, error)
}

// HTTPExtractor fetches pages and extracts text of their designated content region
type HTTPExtractor struct {
	fetcher     Fetcher
	regionID    string
	readability bool
}

// ExtractorConfig defines page extraction parameters
type ExtractorConfig struct {
	RegionID    string // id of the element holding page content, e.g. "page-content"
	Readability bool   // use trafilatura when the region is missing
}

// NewHTTPExtractor creates a new page extractor
func NewHTTPExtractor(fetcher Fetcher, cfg ExtractorConfig) *HTTPExtractor {
	return &HTTPExtractor{fetcher: fetcher, regionID: cfg.RegionID, readability: cfg.Readability}
}

// Extract fetches the page at urlStr and returns its plain text
func (e *HTTPExtractor) Extract(ctx context.Context, urlStr string) (string, error) {
	body, err := e.fetcher.Bytes(ctx, urlStr, fetch.AcceptHTML)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	return e.ExtractBytes(body, urlStr)
}

// ExtractBytes extracts plain text from already loaded page body
func (e *HTTPExtractor) ExtractBytes(body []byte, urlStr string) (string, error) {
	root, err := ParseHTML(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse page %s: %w", urlStr, err)
	}
	doc := goquery.NewDocumentFromNode(root)

	if region := e.findRegion(doc); region != nil && region.Length() > 0 {
		return ExtractText(region.Nodes[0]), nil
	}

	if e.readability {
		if text, ok := e.readable(body, urlStr); ok {
			return text, nil
		}
	}

	lgr.Printf("[DEBUG] no content region %q in %s, using whole page", e.regionID, urlStr)
	if len(doc.Nodes) == 0 {
		return "", nil
	}
	return ExtractText(doc.Nodes[0]), nil
}

func (e *HTTPExtractor) findRegion(doc *goquery.Document) *goquery.Selection {
	if e.regionID == "" {
		return nil
	}
	return doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		return id == e.regionID
	}).First()
}

// readable extracts main content with trafilatura
func (e *HTTPExtractor) readable(body []byte, urlStr string) (string, bool) {
	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		ExcludeTables:   false,
		IncludeImages:   false,
		IncludeLinks:    false,
		Deduplicate:     true,
	}
	if parsedURL, err := url.Parse(urlStr); err == nil {
		opts.OriginalURL = parsedURL
	}

	result, err := trafilatura.Extract(bytes.NewReader(body), opts)
	if err != nil || result == nil {
		lgr.Printf("[DEBUG] readability extraction failed for %s: %v", urlStr, err)
		return "", false
	}
	text := CollapseWhitespace(result.ContentText)
	return text, text != ""
}
