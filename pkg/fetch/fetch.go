// Package fetch retrieves source documents over HTTP. Every call is a blocking, single-shot GET,
// no retries and no caching. Failures are mapped to domain errors so callers can tell
// configuration problems from transport problems.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/umputun/feed2index/pkg/domain"
)

// Accept header values for different kinds of documents
const (
	AcceptXML  = "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8,*/*;q=0.5"
	AcceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Config defines http client parameters
type Config struct {
	Timeout   time.Duration
	UserAgent string
	MaxSize   int64 // max body size in bytes, 0 means default
}

// Client fetches remote documents
type Client struct {
	client    *http.Client
	userAgent string
	maxSize   int64
}

const defaultMaxSize = 32 * 1024 * 1024

// New creates a new fetch client
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "feed2index/1.0"
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = defaultMaxSize
	}
	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: cfg.UserAgent,
		maxSize:   cfg.MaxSize,
	}
}

// Get fetches the document at rawURL. The caller owns the returned body and must close it.
func (c *Client) Get(ctx context.Context, rawURL, accept string) (io.ReadCloser, error) {
	if err := Validate(rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrConfiguration, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	addBrowserHeaders(req, accept)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", domain.ErrSourceUnavailable, rawURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: unexpected status code %d for %s", domain.ErrSourceUnavailable, resp.StatusCode, rawURL)
	}

	return resp.Body, nil
}

// Bytes fetches the document at rawURL and reads it fully into memory
func (c *Client) Bytes(ctx context.Context, rawURL, accept string) ([]byte, error) {
	body, err := c.Get(ctx, rawURL, accept)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, c.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrSourceUnavailable, rawURL, err)
	}
	if int64(len(data)) > c.maxSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrSourceUnavailable, rawURL, c.maxSize)
	}
	return data, nil
}

// Validate checks the url is set and absolute
func Validate(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: url must be set", domain.ErrConfiguration)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: parse url %q: %w", domain.ErrConfiguration, rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: invalid url %q", domain.ErrConfiguration, rawURL)
	}
	return nil
}
