// Package searchclient is a client of a hosted search index service speaking the Azure Cognitive
// Search REST protocol (api-key header, api-version parameter, indexing batches with per-document
// results).
package searchclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/feed2index/pkg/domain"
)

// DefaultAPIVersion is used when Config.APIVersion is empty
const DefaultAPIVersion = "2023-11-01"

// Config defines search service connection parameters
type Config struct {
	Endpoint   string // e.g. https://myservice.search.windows.net
	APIKey     string
	APIVersion string
	Index      string // name of the index batches are applied to
	Timeout    time.Duration
}

// Client talks to the hosted search service. Batch methods apply to the index set in Config.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	apiVersion string
	index      string
}

// New makes search service client
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: search endpoint must be set", domain.ErrConfiguration)
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid search endpoint %q", domain.ErrConfiguration, cfg.Endpoint)
	}
	if cfg.Index == "" {
		return nil, fmt.Errorf("%w: index name must be set", domain.ErrConfiguration)
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		apiVersion: cfg.APIVersion,
		index:      cfg.Index,
	}, nil
}

// Name returns the name of the index batches are applied to
func (c *Client) Name() string {
	return c.index
}

// Exists checks if the index exists
func (c *Client) Exists(ctx context.Context, name string) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, "/indexes/"+url.PathEscape(name), nil)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", name, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("check index %s: %w", name, statusError(resp))
	}
}

// Create creates the index described by schema
func (c *Client) Create(ctx context.Context, schema domain.IndexSchema) error {
	if schema.Name == "" {
		return fmt.Errorf("%w: index name must be set", domain.ErrConfiguration)
	}
	resp, err := c.do(ctx, http.MethodPost, "/indexes", toIndexDefinition(schema))
	if err != nil {
		return fmt.Errorf("create index %s: %w", schema.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("create index %s: %w", schema.Name, statusError(resp))
	}
	return nil
}

// Delete removes the index, missing index is not an error
func (c *Client) Delete(ctx context.Context, name string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/indexes/"+url.PathEscape(name), nil)
	if err != nil {
		return fmt.Errorf("delete index %s: %w", name, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("delete index %s: %w", name, statusError(resp))
	}
}

// do sends json request to the service. Caller closes the response body.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	reqURL := c.endpoint + path + "?api-version=" + url.QueryEscape(c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrConfiguration, err)
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	lgr.Printf("[DEBUG] %s %s", method, c.endpoint+path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrSourceUnavailable, method, path, err)
	}
	return resp, nil
}

// statusError makes error for unexpected response, service error message included if present
func statusError(resp *http.Response) error {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if json.Unmarshal(data, &errResp) == nil && errResp.Error.Message != "" {
		return fmt.Errorf("%w: unexpected status code %d: %s", domain.ErrSourceUnavailable, resp.StatusCode, errResp.Error.Message)
	}
	return fmt.Errorf("%w: unexpected status code %d", domain.ErrSourceUnavailable, resp.StatusCode)
}
