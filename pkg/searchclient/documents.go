package searchclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/umputun/feed2index/pkg/domain"
)

// index actions
const (
	actionMergeOrUpload = "mergeOrUpload"
	actionDelete        = "delete"
)

// indexAction is a single document of an indexing batch
type indexAction struct {
	Action      string     `json:"@search.action"`
	GUID        string     `json:"guid"`
	Title       *string    `json:"title,omitempty"`
	Content     *string    `json:"content,omitempty"`
	Description *string    `json:"description,omitempty"`
	Link        *string    `json:"link,omitempty"`
	Category    []string   `json:"category,omitempty"`
	PubDate     *time.Time `json:"pubDate,omitempty"`
}

type indexBatch struct {
	Value []indexAction `json:"value"`
}

// indexResult is per-document result returned by the service
type indexResult struct {
	Key          string `json:"key"`
	Status       bool   `json:"status"`
	ErrorMessage string `json:"errorMessage"`
	StatusCode   int    `json:"statusCode"`
}

// indexDefinition is the wire form of domain.IndexSchema
type indexDefinition struct {
	Name   string            `json:"name"`
	Fields []fieldDefinition `json:"fields"`
}

type fieldDefinition struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Key         bool   `json:"key"`
	Searchable  bool   `json:"searchable"`
	Filterable  bool   `json:"filterable"`
	Retrievable bool   `json:"retrievable"`
	Sortable    bool   `json:"sortable"`
	Facetable   bool   `json:"facetable"`
}

// BatchUpsert merges or uploads docs in one indexing request
func (c *Client) BatchUpsert(ctx context.Context, docs []domain.Document) (domain.BatchResult, error) {
	batch := indexBatch{Value: make([]indexAction, 0, len(docs))}
	for _, d := range docs {
		batch.Value = append(batch.Value, toAction(d))
	}
	return c.submit(ctx, batch)
}

// BatchDelete deletes documents by key in one indexing request
func (c *Client) BatchDelete(ctx context.Context, keys []string) (domain.BatchResult, error) {
	batch := indexBatch{Value: make([]indexAction, 0, len(keys))}
	for _, k := range keys {
		batch.Value = append(batch.Value, indexAction{Action: actionDelete, GUID: k})
	}
	return c.submit(ctx, batch)
}

// submit posts the batch. 200 means all documents succeeded, 207 means some failed,
// both carry per-document results.
func (c *Client) submit(ctx context.Context, batch indexBatch) (domain.BatchResult, error) {
	path := "/indexes/" + url.PathEscape(c.index) + "/docs/index"
	resp, err := c.do(ctx, http.MethodPost, path, batch)
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("index batch: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusMultiStatus:
	case http.StatusNotFound:
		return domain.BatchResult{}, fmt.Errorf("%w: %s", domain.ErrIndexNotFound, c.index)
	default:
		return domain.BatchResult{}, fmt.Errorf("index batch: %w", statusError(resp))
	}

	var body struct {
		Value []indexResult `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.BatchResult{}, fmt.Errorf("%w: decode index response: %w", domain.ErrMalformedDocument, err)
	}

	var res domain.BatchResult
	for _, r := range body.Value {
		if r.Status {
			res.AddSuccess(r.Key)
			continue
		}
		reason := r.ErrorMessage
		if reason == "" {
			reason = fmt.Sprintf("status code %d", r.StatusCode)
		}
		res.AddFailure(r.Key, reason)
	}
	return res, nil
}

func toAction(d domain.Document) indexAction {
	action := indexAction{
		Action:      actionMergeOrUpload,
		GUID:        d.Key,
		Title:       &d.Title,
		Content:     &d.Content,
		Description: &d.Description,
		Link:        &d.Link,
		Category:    d.Categories,
	}
	if !d.PublishedAt.IsZero() {
		ts := d.PublishedAt.UTC()
		action.PubDate = &ts
	}
	return action
}

func toIndexDefinition(schema domain.IndexSchema) indexDefinition {
	def := indexDefinition{Name: schema.Name, Fields: make([]fieldDefinition, 0, len(schema.Fields))}
	for _, f := range schema.Fields {
		def.Fields = append(def.Fields, fieldDefinition{
			Name:        f.Name,
			Type:        string(f.Type),
			Key:         f.Key,
			Searchable:  f.Searchable,
			Filterable:  f.Filterable,
			Retrievable: f.Retrievable,
			Sortable:    f.Sortable,
			Facetable:   f.Facetable,
		})
	}
	return def
}
