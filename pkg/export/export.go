// Package export reads posts from a local Ghost blog export (json).
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/umputun/feed2index/pkg/domain"
)

// ghost export layout, only fields used for indexing are declared
type ghostExport struct {
	DB []struct {
		Data struct {
			Posts     []ghostPost    `json:"posts"`
			Tags      []ghostTag     `json:"tags"`
			PostsTags []ghostPostTag `json:"posts_tags"`
		} `json:"data"`
	} `json:"db"`
}

type ghostPost struct {
	ID          json.RawMessage `json:"id"` // numeric in old exports, string in new ones
	UUID        string          `json:"uuid"`
	Title       string          `json:"title"`
	HTML        string          `json:"html"`
	Slug        string          `json:"slug"`
	Status      string          `json:"status"`
	PublishedAt *string         `json:"published_at"`
}

type ghostTag struct {
	ID   json.RawMessage `json:"id"`
	Name string          `json:"name"`
}

type ghostPostTag struct {
	PostID json.RawMessage `json:"post_id"`
	TagID  json.RawMessage `json:"tag_id"`
}

// Load reads all posts from the export file at path
func Load(path string) ([]domain.Post, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: export path must be set", domain.ErrConfiguration)
	}

	fh, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("%w: open export: %w", domain.ErrSourceUnavailable, err)
	}
	defer fh.Close()

	posts, err := Read(fh)
	if err != nil {
		return nil, fmt.Errorf("read export %s: %w", path, err)
	}
	return posts, nil
}

// Read decodes posts from the export document in r, posts are returned in export order
func Read(r io.Reader) ([]domain.Post, error) {
	var exp ghostExport
	if err := json.NewDecoder(r).Decode(&exp); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: decode json: %w", domain.ErrMalformedDocument, err)
		}
		return nil, fmt.Errorf("%w: read json: %w", domain.ErrSourceUnavailable, err)
	}
	if len(exp.DB) == 0 {
		return nil, fmt.Errorf("%w: missing db section", domain.ErrMalformedDocument)
	}

	data := exp.DB[0].Data
	tagNames := make(map[string]string, len(data.Tags))
	for _, t := range data.Tags {
		tagNames[rawID(t.ID)] = t.Name
	}
	postTags := make(map[string][]string)
	for _, pt := range data.PostsTags {
		name, ok := tagNames[rawID(pt.TagID)]
		if !ok || name == "" {
			continue
		}
		postID := rawID(pt.PostID)
		postTags[postID] = append(postTags[postID], name)
	}

	posts := make([]domain.Post, 0, len(data.Posts))
	for _, p := range data.Posts {
		post := domain.Post{
			UUID:   p.UUID,
			Title:  p.Title,
			HTML:   p.HTML,
			Slug:   p.Slug,
			Status: p.Status,
			Tags:   postTags[rawID(p.ID)],
		}
		if p.PublishedAt != nil {
			if ts, err := dateparse.ParseAny(*p.PublishedAt); err == nil {
				post.PublishedAt = ts
			}
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// Published returns only posts with published status, order kept
func Published(posts []domain.Post) []domain.Post {
	res := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if strings.EqualFold(p.Status, "published") {
			res = append(res, p)
		}
	}
	return res
}

// rawID normalizes json id (number or string) to a string
func rawID(id json.RawMessage) string {
	return strings.Trim(strings.TrimSpace(string(id)), `"`)
}
