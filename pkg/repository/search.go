package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/umputun/feed2index/pkg/domain"
)

const defaultSearchLimit = 20

// Search runs full-text query over the bound index. Hits are ordered by bm25 rank (title weighted
// higher than content), snippets highlight matched terms with <mark>.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	match := matchExpression(query)
	if match == "" {
		return []domain.SearchHit{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	q := `
		SELECT d.doc_key, d.title, d.link, d.published,
			snippet(documents_fts, 1, '<mark>', '</mark>', '...', 24) AS snippet,
			bm25(documents_fts, 10.0, 1.0, 2.0, 5.0) AS relevance
		FROM documents_fts
		JOIN documents d ON d.id = documents_fts.rowid
		WHERE documents_fts MATCH ? AND d.index_name = ?
		ORDER BY relevance
		LIMIT ?
	`
	var rows []struct {
		Key       string       `db:"doc_key"`
		Title     string       `db:"title"`
		Link      string       `db:"link"`
		Published sql.NullTime `db:"published"`
		Snippet   string       `db:"snippet"`
		Relevance float64      `db:"relevance"`
	}
	if err := r.db.SelectContext(ctx, &rows, q, match, r.index, limit); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	hits := make([]domain.SearchHit, 0, len(rows))
	for _, row := range rows {
		hit := domain.SearchHit{
			Key:     row.Key,
			Title:   row.Title,
			Link:    row.Link,
			Snippet: r.sanitizer.Sanitize(row.Snippet),
			Score:   -row.Relevance, // bm25 gives lower values for better matches
		}
		if row.Published.Valid {
			hit.PublishedAt = row.Published.Time
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// matchExpression converts free text into fts5 query, every term is quoted so user input
// can't use fts5 syntax. Terms are combined with AND, the last one matches as prefix.
func matchExpression(query string) string {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		quoted = append(quoted, `"`+strings.ReplaceAll(t, `"`, `""`)+`"`)
	}
	quoted[len(quoted)-1] += "*"
	return strings.Join(quoted, " ")
}
