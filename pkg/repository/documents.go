package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"

	"github.com/umputun/feed2index/pkg/domain"
)

// document is the db representation of domain.Document
type document struct {
	ID          int64        `db:"id"`
	IndexName   string       `db:"index_name"`
	Key         string       `db:"doc_key"`
	Title       string       `db:"title"`
	Content     string       `db:"content"`
	Description string       `db:"description"`
	Link        string       `db:"link"`
	Categories  categories   `db:"categories"`
	Published   sql.NullTime `db:"published"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

// BatchUpsert merges or inserts docs by key. Every document is applied separately, a failed document
// is reported in the result and the rest of the batch continues.
func (r *Repository) BatchUpsert(ctx context.Context, docs []domain.Document) (domain.BatchResult, error) {
	if err := r.checkIndex(ctx); err != nil {
		return domain.BatchResult{}, err
	}

	query := `
		INSERT INTO documents (index_name, doc_key, title, content, description, link, categories, published)
		VALUES (:index_name, :doc_key, :title, :content, :description, :link, :categories, :published)
		ON CONFLICT(index_name, doc_key) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			description = excluded.description,
			link = excluded.link,
			categories = excluded.categories,
			published = excluded.published,
			updated_at = CURRENT_TIMESTAMP
	`

	var res domain.BatchResult
	for _, d := range docs {
		if d.Key == "" {
			res.AddFailure(d.Key, "document key is empty")
			continue
		}
		row := document{
			IndexName:   r.index,
			Key:         d.Key,
			Title:       d.Title,
			Content:     d.Content,
			Description: d.Description,
			Link:        d.Link,
			Categories:  categories(d.Categories),
			Published:   sql.NullTime{Time: d.PublishedAt.UTC(), Valid: !d.PublishedAt.IsZero()},
		}
		err := r.withRetry(ctx, func() error {
			_, err := r.db.NamedExecContext(ctx, query, row)
			return err
		})
		if ctx.Err() != nil {
			return res, fmt.Errorf("batch upsert interrupted: %w", ctx.Err())
		}
		if err != nil {
			res.AddFailure(d.Key, err.Error())
			continue
		}
		res.AddSuccess(d.Key)
	}
	return res, nil
}

// BatchDelete removes documents by key. Deleting a missing key succeeds.
func (r *Repository) BatchDelete(ctx context.Context, keys []string) (domain.BatchResult, error) {
	if err := r.checkIndex(ctx); err != nil {
		return domain.BatchResult{}, err
	}

	var res domain.BatchResult
	for _, key := range keys {
		if key == "" {
			res.AddFailure(key, "document key is empty")
			continue
		}
		err := r.withRetry(ctx, func() error {
			_, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE index_name = ? AND doc_key = ?", r.index, key)
			return err
		})
		if ctx.Err() != nil {
			return res, fmt.Errorf("batch delete interrupted: %w", ctx.Err())
		}
		if err != nil {
			res.AddFailure(key, err.Error())
			continue
		}
		res.AddSuccess(key)
	}
	return res, nil
}

// Get returns the document with given key from the bound index
func (r *Repository) Get(ctx context.Context, key string) (domain.Document, error) {
	var row document
	err := r.db.GetContext(ctx, &row, "SELECT * FROM documents WHERE index_name = ? AND doc_key = ?", r.index, key)
	if err != nil {
		return domain.Document{}, fmt.Errorf("get document %s: %w", key, err)
	}
	return row.toDomain(), nil
}

// withRetry runs fn retrying sqlite lock errors with backoff, other errors are returned right away
func (r *Repository) withRetry(ctx context.Context, fn func() error) error {
	var critical error
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		err := fn()
		if err != nil && !isLockError(err) {
			critical = err
			return nil // stop retrying
		}
		return err
	})
	if critical != nil {
		return critical
	}
	return err
}

func (d document) toDomain() domain.Document {
	res := domain.Document{
		Key:         d.Key,
		Title:       d.Title,
		Content:     d.Content,
		Description: d.Description,
		Link:        d.Link,
		Categories:  []string(d.Categories),
	}
	if d.Published.Valid {
		res.PublishedAt = d.Published.Time
	}
	return res
}
