package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/umputun/feed2index/pkg/domain"
)

// Exists checks if the index with given name exists
func (r *Repository) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM indexes WHERE name = ?)", name); err != nil {
		return false, fmt.Errorf("check index exists: %w", err)
	}
	return exists, nil
}

// Create registers the index described by schema. Creating an existing index updates its field list.
func (r *Repository) Create(ctx context.Context, schema domain.IndexSchema) error {
	if schema.Name == "" {
		return fmt.Errorf("%w: index name must be set", domain.ErrConfiguration)
	}
	fields, err := json.Marshal(schema.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}

	query := `INSERT INTO indexes (name, fields) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET fields = excluded.fields`
	if _, err := r.db.ExecContext(ctx, query, schema.Name, string(fields)); err != nil {
		return fmt.Errorf("create index %s: %w", schema.Name, err)
	}
	return nil
}

// Delete removes the index and all its documents. Deleting missing index is not an error.
func (r *Repository) Delete(ctx context.Context, name string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE index_name = ?", name); err != nil {
		return fmt.Errorf("delete documents of %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM indexes WHERE name = ?", name); err != nil {
		return fmt.Errorf("delete index %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Count returns number of documents in the bound index
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM documents WHERE index_name = ?", r.index); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}

// checkIndex returns domain.ErrIndexNotFound if the bound index doesn't exist
func (r *Repository) checkIndex(ctx context.Context) error {
	exists, err := r.Exists(ctx, r.index)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrIndexNotFound, r.index)
	}
	return nil
}
