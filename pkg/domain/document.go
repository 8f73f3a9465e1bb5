package domain

import (
	"fmt"
	"strings"
	"time"
)

// Document is the unit submitted to the search index.
// Key is the upsert/delete correlation key and must be stable across runs.
type Document struct {
	Key         string
	Title       string
	Content     string
	Description string
	Link        string
	Categories  []string
	PublishedAt time.Time
}

// BatchResult reports per-document outcome of a batch submission.
// Keys are kept in submission order, each key is either in Succeeded or in Failed.
type BatchResult struct {
	Succeeded []string
	Failed    []string
	Errors    map[string]string // failed key -> reason, may be missing for some keys
}

// AddSuccess records a succeeded key
func (r *BatchResult) AddSuccess(key string) {
	r.Succeeded = append(r.Succeeded, key)
}

// AddFailure records a failed key with optional reason
func (r *BatchResult) AddFailure(key, reason string) {
	r.Failed = append(r.Failed, key)
	if reason == "" {
		return
	}
	if r.Errors == nil {
		r.Errors = make(map[string]string)
	}
	r.Errors[key] = reason
}

// HasFailures reports whether any document failed
func (r BatchResult) HasFailures() bool {
	return len(r.Failed) > 0
}

// Merge appends other result to r
func (r *BatchResult) Merge(other BatchResult) {
	r.Succeeded = append(r.Succeeded, other.Succeeded...)
	for _, key := range other.Failed {
		r.AddFailure(key, other.Errors[key])
	}
}

// String returns short summary suitable for logging
func (r BatchResult) String() string {
	if !r.HasFailures() {
		return fmt.Sprintf("%d succeeded", len(r.Succeeded))
	}
	return fmt.Sprintf("%d succeeded, %d failed [%s]", len(r.Succeeded), len(r.Failed), strings.Join(r.Failed, ", "))
}

// Mode defines how a batch is applied to the index
type Mode int

const (
	ModeUpsert Mode = iota // merge-or-insert by key
	ModeDelete             // remove by key
)

// String returns mode name
func (m Mode) String() string {
	switch m {
	case ModeUpsert:
		return "upsert"
	case ModeDelete:
		return "delete"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts mode name to Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "upsert", "":
		return ModeUpsert, nil
	case "delete":
		return ModeDelete, nil
	default:
		return ModeUpsert, fmt.Errorf("%w: unknown mode %q", ErrConfiguration, s)
	}
}

// SearchHit is a single result of the local index search
type SearchHit struct {
	Key         string    `json:"key"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Snippet     string    `json:"snippet"`
	Score       float64   `json:"score"`
	PublishedAt time.Time `json:"published_at"`
}
