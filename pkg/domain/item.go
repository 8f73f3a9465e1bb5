package domain

import "time"

// Unresolvable is the value a string field takes when the source element is missing.
// Downstream consumers compare against it verbatim, keep it unchanged.
const Unresolvable = "Unresolvable"

// FeedItem represents a single <item> of an RSS feed
type FeedItem struct {
	ID          string
	Title       string
	Description string
	Link        string
	Content     string // html from content:encoded
	PublishedAt time.Time
	Categories  []string
}

// Post represents a post record from the local content export
type Post struct {
	UUID        string
	Title       string
	HTML        string
	Slug        string
	Status      string // published, draft etc.
	PublishedAt time.Time
	Tags        []string
}

// IsResolved reports whether the value came from the source document
func IsResolved(v string) bool {
	return v != "" && v != Unresolvable
}
