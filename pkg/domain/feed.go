package domain

// Feed represents a parsed feed with channel metadata and items in document order
type Feed struct {
	Title       string
	Description string
	Items       []FeedItem
}
