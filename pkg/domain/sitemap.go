package domain

import "time"

// SitemapEntry represents a single <url> element of a sitemap
type SitemapEntry struct {
	Location        string
	LastModified    time.Time
	ChangeFrequency string
	Priority        float64
	Image           *SitemapImage // nil when the entry has no image:loc
}

// SitemapImage is the optional image attached to a sitemap entry
type SitemapImage struct {
	Location string
	Caption  string
}
