// Package imagestore is a persistent metadata store for cached event images.
// It owns the metadata map and the on-disk image bytes exclusively; all
// access goes through the Store API.
package imagestore

import (
	"time"
)

// CacheTTL is how long a cached image stays valid. Fixed, not configurable.
const CacheTTL = 7 * 24 * time.Hour

// ImageRecord is the metadata for one cached image.
type ImageRecord struct {
	ID                  string    `json:"id"`
	SourceID            string    `json:"source_id,omitempty"`
	FullURL             string    `json:"full_url"`
	ThumbnailURL        string    `json:"thumbnail_url"`
	Author              string    `json:"author"`
	AuthorURL           string    `json:"author_url,omitempty"`
	DownloadTrackingURL string    `json:"download_tracking_url"`
	CachedAt            time.Time `json:"cached_at"`
	Tags                []string  `json:"tags"`
	LocationQuery       string    `json:"location_query,omitempty"`
	TitleQuery          string    `json:"title_query,omitempty"`
}

// IsExpired reports whether the record has outlived the cache TTL.
func (r *ImageRecord) IsExpired() bool {
	return time.Since(r.CachedAt) > CacheTTL
}
