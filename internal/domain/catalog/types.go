// Package catalog aggregates track metadata from a remote video catalog:
// pagination, TTL caching, deduplication, normalization, and degradation to
// a fixed mock list when the remote source is fully unavailable.
package catalog

import (
	"context"
	"errors"
	"time"
)

// ErrSyncInProgress is returned by GetAllContent when an aggregation pass is
// already running; the call is a no-op, never a duplicate fetch.
var ErrSyncInProgress = errors.New("aggregation already in progress")

// Item is a raw catalog entry before normalization. ExternalID is the stable
// identity used for deduplication and must never be rewritten downstream.
type Item struct {
	ExternalID   string
	Title        string
	Description  string
	ThumbnailURL string
	PublishedAt  time.Time
	SourceLabel  string
	Position     int
}

// Page is one page of a paginated collection listing. An empty
// NextPageToken means the collection is exhausted.
type Page struct {
	Items         []Item
	NextPageToken string
}

// ChannelInfo describes the channel behind the catalog, when one is
// configured.
type ChannelInfo struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Thumbnail       string `json:"thumbnail"`
	SubscriberCount string `json:"subscriberCount"`
	VideoCount      string `json:"videoCount"`
	ViewCount       string `json:"viewCount"`
}

// VideoDetail carries per-entity detail and statistics used to enrich
// normalized tracks.
type VideoDetail struct {
	ExternalID string
	Duration   time.Duration
	ViewCount  int
}

// Source is the abstract fetch capability the aggregator depends on. All
// methods may fail with transport, API, or decode errors; the aggregator
// absorbs them at the page boundary.
type Source interface {
	// ListCollectionPage lists one page of a named collection. pageSize is a
	// hint; the remote service enforces its own per-call maximum.
	ListCollectionPage(ctx context.Context, collectionID, pageToken string, pageSize int) (Page, error)

	// SearchChannelVideos lists the most recent uploads of a channel.
	SearchChannelVideos(ctx context.Context, channelID string, maxResults int) ([]Item, error)

	// GetChannelInfo fetches channel snippet and statistics.
	GetChannelInfo(ctx context.Context, channelID string) (*ChannelInfo, error)

	// ListVideoDetails fetches detail and statistics for up to 50 entities
	// per call.
	ListVideoDetails(ctx context.Context, ids []string) ([]VideoDetail, error)
}

// CacheStats reports the aggregator cache contents.
type CacheStats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}
