// Package tracks holds the normalized track model and the track store that
// backs the showcase UI.
package tracks

import "time"

// Origin tags where a track came from.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
)

// Track is the normalized, UI-facing record. For remote tracks ID always
// equals the catalog's external ID; downstream pages key off it, so it is
// never rewritten after normalization.
type Track struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	Duration    string    `json:"duration"`
	Thumbnail   string    `json:"thumbnail"`
	ExternalRef string    `json:"youtubeId"`
	Rating      float64   `json:"rating"`
	Plays       int       `json:"plays"`
	PublishedAt time.Time `json:"publishedAt"`
	Origin      Origin    `json:"origin"`
}

// Playlist is derived from the current track set on every merge and is never
// mutated independently.
type Playlist struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TrackCount  int    `json:"trackCount"`
	Thumbnail   string `json:"thumbnail"`
	Synthetic   bool   `json:"isSynthetic"`
}

// Comment is a user-authored note attached to a track.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// SortKey selects a track ordering.
type SortKey string

const (
	SortNewest SortKey = "newest"
	SortOldest SortKey = "oldest"
	SortTitle  SortKey = "title"
	SortRating SortKey = "rating"
)

// Derived playlist identifiers.
const (
	PlaylistLatest    = "latest"
	PlaylistPopular   = "popular"
	PlaylistFavorites = "favorites"
)

// Caps on the synthetic playlists.
const (
	latestLimit  = 20
	popularLimit = 15
)

// Persisted state slots. The keys match the storage keys the showcase site
// has always used, so an existing frontend keeps working.
const (
	stateKeyFavorites = "f90_favorites"
	stateKeyRatings   = "f90_ratings"
	stateKeyComments  = "f90_comments"
)

// MaxRating is the upper bound of the rating scale.
const MaxRating = 5.0
