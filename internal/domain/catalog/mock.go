package catalog

import (
	"time"

	"github.com/f90studio/showcase-backend/internal/domain/tracks"
)

// mockPublishedAt is fixed so fallback output is identical across passes.
var mockPublishedAt = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// MockTracks is the fixed fallback list served when the remote catalog is
// fully unavailable. Never empty.
func MockTracks() []tracks.Track {
	return []tracks.Track{
		{
			ID:          "dQw4w9WgXcQ",
			Title:       "F90 Studio Session - Demo",
			Artist:      DefaultArtist,
			Duration:    DefaultDuration,
			Thumbnail:   DefaultThumbnail,
			ExternalRef: "dQw4w9WgXcQ",
			PublishedAt: mockPublishedAt,
			Origin:      tracks.OriginRemote,
		},
	}
}
