package tracks

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StateStore is the persistence capability for user state (favorites,
// ratings, comments). The second return value of Get reports whether the key
// was present.
type StateStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Store merges aggregated remote tracks with the local fallback set and
// serves queries plus favorite/rating/comment mutations. All user state is
// persisted through the injected StateStore synchronously on every mutation.
type Store struct {
	mu    sync.RWMutex
	state StateStore

	tracks    []Track
	playlists []Playlist

	favorites []string
	ratings   map[string]float64
	comments  map[string][]Comment

	now func() time.Time
}

// NewStore creates a track store seeded with the local fallback set and the
// persisted user state. Unreadable state slots are logged and treated as
// empty rather than failing construction.
func NewStore(state StateStore) *Store {
	s := &Store{
		state:    state,
		ratings:  make(map[string]float64),
		comments: make(map[string][]Comment),
		now:      time.Now,
	}
	s.loadState()
	s.tracks = localTracks()
	s.playlists = s.derivePlaylists()
	return s
}

func (s *Store) loadState() {
	if raw, ok, err := s.state.Get(stateKeyFavorites); err != nil {
		log.Warn().Err(err).Msg("Failed to read favorites state")
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &s.favorites); err != nil {
			log.Warn().Err(err).Msg("Corrupt favorites state, starting empty")
			s.favorites = nil
		}
	}

	if raw, ok, err := s.state.Get(stateKeyRatings); err != nil {
		log.Warn().Err(err).Msg("Failed to read ratings state")
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &s.ratings); err != nil {
			log.Warn().Err(err).Msg("Corrupt ratings state, starting empty")
			s.ratings = make(map[string]float64)
		}
	}

	if raw, ok, err := s.state.Get(stateKeyComments); err != nil {
		log.Warn().Err(err).Msg("Failed to read comments state")
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &s.comments); err != nil {
			log.Warn().Err(err).Msg("Corrupt comments state, starting empty")
			s.comments = make(map[string][]Comment)
		}
	}
}

// Merge replaces the current track set with the given remote tracks followed
// by the local fallback tracks whose IDs do not collide with a remote ID.
// Remote tracks keep the order the aggregator produced (publish date
// descending); surviving local tracks keep their declared order. Playlists
// are recomputed.
//
// The merge is asymmetric on purpose: local tracks carry no publish
// timestamp comparable to remote ones, so remote always wins a collision.
func (s *Store) Merge(remote []Track) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make([]Track, 0, len(remote)+6)
	seen := make(map[string]struct{}, len(remote))
	for _, t := range remote {
		merged = append(merged, t)
		seen[t.ID] = struct{}{}
	}

	kept := 0
	for _, t := range localTracks() {
		if _, dup := seen[t.ID]; dup {
			continue
		}
		merged = append(merged, t)
		kept++
	}

	s.tracks = merged
	s.playlists = s.derivePlaylists()

	log.Info().
		Int("remote", len(remote)).
		Int("local", kept).
		Int("total", len(merged)).
		Msg("Merged track catalog")
}

// derivePlaylists recomputes the three always-present playlists. Caller must
// hold at least a read lock.
func (s *Store) derivePlaylists() []Playlist {
	n := len(s.tracks)
	return []Playlist{
		{
			ID:          PlaylistLatest,
			Title:       "أحدث الإصدارات",
			Description: "أحدث أعمال F90 Studio",
			TrackCount:  min(n, latestLimit),
			Thumbnail:   "resources/studio-hero.jpg",
			Synthetic:   true,
		},
		{
			ID:          PlaylistPopular,
			Title:       "الأكثر مشاهدة",
			Description: "الأعمال الأكثر شعبية",
			TrackCount:  min(n, popularLimit),
			Thumbnail:   "resources/vocal-booth.jpg",
			Synthetic:   true,
		},
		{
			ID:          PlaylistFavorites,
			Title:       "المفضلة",
			Description: "أغانيك المفضلة",
			TrackCount:  len(s.favorites),
			Thumbnail:   "resources/mixing-console.jpg",
			Synthetic:   false,
		},
	}
}

// Tracks returns a copy of the current track sequence.
func (s *Store) Tracks() []Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Track, len(s.tracks))
	copy(out, s.tracks)
	return out
}

// Playlists returns a copy of the derived playlists.
func (s *Store) Playlists() []Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Playlist, len(s.playlists))
	copy(out, s.playlists)
	return out
}

// PlaylistTracks materializes the track slice behind a derived playlist.
// Unknown playlist IDs yield an empty slice.
func (s *Store) PlaylistTracks(id string) []Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch id {
	case PlaylistLatest:
		n := min(len(s.tracks), latestLimit)
		out := make([]Track, n)
		copy(out, s.tracks[:n])
		return out
	case PlaylistPopular:
		byPlays := make([]Track, len(s.tracks))
		copy(byPlays, s.tracks)
		stableSortByPlaysDesc(byPlays)
		n := min(len(byPlays), popularLimit)
		return byPlays[:n]
	case PlaylistFavorites:
		// Membership is reconstructed from user state on every read.
		out := make([]Track, 0, len(s.favorites))
		for _, fav := range s.favorites {
			for _, t := range s.tracks {
				if t.ID == fav {
					out = append(out, t)
					break
				}
			}
		}
		return out
	default:
		return []Track{}
	}
}

// Search returns a fresh, order-preserving slice of tracks whose title or
// artist contains the query, case-insensitively. An empty query returns all
// tracks.
func (s *Store) Search(query string) []Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if query == "" {
		out := make([]Track, len(s.tracks))
		copy(out, s.tracks)
		return out
	}

	q := strings.ToLower(query)
	out := make([]Track, 0)
	for _, t := range s.tracks {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Artist), q) {
			out = append(out, t)
		}
	}
	return out
}

// ToggleFavorite flips the favorite flag for a track. The returned bool
// reports whether anything changed (the caller re-renders on true); an
// unknown ID is a silent no-op. A persistence failure is returned so the
// caller can warn that the change did not save, but the in-memory state
// keeps the new value.
func (s *Store) ToggleFavorite(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasTrack(id) {
		log.Debug().Str("id", id).Msg("Favorite toggle for unknown track ignored")
		return false, nil
	}

	removed := false
	for i, fav := range s.favorites {
		if fav == id {
			s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		s.favorites = append(s.favorites, id)
	}
	s.playlists = s.derivePlaylists()

	if err := s.persist(stateKeyFavorites, s.favorites); err != nil {
		return true, fmt.Errorf("persist favorites: %w", err)
	}
	return true, nil
}

// SetRating records a user rating for a track, clamped to [0, MaxRating].
// Unknown IDs are a silent no-op.
func (s *Store) SetRating(id string, value float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasTrack(id) {
		log.Debug().Str("id", id).Msg("Rating for unknown track ignored")
		return false, nil
	}

	if value < 0 {
		value = 0
	}
	if value > MaxRating {
		value = MaxRating
	}
	s.ratings[id] = value

	if err := s.persist(stateKeyRatings, s.ratings); err != nil {
		return true, fmt.Errorf("persist ratings: %w", err)
	}
	return true, nil
}

// AddComment appends a comment to a track's comment thread. Unknown IDs and
// blank text are silent no-ops (nil comment, nil error).
func (s *Store) AddComment(id, text string) (*Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text = strings.TrimSpace(text)
	if text == "" || !s.hasTrack(id) {
		return nil, nil
	}

	c := Comment{
		ID:        uuid.New().String(),
		Text:      text,
		CreatedAt: s.now(),
	}
	s.comments[id] = append(s.comments[id], c)

	if err := s.persist(stateKeyComments, s.comments); err != nil {
		return &c, fmt.Errorf("persist comments: %w", err)
	}
	return &c, nil
}

// IsFavorite reports whether a track is currently favorited.
func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, fav := range s.favorites {
		if fav == id {
			return true
		}
	}
	return false
}

// Favorites returns the ordered favorite track IDs.
func (s *Store) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.favorites))
	copy(out, s.favorites)
	return out
}

// Ratings returns a copy of the user rating map.
func (s *Store) Ratings() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.ratings))
	for k, v := range s.ratings {
		out[k] = v
	}
	return out
}

// RatingFor returns the user rating for a track, zero when unrated.
func (s *Store) RatingFor(id string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ratings[id]
}

// CommentsFor returns a copy of a track's comment thread in insertion order.
func (s *Store) CommentsFor(id string) []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Comment, len(s.comments[id]))
	copy(out, s.comments[id])
	return out
}

// hasTrack reports whether an ID exists in the current track set. Caller
// must hold a lock.
func (s *Store) hasTrack(id string) bool {
	for _, t := range s.tracks {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) persist(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.state.Set(key, string(data))
}
