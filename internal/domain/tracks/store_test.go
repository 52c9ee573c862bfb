package tracks

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// memState is a minimal in-memory StateStore for tests.
type memState struct {
	values map[string]string
	setErr error
	getErr error
}

func newMemState() *memState {
	return &memState{values: make(map[string]string)}
}

func (m *memState) Get(key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memState) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func remoteTrack(id, title string, published time.Time) Track {
	return Track{
		ID:          id,
		Title:       title,
		Artist:      "F90 Studio",
		ExternalRef: id,
		PublishedAt: published,
		Origin:      OriginRemote,
	}
}

func TestNewStore_SeedsLocalTracks(t *testing.T) {
	s := NewStore(newMemState())

	got := s.Tracks()
	if len(got) != 6 {
		t.Fatalf("tracks = %d, want the 6 local fallback tracks", len(got))
	}
	for _, tr := range got {
		if tr.Origin != OriginLocal {
			t.Errorf("track %s origin = %q, want local", tr.ID, tr.Origin)
		}
	}
}

func TestNewStore_LoadsPersistedState(t *testing.T) {
	st := newMemState()
	st.values[stateKeyFavorites] = `["track2","track5"]`
	st.values[stateKeyRatings] = `{"track1":3.5}`

	s := NewStore(st)

	if got := s.Favorites(); len(got) != 2 || got[0] != "track2" || got[1] != "track5" {
		t.Errorf("favorites = %v, want persisted order", got)
	}
	if got := s.RatingFor("track1"); got != 3.5 {
		t.Errorf("rating = %v, want 3.5", got)
	}
}

func TestNewStore_CorruptStateStartsEmpty(t *testing.T) {
	st := newMemState()
	st.values[stateKeyFavorites] = `{not json`
	st.values[stateKeyRatings] = `also not json`

	s := NewStore(st)

	if got := s.Favorites(); len(got) != 0 {
		t.Errorf("favorites = %v, want empty", got)
	}
	if got := s.Ratings(); len(got) != 0 {
		t.Errorf("ratings = %v, want empty", got)
	}
}

func TestNewStore_UnreadableStateStartsEmpty(t *testing.T) {
	st := newMemState()
	st.getErr = errors.New("disk gone")

	s := NewStore(st)

	if got := s.Favorites(); len(got) != 0 {
		t.Errorf("favorites = %v, want empty", got)
	}
	if got := s.Tracks(); len(got) != 6 {
		t.Errorf("tracks = %d, local seed must survive a state read failure", len(got))
	}
}

func TestMerge_RemoteWinsCollisions(t *testing.T) {
	s := NewStore(newMemState())

	remote := []Track{
		remoteTrack("r1", "Remote One", time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)),
		remoteTrack("track3", "Shadowed Local", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)),
	}
	s.Merge(remote)

	got := s.Tracks()
	// 2 remote + 5 surviving locals (track3 collided).
	if len(got) != 7 {
		t.Fatalf("tracks = %d, want 7", len(got))
	}
	if got[0].ID != "r1" || got[1].ID != "track3" {
		t.Errorf("remote tracks must lead in aggregator order, got %s, %s", got[0].ID, got[1].ID)
	}
	if got[1].Origin != OriginRemote {
		t.Error("colliding ID must resolve to the remote track")
	}
	if got[2].ID != "track1" {
		t.Errorf("surviving locals must follow in declared order, got %s", got[2].ID)
	}
	for _, tr := range got {
		if tr.ID == "track3" && tr.Title != "Shadowed Local" {
			t.Errorf("track3 title = %q, want the remote one", tr.Title)
		}
	}
}

func TestMerge_EmptyRemoteKeepsLocals(t *testing.T) {
	s := NewStore(newMemState())
	s.Merge(nil)

	if got := s.Tracks(); len(got) != 6 {
		t.Errorf("tracks = %d, want all 6 locals", len(got))
	}
}

func TestMerge_RecomputesPlaylists(t *testing.T) {
	s := NewStore(newMemState())

	remote := make([]Track, 30)
	for i := range remote {
		remote[i] = remoteTrack(
			"r"+string(rune('a'+i%26))+string(rune('0'+i/26)),
			"Remote",
			time.Date(2025, 1, 1+i%27, 0, 0, 0, 0, time.UTC),
		)
	}
	s.Merge(remote)

	byID := make(map[string]Playlist)
	for _, p := range s.Playlists() {
		byID[p.ID] = p
	}
	if got := byID[PlaylistLatest].TrackCount; got != latestLimit {
		t.Errorf("latest count = %d, want cap %d", got, latestLimit)
	}
	if got := byID[PlaylistPopular].TrackCount; got != popularLimit {
		t.Errorf("popular count = %d, want cap %d", got, popularLimit)
	}
	if got := byID[PlaylistFavorites].TrackCount; got != 0 {
		t.Errorf("favorites count = %d, want 0", got)
	}
	if !byID[PlaylistLatest].Synthetic || byID[PlaylistFavorites].Synthetic {
		t.Error("latest is synthetic, favorites is not")
	}
}

func TestPlaylistTracks(t *testing.T) {
	s := NewStore(newMemState())

	latest := s.PlaylistTracks(PlaylistLatest)
	if len(latest) != 6 {
		t.Errorf("latest = %d tracks, want 6", len(latest))
	}

	popular := s.PlaylistTracks(PlaylistPopular)
	if len(popular) != 6 {
		t.Fatalf("popular = %d tracks, want 6", len(popular))
	}
	for i := 1; i < len(popular); i++ {
		if popular[i-1].Plays < popular[i].Plays {
			t.Errorf("popular not ordered by plays: %d before %d", popular[i-1].Plays, popular[i].Plays)
		}
	}
	if popular[0].ID != "track3" {
		t.Errorf("most played = %s, want track3", popular[0].ID)
	}

	if got := s.PlaylistTracks("no-such-playlist"); len(got) != 0 {
		t.Errorf("unknown playlist = %d tracks, want empty", len(got))
	}
}

func TestPlaylistTracks_FavoritesFollowToggleOrder(t *testing.T) {
	s := NewStore(newMemState())
	s.ToggleFavorite("track4")
	s.ToggleFavorite("track1")

	favs := s.PlaylistTracks(PlaylistFavorites)
	if len(favs) != 2 || favs[0].ID != "track4" || favs[1].ID != "track1" {
		t.Errorf("favorites = %v, want toggle order", favs)
	}
}

func TestSearch(t *testing.T) {
	s := NewStore(newMemState())
	s.Merge([]Track{remoteTrack("r1", "Night Drive", time.Now())})

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"empty query returns all", "", 7},
		{"title match case-insensitive", "NIGHT", 1},
		{"artist match", "f90", 7},
		{"arabic title", "الحرية", 1},
		{"no match", "zzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Search(tt.query); len(got) != tt.want {
				t.Errorf("Search(%q) = %d tracks, want %d", tt.query, len(got), tt.want)
			}
		})
	}
}

func TestToggleFavorite_RoundTrip(t *testing.T) {
	st := newMemState()
	s := NewStore(st)

	changed, err := s.ToggleFavorite("track2")
	if err != nil || !changed {
		t.Fatalf("toggle on = (%v, %v), want (true, nil)", changed, err)
	}
	if !s.IsFavorite("track2") {
		t.Error("track2 should be favorited")
	}

	var persisted []string
	if err := json.Unmarshal([]byte(st.values[stateKeyFavorites]), &persisted); err != nil {
		t.Fatalf("persisted favorites unreadable: %v", err)
	}
	if len(persisted) != 1 || persisted[0] != "track2" {
		t.Errorf("persisted = %v, want [track2]", persisted)
	}

	changed, err = s.ToggleFavorite("track2")
	if err != nil || !changed {
		t.Fatalf("toggle off = (%v, %v), want (true, nil)", changed, err)
	}
	if s.IsFavorite("track2") {
		t.Error("track2 should no longer be favorited")
	}
	if st.values[stateKeyFavorites] != "[]" {
		t.Errorf("persisted = %q, want empty list", st.values[stateKeyFavorites])
	}
}

func TestToggleFavorite_UnknownIDIsNoOp(t *testing.T) {
	st := newMemState()
	s := NewStore(st)

	changed, err := s.ToggleFavorite("ghost")
	if changed || err != nil {
		t.Errorf("got (%v, %v), want silent no-op", changed, err)
	}
	if _, ok := st.values[stateKeyFavorites]; ok {
		t.Error("no-op must not touch persisted state")
	}
}

func TestToggleFavorite_PersistFailureKeepsMemoryState(t *testing.T) {
	st := newMemState()
	st.setErr = errors.New("disk full")
	s := NewStore(st)

	changed, err := s.ToggleFavorite("track1")
	if !changed {
		t.Error("change happened in memory, want changed=true")
	}
	if err == nil {
		t.Error("persistence failure must surface to the caller")
	}
	if !s.IsFavorite("track1") {
		t.Error("in-memory state must keep the new value")
	}
}

func TestSetRating(t *testing.T) {
	st := newMemState()
	s := NewStore(st)

	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"in range", 3.5, 3.5},
		{"clamped high", 99, MaxRating},
		{"clamped low", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed, err := s.SetRating("track1", tt.value)
			if err != nil || !changed {
				t.Fatalf("SetRating = (%v, %v), want (true, nil)", changed, err)
			}
			if got := s.RatingFor("track1"); got != tt.want {
				t.Errorf("rating = %v, want %v", got, tt.want)
			}
		})
	}

	if changed, err := s.SetRating("ghost", 5); changed || err != nil {
		t.Errorf("unknown ID = (%v, %v), want silent no-op", changed, err)
	}

	var persisted map[string]float64
	if err := json.Unmarshal([]byte(st.values[stateKeyRatings]), &persisted); err != nil {
		t.Fatalf("persisted ratings unreadable: %v", err)
	}
	if persisted["track1"] != 0 {
		t.Errorf("persisted rating = %v, want the last write (0)", persisted["track1"])
	}
}

func TestAddComment(t *testing.T) {
	st := newMemState()
	s := NewStore(st)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	c, err := s.AddComment("track1", "  جميل جداً  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c == nil {
		t.Fatal("comment = nil, want a created comment")
	}
	if c.Text != "جميل جداً" {
		t.Errorf("text = %q, want trimmed", c.Text)
	}
	if c.ID == "" {
		t.Error("comment must get an ID")
	}
	if !c.CreatedAt.Equal(fixed) {
		t.Errorf("createdAt = %v, want injected clock", c.CreatedAt)
	}

	got := s.CommentsFor("track1")
	if len(got) != 1 || got[0].ID != c.ID {
		t.Errorf("thread = %v, want the one comment", got)
	}

	if _, ok := st.values[stateKeyComments]; !ok {
		t.Error("comment must be persisted")
	}
}

func TestAddComment_NoOps(t *testing.T) {
	s := NewStore(newMemState())

	if c, err := s.AddComment("track1", "   "); c != nil || err != nil {
		t.Errorf("blank text = (%v, %v), want (nil, nil)", c, err)
	}
	if c, err := s.AddComment("ghost", "hello"); c != nil || err != nil {
		t.Errorf("unknown ID = (%v, %v), want (nil, nil)", c, err)
	}
}

func TestTracks_ReturnsCopy(t *testing.T) {
	s := NewStore(newMemState())

	got := s.Tracks()
	got[0].Title = "mutated"

	if s.Tracks()[0].Title == "mutated" {
		t.Error("Tracks must return a copy, not the backing slice")
	}
}
