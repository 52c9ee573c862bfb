package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/f90studio/showcase-backend/internal/domain/tracks"
)

const (
	// DefaultPageSize is the remote API's hard per-call maximum.
	DefaultPageSize = 50

	// DefaultCollectionMax caps how many items are accumulated per
	// collection before pagination stops.
	DefaultCollectionMax = 50

	// DefaultChannelMax caps channel upload results.
	DefaultChannelMax = 30

	// DefaultThumbnail is used when the remote item carries no thumbnail.
	DefaultThumbnail = "resources/studio-hero.jpg"

	// DefaultArtist labels normalized remote tracks.
	DefaultArtist = "F90 Studio"

	// DefaultDuration is the display duration until detail enrichment fills
	// the real one.
	DefaultDuration = "3:45"
)

// DefaultCollections is the fixed, ordered list of showcase playlists.
// Declaration order is the deduplication tie-break.
var DefaultCollections = []string{
	"PL2FIA-SoBgYvY4B-0IDWTtKriVGPb1qnx",
	"PL2FIA-SoBgYtotc48ZfKSYagxMd3AMmVp",
	"PL2FIA-SoBgYuXeLdvKXaMlRJiF3B2opAP",
}

// tombstoneTitles mark items the remote service has withdrawn; they are
// filtered per page, before accumulation.
var tombstoneTitles = []string{"deleted video", "private video"}

// Aggregator retrieves raw catalog entries from an ordered set of named
// collections, caches per collection with a TTL, deduplicates by external
// ID, sorts by publish time descending, and normalizes into tracks. It is
// explicitly constructed with its fetch capability and clock injected.
type Aggregator struct {
	source Source
	cache  *memoCache
	now    func() time.Time

	collections   []string
	channelID     string
	collectionMax int
	channelMax    int
	pageSize      int
	enrichDetails bool

	mu            sync.Mutex
	inFlight      bool
	channelInfo   *ChannelInfo
	channelInfoAt time.Time
	cacheTTL      time.Duration
}

// Option is a functional option for configuring the aggregator.
type Option func(*Aggregator)

// WithCollections overrides the ordered collection list.
func WithCollections(ids []string) Option {
	return func(a *Aggregator) {
		a.collections = ids
	}
}

// WithChannelID enables channel upload and channel info lookups. Leave
// empty to run playlist-only.
func WithChannelID(id string) Option {
	return func(a *Aggregator) {
		a.channelID = id
	}
}

// WithCacheTTL overrides the collection cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(a *Aggregator) {
		a.cacheTTL = ttl
	}
}

// WithClock injects a clock (useful for testing cache expiry).
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// WithCollectionMax overrides the per-collection result cap.
func WithCollectionMax(max int) Option {
	return func(a *Aggregator) {
		a.collectionMax = max
	}
}

// WithDetailEnrichment toggles the statistics/detail lookup that fills real
// durations and play counts after normalization.
func WithDetailEnrichment(enabled bool) Option {
	return func(a *Aggregator) {
		a.enrichDetails = enabled
	}
}

// NewAggregator creates an aggregator over the given source.
func NewAggregator(source Source, opts ...Option) *Aggregator {
	a := &Aggregator{
		source:        source,
		now:           time.Now,
		collections:   DefaultCollections,
		collectionMax: DefaultCollectionMax,
		channelMax:    DefaultChannelMax,
		pageSize:      DefaultPageSize,
		cacheTTL:      DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.cache = newMemoCache(a.cacheTTL, a.now)
	return a
}

// FetchCollection paginates through one collection until it is exhausted or
// the accumulated count reaches maxResults, filtering invalid and tombstoned
// items per page. Results are memoized under (collectionID, maxResults) for
// the cache TTL.
//
// A failed first page makes the whole collection count as unreachable; a
// failure mid-pagination ends the collection early with the partial result.
// The caller may see up to one page more than maxResults.
func (a *Aggregator) FetchCollection(ctx context.Context, collectionID string, maxResults int) ([]Item, error) {
	key := fmt.Sprintf("playlist_%s_%d", collectionID, maxResults)
	if items, ok := a.cache.get(key); ok {
		log.Debug().Str("collection", collectionID).Int("items", len(items)).Msg("Collection cache hit")
		return items, nil
	}

	pageSize := a.pageSize
	if maxResults < pageSize {
		pageSize = maxResults
	}

	items := make([]Item, 0, maxResults)
	token := ""
	pages := 0
	for {
		page, err := a.source.ListCollectionPage(ctx, collectionID, token, pageSize)
		if err != nil {
			log.Warn().Err(err).
				Str("collection", collectionID).
				Int("page", pages).
				Msg("Collection page fetch failed, treating as end of collection")
			if pages == 0 {
				return nil, err
			}
			break
		}
		pages++

		items = append(items, filterItems(page.Items)...)

		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
		if len(items) >= maxResults {
			break
		}
	}

	items = dedupeItems(items)
	a.cache.set(key, items)

	log.Debug().
		Str("collection", collectionID).
		Int("pages", pages).
		Int("items", len(items)).
		Msg("Fetched collection")
	return items, nil
}

// GetAllContent runs one aggregation pass: every configured collection (plus
// channel uploads when a channel is set), deduplicated first-occurrence-wins
// in declaration order, stable-sorted by publish time descending, and
// normalized. If every collection errored and nothing was fetched it returns
// the fixed mock list, so downstream never sees zero tracks from a transient
// outage alone.
//
// At most one pass runs at a time; a re-entrant call returns
// ErrSyncInProgress.
func (a *Aggregator) GetAllContent(ctx context.Context) ([]tracks.Track, error) {
	a.mu.Lock()
	if a.inFlight {
		a.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	a.inFlight = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.inFlight = false
		a.mu.Unlock()
	}()

	// Collections are independent, so they fetch concurrently; pages within
	// one collection stay sequential. Results are slotted by declaration
	// index to keep the dedupe tie-break deterministic.
	results := make([][]Item, len(a.collections))
	failures := make([]error, len(a.collections))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range a.collections {
		i, id := i, id
		g.Go(func() error {
			items, err := a.FetchCollection(gctx, id, a.collectionMax)
			results[i] = items
			failures[i] = err
			return nil
		})
	}
	g.Wait() //nolint:errcheck // per-collection errors are collected above

	var all []Item
	failed := 0
	for i := range results {
		all = append(all, results[i]...)
		if failures[i] != nil {
			failed++
		}
	}

	if a.channelID != "" {
		all = append(all, a.fetchChannelUploads(ctx)...)
	}

	unique := dedupeItems(all)
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].PublishedAt.After(unique[j].PublishedAt)
	})

	if len(unique) == 0 && failed == len(a.collections) && failed > 0 {
		log.Warn().Int("collections", failed).Msg("Remote catalog unavailable, serving mock data")
		return MockTracks(), nil
	}

	ts := make([]tracks.Track, 0, len(unique))
	for _, it := range unique {
		ts = append(ts, normalizeItem(it))
	}

	if a.enrichDetails {
		a.enrich(ctx, ts)
	}

	log.Info().Int("tracks", len(ts)).Int("failedCollections", failed).Msg("Aggregated catalog content")
	return ts, nil
}

// fetchChannelUploads lists recent channel uploads, memoized like a
// collection. Failures degrade to no results.
func (a *Aggregator) fetchChannelUploads(ctx context.Context) []Item {
	key := fmt.Sprintf("channel_%s_%d", a.channelID, a.channelMax)
	if items, ok := a.cache.get(key); ok {
		return items
	}

	items, err := a.source.SearchChannelVideos(ctx, a.channelID, a.channelMax)
	if err != nil {
		log.Warn().Err(err).Str("channel", a.channelID).Msg("Channel uploads fetch failed")
		return nil
	}

	items = filterItems(items)
	a.cache.set(key, items)
	return items
}

// GetChannelInfo returns cached channel metadata, or nil when no channel is
// configured or the lookup failed.
func (a *Aggregator) GetChannelInfo(ctx context.Context) *ChannelInfo {
	if a.channelID == "" {
		return nil
	}

	a.mu.Lock()
	if a.channelInfo != nil && a.now().Sub(a.channelInfoAt) <= a.cacheTTL {
		info := a.channelInfo
		a.mu.Unlock()
		return info
	}
	a.mu.Unlock()

	info, err := a.source.GetChannelInfo(ctx, a.channelID)
	if err != nil || info == nil {
		log.Warn().Err(err).Str("channel", a.channelID).Msg("Channel info fetch failed")
		return nil
	}

	a.mu.Lock()
	a.channelInfo = info
	a.channelInfoAt = a.now()
	a.mu.Unlock()
	return info
}

// ClearCache unconditionally discards every cached collection and the
// channel info; the next pass re-fetches everything.
func (a *Aggregator) ClearCache() {
	a.cache.clear()
	a.mu.Lock()
	a.channelInfo = nil
	a.channelInfoAt = time.Time{}
	a.mu.Unlock()
	log.Info().Msg("Catalog cache cleared")
}

// Stats reports the current cache contents.
func (a *Aggregator) Stats() CacheStats {
	return a.cache.stats()
}

// enrich fills real durations and play counts from the detail/statistics
// endpoint, batching up to one page of IDs per call. Enrichment failures
// leave the deterministic defaults in place.
func (a *Aggregator) enrich(ctx context.Context, ts []tracks.Track) {
	byID := make(map[string]VideoDetail, len(ts))
	for start := 0; start < len(ts); start += DefaultPageSize {
		end := start + DefaultPageSize
		if end > len(ts) {
			end = len(ts)
		}
		ids := make([]string, 0, end-start)
		for _, t := range ts[start:end] {
			ids = append(ids, t.ID)
		}

		details, err := a.source.ListVideoDetails(ctx, ids)
		if err != nil {
			log.Warn().Err(err).Int("ids", len(ids)).Msg("Detail enrichment failed for batch")
			continue
		}
		for _, d := range details {
			byID[d.ExternalID] = d
		}
	}

	for i := range ts {
		d, ok := byID[ts[i].ID]
		if !ok {
			continue
		}
		if d.Duration > 0 {
			ts[i].Duration = formatDuration(d.Duration)
		}
		if d.ViewCount > 0 {
			ts[i].Plays = d.ViewCount
		}
	}
}

// filterItems drops items with missing identity, missing title, or a
// tombstone title. Filtering happens per page, before accumulation.
func filterItems(items []Item) []Item {
	out := items[:0:0]
	for _, it := range items {
		if it.ExternalID == "" || it.Title == "" {
			continue
		}
		if isTombstone(it.Title) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func isTombstone(title string) bool {
	t := strings.ToLower(title)
	for _, marker := range tombstoneTitles {
		if t == marker {
			return true
		}
	}
	return false
}

// dedupeItems keeps the first occurrence of each external ID, preserving
// order.
func dedupeItems(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it.ExternalID]; dup {
			continue
		}
		seen[it.ExternalID] = struct{}{}
		out = append(out, it)
	}
	return out
}

// normalizeItem converts a catalog item into a track. The ID is the external
// ID verbatim; presentation fields fall back to fixed defaults, never
// randomness, so repeated passes over the same input are byte-identical.
func normalizeItem(it Item) tracks.Track {
	thumb := it.ThumbnailURL
	if thumb == "" {
		thumb = DefaultThumbnail
	}
	return tracks.Track{
		ID:          it.ExternalID,
		Title:       it.Title,
		Artist:      DefaultArtist,
		Duration:    DefaultDuration,
		Thumbnail:   thumb,
		ExternalRef: it.ExternalID,
		Rating:      0,
		Plays:       0,
		PublishedAt: it.PublishedAt,
		Origin:      tracks.OriginRemote,
	}
}

// formatDuration renders a duration as m:ss (or h:mm:ss past the hour).
func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
