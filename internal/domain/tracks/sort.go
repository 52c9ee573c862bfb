package tracks

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortTracks returns a sorted copy of the given tracks; the input is never
// mutated. All orderings are stable, so equal keys keep their relative
// order.
//
// newest and oldest compare publish timestamps. Local fallback tracks carry
// a zero timestamp and therefore sort after every dated track under newest.
func SortTracks(in []Track, key SortKey) []Track {
	out := make([]Track, len(in))
	copy(out, in)

	switch key {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		})
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PublishedAt.Before(out[j].PublishedAt)
		})
	case SortTitle:
		c := collate.New(language.Und, collate.Loose)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Title, out[j].Title) < 0
		})
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Rating > out[j].Rating
		})
	}
	return out
}

// stableSortByPlaysDesc orders tracks by play count descending, in place.
func stableSortByPlaysDesc(ts []Track) {
	sort.SliceStable(ts, func(i, j int) bool {
		return ts[i].Plays > ts[j].Plays
	})
}
