package youtube

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/f90studio/showcase-backend/internal/domain/catalog"
)

// Wire shapes for the playlistItems endpoint. Only the fields the
// aggregator consumes are mapped.

type thumbnail struct {
	URL string `json:"url"`
}

type thumbnails struct {
	Default thumbnail `json:"default"`
	High    thumbnail `json:"high"`
}

type resourceID struct {
	VideoID string `json:"videoId"`
}

type snippet struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	PublishedAt  string     `json:"publishedAt"`
	ChannelTitle string     `json:"channelTitle"`
	Position     int        `json:"position"`
	Thumbnails   thumbnails `json:"thumbnails"`
	ResourceID   resourceID `json:"resourceId"`
}

type playlistItem struct {
	Snippet        snippet `json:"snippet"`
	ContentDetails struct {
		VideoID string `json:"videoId"`
	} `json:"contentDetails"`
}

type playlistItemsResponse struct {
	Items         []playlistItem `json:"items"`
	NextPageToken string         `json:"nextPageToken"`
}

// ListCollectionPage lists one page of a playlist. pageSize is clamped to
// the API maximum of 50.
func (c *Client) ListCollectionPage(ctx context.Context, collectionID, pageToken string, pageSize int) (catalog.Page, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("playlistId", collectionID)
	params.Set("maxResults", strconv.Itoa(clampPageSize(pageSize)))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var resp playlistItemsResponse
	if err := c.apiGet(ctx, "playlistItems", params, &resp); err != nil {
		return catalog.Page{}, err
	}

	items := make([]catalog.Item, 0, len(resp.Items))
	for _, it := range resp.Items {
		id := it.ContentDetails.VideoID
		if id == "" {
			id = it.Snippet.ResourceID.VideoID
		}
		items = append(items, catalog.Item{
			ExternalID:   id,
			Title:        it.Snippet.Title,
			Description:  it.Snippet.Description,
			ThumbnailURL: pickThumbnail(it.Snippet.Thumbnails),
			PublishedAt:  parseTimestamp(it.Snippet.PublishedAt),
			SourceLabel:  it.Snippet.ChannelTitle,
			Position:     it.Snippet.Position,
		})
	}

	return catalog.Page{Items: items, NextPageToken: resp.NextPageToken}, nil
}

// pickThumbnail prefers the high-resolution variant.
func pickThumbnail(t thumbnails) string {
	if t.High.URL != "" {
		return t.High.URL
	}
	return t.Default.URL
}

// parseTimestamp parses the API's RFC 3339 timestamps; unparseable values
// become the zero time rather than failing the page.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
