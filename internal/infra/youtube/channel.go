package youtube

import (
	"context"
	"net/url"
	"strconv"

	"github.com/f90studio/showcase-backend/internal/domain/catalog"
)

type searchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet snippet `json:"snippet"`
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

// SearchChannelVideos lists a channel's most recent uploads, newest first.
func (c *Client) SearchChannelVideos(ctx context.Context, channelID string, maxResults int) ([]catalog.Item, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("channelId", channelID)
	params.Set("maxResults", strconv.Itoa(clampPageSize(maxResults)))
	params.Set("order", "date")
	params.Set("type", "video")

	var resp searchResponse
	if err := c.apiGet(ctx, "search", params, &resp); err != nil {
		return nil, err
	}

	items := make([]catalog.Item, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.ID.VideoID == "" {
			continue
		}
		items = append(items, catalog.Item{
			ExternalID:   it.ID.VideoID,
			Title:        it.Snippet.Title,
			Description:  it.Snippet.Description,
			ThumbnailURL: pickThumbnail(it.Snippet.Thumbnails),
			PublishedAt:  parseTimestamp(it.Snippet.PublishedAt),
			SourceLabel:  it.Snippet.ChannelTitle,
		})
	}
	return items, nil
}

type channelItem struct {
	Snippet    snippet `json:"snippet"`
	Statistics struct {
		SubscriberCount string `json:"subscriberCount"`
		VideoCount      string `json:"videoCount"`
		ViewCount       string `json:"viewCount"`
	} `json:"statistics"`
}

type channelsResponse struct {
	Items []channelItem `json:"items"`
}

// GetChannelInfo fetches channel snippet and statistics. A channel ID that
// resolves to nothing yields (nil, nil).
func (c *Client) GetChannelInfo(ctx context.Context, channelID string) (*catalog.ChannelInfo, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", channelID)

	var resp channelsResponse
	if err := c.apiGet(ctx, "channels", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}

	it := resp.Items[0]
	return &catalog.ChannelInfo{
		Title:           it.Snippet.Title,
		Description:     it.Snippet.Description,
		Thumbnail:       pickThumbnail(it.Snippet.Thumbnails),
		SubscriberCount: zeroIfEmpty(it.Statistics.SubscriberCount),
		VideoCount:      zeroIfEmpty(it.Statistics.VideoCount),
		ViewCount:       zeroIfEmpty(it.Statistics.ViewCount),
	}, nil
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
