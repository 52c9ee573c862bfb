package youtube

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/f90studio/showcase-backend/internal/domain/catalog"
)

type videoItem struct {
	ID             string `json:"id"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
	Statistics struct {
		ViewCount string `json:"viewCount"`
	} `json:"statistics"`
}

type videosResponse struct {
	Items []videoItem `json:"items"`
}

// ListVideoDetails fetches duration and view statistics for up to 50 video
// IDs in a single call.
func (c *Client) ListVideoDetails(ctx context.Context, ids []string) ([]catalog.VideoDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxPageSize {
		ids = ids[:MaxPageSize]
	}

	params := url.Values{}
	params.Set("part", "contentDetails,statistics")
	params.Set("id", strings.Join(ids, ","))

	var resp videosResponse
	if err := c.apiGet(ctx, "videos", params, &resp); err != nil {
		return nil, err
	}

	details := make([]catalog.VideoDetail, 0, len(resp.Items))
	for _, it := range resp.Items {
		views, _ := strconv.Atoi(it.Statistics.ViewCount)
		details = append(details, catalog.VideoDetail{
			ExternalID: it.ID,
			Duration:   parseISO8601Duration(it.ContentDetails.Duration),
			ViewCount:  views,
		})
	}
	return details, nil
}

// parseISO8601Duration parses the API's duration format (e.g. "PT3M45S",
// "PT1H2M", "P1DT2H"). Unparseable input yields zero.
func parseISO8601Duration(s string) time.Duration {
	if !strings.HasPrefix(s, "P") {
		return 0
	}
	s = s[1:]

	var d time.Duration
	inTime := false
	num := 0
	hasNum := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			num = num*10 + int(r-'0')
			hasNum = true
		case r == 'T':
			inTime = true
		case r == 'D' && !inTime:
			d += time.Duration(num) * 24 * time.Hour
			num, hasNum = 0, false
		case r == 'H' && inTime:
			d += time.Duration(num) * time.Hour
			num, hasNum = 0, false
		case r == 'M' && inTime:
			d += time.Duration(num) * time.Minute
			num, hasNum = 0, false
		case r == 'S' && inTime:
			d += time.Duration(num) * time.Second
			num, hasNum = 0, false
		default:
			return 0
		}
	}
	if hasNum {
		return 0
	}
	return d
}
