// Package youtube reads public playlist feeds.
package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ngo-cms/pkg/logging"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultFeedURL = "https://www.youtube.com/feeds/videos.xml"
	EmbedURL       = "https://www.youtube.com/embed/videoseries?list="
)

type Video struct {
	ID          string
	Title       string
	Description string
	Thumbnail   string
	Published   time.Time
}

func ThumbnailURL(videoID string) string {
	return "https://i.ytimg.com/vi/" + videoID + "/hqdefault.jpg"
}

type Client struct {
	FeedURL string
	http    *http.Client
	group   singleflight.Group
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		FeedURL: DefaultFeedURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// PlaylistVideos returns up to limit videos of a playlist. Every failure
// yields an empty slice; callers fall back to the embedded player.
func (c *Client) PlaylistVideos(ctx context.Context, playlistID string, limit int) []Video {
	if playlistID == "" {
		return nil
	}
	// The flight outlives any single caller; the client timeout still bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(playlistID, func() (interface{}, error) {
		videos, err := c.fetch(fetchCtx, playlistID)
		if err != nil {
			logging.L().Debug("playlist feed failed", zap.String("playlist", playlistID), zap.Error(err))
			return []Video(nil), nil
		}
		return videos, nil
	})
	var videos []Video
	select {
	case res := <-ch:
		videos, _ = res.Val.([]Video)
	case <-ctx.Done():
		return nil
	}
	if limit > 0 && len(videos) > limit {
		videos = videos[:limit]
	}
	return append([]Video(nil), videos...)
}

type feed struct {
	Entries []entry `xml:"entry"`
}

type entry struct {
	VideoID   string `xml:"http://www.youtube.com/xml/schemas/2015 videoId"`
	Title     string `xml:"title"`
	Published string `xml:"published"`
	Group     struct {
		Description string `xml:"description"`
	} `xml:"http://search.yahoo.com/mrss/ group"`
}

func (c *Client) fetch(ctx context.Context, playlistID string) ([]Video, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FeedURL+"?playlist_id="+url.QueryEscape(playlistID), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("feed status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("empty feed")
	}
	return ParseFeed(body)
}

// ParseFeed decodes an Atom playlist feed. Entries without a video id are skipped.
func ParseFeed(body []byte) ([]Video, error) {
	var f feed
	if err := xml.Unmarshal(body, &f); err != nil {
		return nil, err
	}
	var out []Video
	for _, e := range f.Entries {
		id := strings.TrimSpace(e.VideoID)
		if id == "" {
			continue
		}
		published, _ := time.Parse(time.RFC3339, strings.TrimSpace(e.Published))
		out = append(out, Video{
			ID:          id,
			Title:       strings.TrimSpace(e.Title),
			Description: strings.TrimSpace(e.Group.Description),
			Thumbnail:   ThumbnailURL(id),
			Published:   published,
		})
	}
	return out, nil
}

// ExtractPlaylistID returns the list query parameter of a playlist URL.
func ExtractPlaylistID(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return u.Query().Get("list")
}
