package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
 <title>Field visits</title>
 <entry>
  <id>yt:video:abc123</id>
  <yt:videoId>abc123</yt:videoId>
  <title>Water project opening</title>
  <published>2024-03-01T10:00:00+00:00</published>
  <media:group>
   <media:title>Water project opening</media:title>
   <media:description>Opening day in the village.</media:description>
  </media:group>
 </entry>
 <entry>
  <yt:videoId>def456</yt:videoId>
  <title>School handover</title>
  <published>2024-02-01T10:00:00+00:00</published>
 </entry>
 <entry>
  <title>No id</title>
 </entry>
</feed>`

func newFeedServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(time.Second)
	c.FeedURL = srv.URL
	return c
}

func TestParseFeed(t *testing.T) {
	videos, err := ParseFeed([]byte(sampleFeed))
	require.NoError(t, err)
	require.Len(t, videos, 2)

	assert.Equal(t, "abc123", videos[0].ID)
	assert.Equal(t, "Water project opening", videos[0].Title)
	assert.Equal(t, "Opening day in the village.", videos[0].Description)
	assert.Equal(t, "https://i.ytimg.com/vi/abc123/hqdefault.jpg", videos[0].Thumbnail)
	assert.Equal(t, 2024, videos[0].Published.Year())
	assert.Equal(t, "def456", videos[1].ID)
}

func TestPlaylistVideos(t *testing.T) {
	t.Run("returns videos and sends playlist id", func(t *testing.T) {
		var gotID string
		c := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotID = r.URL.Query().Get("playlist_id")
			w.Write([]byte(sampleFeed))
		})
		videos := c.PlaylistVideos(context.Background(), "PL123", 20)
		assert.Equal(t, "PL123", gotID)
		assert.Len(t, videos, 2)
	})

	t.Run("respects limit", func(t *testing.T) {
		c := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(sampleFeed))
		})
		assert.Len(t, c.PlaylistVideos(context.Background(), "PL123", 1), 1)
	})

	t.Run("non 2xx is empty", func(t *testing.T) {
		c := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		assert.Empty(t, c.PlaylistVideos(context.Background(), "PL123", 20))
	})

	t.Run("bad xml is empty", func(t *testing.T) {
		c := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<feed><entry>"))
		})
		assert.Empty(t, c.PlaylistVideos(context.Background(), "PL123", 20))
	})

	t.Run("empty body is empty", func(t *testing.T) {
		c := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {})
		assert.Empty(t, c.PlaylistVideos(context.Background(), "PL123", 20))
	})

	t.Run("timeout is empty without retry", func(t *testing.T) {
		var calls int32
		release := make(chan struct{})
		c := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			select {
			case <-release:
			case <-r.Context().Done():
			}
		})
		defer close(release)
		c.http.Timeout = 50 * time.Millisecond

		assert.Empty(t, c.PlaylistVideos(context.Background(), "PL123", 20))
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("shared fetch survives a cancelled caller", func(t *testing.T) {
		started := make(chan struct{}, 1)
		release := make(chan struct{})
		c := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case started <- struct{}{}:
			default:
			}
			<-release
			w.Write([]byte(sampleFeed))
		})
		var once sync.Once
		unblock := func() { once.Do(func() { close(release) }) }
		defer unblock()

		ctx, cancel := context.WithCancel(context.Background())
		first := make(chan []Video, 1)
		go func() { first <- c.PlaylistVideos(ctx, "PL123", 20) }()
		<-started

		second := make(chan []Video, 1)
		go func() { second <- c.PlaylistVideos(context.Background(), "PL123", 20) }()
		time.Sleep(20 * time.Millisecond)

		cancel()
		select {
		case videos := <-first:
			assert.Empty(t, videos, "cancelled caller returns at once")
		case <-time.After(time.Second):
			t.Fatal("cancelled caller still waiting on the feed")
		}

		unblock()
		select {
		case videos := <-second:
			assert.Len(t, videos, 2)
		case <-time.After(time.Second):
			t.Fatal("second caller never got the feed")
		}
	})

	t.Run("empty id skips the request", func(t *testing.T) {
		var calls int32
		c := newFeedServer(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
		})
		assert.Empty(t, c.PlaylistVideos(context.Background(), "", 20))
		assert.Zero(t, atomic.LoadInt32(&calls))
	})
}

func TestExtractPlaylistID(t *testing.T) {
	assert.Equal(t, "PLabc", ExtractPlaylistID("https://www.youtube.com/playlist?list=PLabc"))
	assert.Equal(t, "PLabc", ExtractPlaylistID("https://www.youtube.com/watch?v=x&list=PLabc&index=2"))
	assert.Equal(t, "", ExtractPlaylistID("https://www.youtube.com/watch?v=x"))
	assert.Equal(t, "", ExtractPlaylistID("::not a url"))
}
