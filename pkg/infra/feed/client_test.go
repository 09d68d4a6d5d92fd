package feed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/newsdesk/pkg/infra/feed"
)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
  <title>Docker Blog</title>
  <link>https://www.docker.com/blog/</link>
  <item>
    <title>Docker Desktop 5.0</title>
    <link>https://www.docker.com/blog/desktop-5/</link>
    <pubDate>Tue, 13 Oct 2026 10:00:00 +0000</pubDate>
    <description>New desktop release</description>
    <media:content url="https://www.docker.com/media/desktop.png" medium="image"/>
  </item>
  <item>
    <title>Compose watch</title>
    <link>https://www.docker.com/blog/compose-watch/</link>
    <description>Summary</description>
    <content:encoded><![CDATA[<p>Hello</p><img src="https://www.docker.com/media/compose.jpg">]]></content:encoded>
  </item>
  <item>
    <title>Build cloud</title>
    <link>https://www.docker.com/blog/build-cloud/</link>
    <description><![CDATA[<img src="https://www.docker.com/media/build.webp"> Faster builds]]></description>
  </item>
  <item>
    <title>Scout GA</title>
    <link>https://www.docker.com/blog/scout/</link>
    <description>No images here</description>
  </item>
</channel>
</rss>`

func TestClient_FetchFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssFeed))
	}))
	defer srv.Close()

	now := time.Date(2026, 10, 14, 3, 0, 0, 0, time.UTC)
	client := feed.New(feed.WithClock(func() time.Time { return now }))

	articles, err := client.FetchFeed(context.Background(), srv.URL, 10)
	gt.NoError(t, err)
	gt.A(t, articles).Length(4)

	gt.Equal(t, articles[0].Title, "Docker Desktop 5.0")
	gt.Equal(t, articles[0].Link, "https://www.docker.com/blog/desktop-5/")
	gt.Equal(t, articles[0].Published, "Tue, 13 Oct 2026 10:00:00 +0000")
	gt.Equal(t, articles[0].Summary, "New desktop release")
	gt.Equal(t, articles[0].ImageURL, "https://www.docker.com/media/desktop.png")
	gt.Equal(t, articles[0].Source, srv.URL)

	t.Run("image from content", func(t *testing.T) {
		gt.Equal(t, articles[1].ImageURL, "https://www.docker.com/media/compose.jpg")
	})

	t.Run("image from summary", func(t *testing.T) {
		gt.Equal(t, articles[2].ImageURL, "https://www.docker.com/media/build.webp")
		gt.True(t, strings.Contains(articles[2].Summary, "Faster builds"))
	})

	t.Run("no image and no date", func(t *testing.T) {
		gt.Equal(t, articles[3].ImageURL, "")
		gt.Equal(t, articles[3].Published, "2026-10-14 03:00:00")
	})

	t.Run("limit keeps the first entries", func(t *testing.T) {
		articles, err := client.FetchFeed(context.Background(), srv.URL, 2)
		gt.NoError(t, err)
		gt.A(t, articles).Length(2)
		gt.Equal(t, articles[1].Title, "Compose watch")
	})
}

func TestClient_FetchFeed_Errors(t *testing.T) {
	t.Run("HTTP error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := feed.New().FetchFeed(context.Background(), srv.URL, 10)
		gt.Error(t, err)
	})

	t.Run("not a feed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("this is not xml"))
		}))
		defer srv.Close()

		_, err := feed.New().FetchFeed(context.Background(), srv.URL, 10)
		gt.Error(t, err)
	})
}
