package feed

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/domain/types"
	"github.com/mmcdole/gofeed"
)

const maxFeedSize = 10 * 1024 * 1024

// Client reads RSS and Atom feeds
type Client struct {
	httpClient *http.Client
	userAgent  string
	now        func() time.Time
}

var _ interfaces.FeedClient = (*Client)(nil)

// Option is a functional option for Client configuration
type Option func(*Client)

// WithHTTPClient sets the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(x *Client) {
		x.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(x *Client) {
		x.userAgent = ua
	}
}

// WithClock sets the clock used when an entry has no published date
func WithClock(now func() time.Time) Option {
	return func(x *Client) {
		x.now = now
	}
}

// New creates a new feed client
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  "newsdesk/" + types.Version,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchFeed downloads and parses the feed at url and returns up to limit entries
// in feed order.
func (c *Client) FetchFeed(ctx context.Context, url string, limit int) ([]*model.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create feed request", goerr.V("url", url))
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch feed", goerr.V("url", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status code",
			goerr.V("url", url),
			goerr.V("status", resp.StatusCode),
		)
	}

	parsed, err := gofeed.NewParser().Parse(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse feed", goerr.V("url", url))
	}

	items := parsed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	articles := make([]*model.Article, 0, len(items))
	for _, item := range items {
		articles = append(articles, c.toArticle(item, url))
	}
	return articles, nil
}

func (c *Client) toArticle(item *gofeed.Item, source string) *model.Article {
	published := item.Published
	if published == "" {
		published = c.now().Format(types.TimestampLayout)
	}

	return &model.Article{
		Title:     strings.TrimSpace(item.Title),
		Link:      item.Link,
		Published: published,
		Summary:   item.Description,
		ImageURL:  imageOf(item),
		Source:    source,
	}
}

// imageOf picks the entry image: media:content first, then the first <img> in
// the content, then the first <img> in the summary.
func imageOf(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, ext := range media["content"] {
			if u := ext.Attrs["url"]; u != "" {
				return u
			}
		}
	}

	if src := firstImage(item.Content); src != "" {
		return src
	}
	return firstImage(item.Description)
}

func firstImage(fragment string) string {
	if !strings.Contains(fragment, "<img") {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return src
}
