package web

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/domain/types"
)

const (
	listingItemSelector    = "article, .post, .blog-post, .entry"
	listingTitleSelector   = "h1, h2, h3, .title, .entry-title"
	listingSummarySelector = "p, .summary, .excerpt, .entry-summary"
)

// ScrapeListing extracts article teasers from a blog index page.
// The first limit candidate elements are inspected; candidates without a
// title or link are dropped. Relative links and images are resolved against url.
func (c *Client) ScrapeListing(ctx context.Context, pageURL string, limit int) ([]*model.Article, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid page URL", goerr.V("url", pageURL))
	}

	doc, err := c.document(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	published := c.now().Format(types.TimestampLayout)
	var articles []*model.Article

	doc.Find(listingItemSelector).EachWithBreak(func(i int, item *goquery.Selection) bool {
		if limit > 0 && i >= limit {
			return false
		}

		title := strings.TrimSpace(item.Find(listingTitleSelector).First().Text())
		link, _ := item.Find("a").First().Attr("href")
		link = strings.TrimSpace(link)
		if title == "" || link == "" {
			return true
		}

		article := &model.Article{
			Title:     title,
			Link:      resolve(base, link),
			Published: published,
			Summary:   strings.TrimSpace(item.Find(listingSummarySelector).First().Text()),
			Source:    pageURL,
		}
		if src, ok := item.Find("img").First().Attr("src"); ok && src != "" {
			article.ImageURL = resolve(base, src)
		}

		articles = append(articles, article)
		return true
	})

	return articles, nil
}

// document fetches and parses an HTML page
func (c *Client) document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	resp, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse HTML", goerr.V("url", pageURL))
	}
	return doc, nil
}

// resolve makes ref absolute against base; absolute refs are returned unchanged
func resolve(base *url.URL, ref string) string {
	if isAbsolute(ref) {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
