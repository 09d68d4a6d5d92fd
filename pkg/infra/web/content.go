package web

import (
	"context"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/m-mizutani/goerr/v2"
)

// Page chrome dropped before the main content is located
const noiseSelector = "nav, header, footer, aside, .sidebar, .comments, .related-posts, .advertisement, script, style"

// Candidates for the main content node, in priority order
var contentSelectors = []string{
	"article",
	".post-content",
	".entry-content",
	".content",
	"main",
	".post-body",
}

// FetchContent fetches an article page and returns its main content as Markdown.
// Blank lines are removed and trailing whitespace trimmed; an empty string means
// the page had no usable text.
func (c *Client) FetchContent(ctx context.Context, pageURL string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", goerr.Wrap(err, "invalid article URL", goerr.V("url", pageURL))
	}

	doc, err := c.document(ctx, pageURL)
	if err != nil {
		return "", err
	}

	doc.Find(noiseSelector).Remove()

	content := mainContent(doc)
	if content.Length() == 0 {
		return "", goerr.New("no content found in page", goerr.V("url", pageURL))
	}

	converter := md.NewConverter(base.Host, true, &md.Options{
		GetAbsoluteURL: func(_ *goquery.Selection, rawURL string, _ string) string {
			rawURL = strings.TrimSpace(rawURL)
			if rawURL == "" || strings.HasPrefix(rawURL, "data:") {
				return rawURL
			}
			return resolve(base, rawURL)
		},
	})
	return tidyMarkdown(converter.Convert(content)), nil
}

func mainContent(doc *goquery.Document) *goquery.Selection {
	for _, sel := range contentSelectors {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			return found
		}
	}
	return doc.Find("body").First()
}

// tidyMarkdown trims trailing whitespace and removes blank lines
func tidyMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, strings.TrimRight(line, " \t\r"))
	}
	return strings.Join(kept, "\n")
}
