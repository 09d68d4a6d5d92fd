package wordpress

import (
	"bytes"

	"github.com/m-mizutani/goerr/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// RenderMarkdown converts post Markdown to the HTML stored by WordPress.
// Raw HTML kept by the Markdown converter (e.g. embedded iframes) passes through.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", goerr.Wrap(err, "failed to render Markdown")
	}
	return buf.String(), nil
}
