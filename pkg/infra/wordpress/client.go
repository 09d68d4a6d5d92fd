package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/domain/types"
)

const (
	apiSuffix         = "/wp-json"
	maxErrorBodyBytes = 4096
)

// NormalizeAPIURL appends /wp-json unless url already ends with it
func NormalizeAPIURL(apiURL string) string {
	if strings.HasSuffix(apiURL, apiSuffix) {
		return apiURL
	}
	return strings.TrimRight(apiURL, "/") + apiSuffix
}

// Client talks to the WordPress REST API with HTTP basic authentication
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

var _ interfaces.WordPressClient = (*Client)(nil)

// Option is a functional option for Client configuration
type Option func(*Client)

// WithHTTPClient sets the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(x *Client) {
		x.httpClient = c
	}
}

// New creates a new WordPress client. apiURL is normalized with NormalizeAPIURL.
func New(apiURL, username, password string, opts ...Option) (*Client, error) {
	if apiURL == "" || username == "" || password == "" {
		return nil, goerr.New("WordPress API URL, username and password are required")
	}
	if _, err := url.ParseRequestURI(apiURL); err != nil {
		return nil, goerr.Wrap(err, "invalid WordPress API URL")
	}

	c := &Client{
		baseURL:    NormalizeAPIURL(apiURL),
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// APIURL returns the normalized REST API base URL
func (c *Client) APIURL() string {
	return c.baseURL
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// do sends req with credentials and decodes a 200/201 JSON response into out
func (c *Client) do(req *http.Request, out any) error {
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to send WordPress request",
			goerr.V("method", req.Method),
			goerr.V("path", req.URL.Path),
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return goerr.New("WordPress request failed",
			goerr.V("method", req.Method),
			goerr.V("path", req.URL.Path),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)),
		)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode WordPress response", goerr.V("path", req.URL.Path))
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return goerr.Wrap(err, "failed to encode WordPress request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(err, "failed to create WordPress request")
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// UploadMedia uploads a local image file and returns its media ID
func (c *Client) UploadMedia(ctx context.Context, path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to read media file", goerr.V("path", path))
	}

	filename := filepath.Base(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/wp/v2/media"), bytes.NewReader(data))
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create media request")
	}
	req.Header.Set("Content-Disposition", "attachment; filename="+filename)
	req.Header.Set("Content-Type", mediaType(filename))

	var created model.WordPressCreated
	if err := c.do(req, &created); err != nil {
		return 0, goerr.Wrap(err, "failed to upload media", goerr.V("file", filename))
	}
	return created.ID, nil
}

// mediaType derives the content type from the file extension, image/jpeg by default
func mediaType(filename string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); strings.HasPrefix(t, "image/") {
		return t
	}
	return "image/jpeg"
}

// EnsureCategory returns the ID of the named category, creating it capitalized when missing
func (c *Client) EnsureCategory(ctx context.Context, name string) (int64, error) {
	return c.ensureTerm(ctx, "/wp/v2/categories", name, types.Capitalize(name))
}

// EnsureTag returns the ID of the named tag, creating it lower-cased when missing
func (c *Client) EnsureTag(ctx context.Context, name string) (int64, error) {
	return c.ensureTerm(ctx, "/wp/v2/tags", name, strings.ToLower(name))
}

// ensureTerm searches path for a case-insensitive exact name match and creates
// the term with createName when none exists
func (c *Client) ensureTerm(ctx context.Context, path, name, createName string) (int64, error) {
	query := url.Values{"search": {name}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path)+"?"+query.Encode(), nil)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create term search request")
	}

	var terms []model.WordPressTerm
	if err := c.do(req, &terms); err != nil {
		return 0, goerr.Wrap(err, "failed to search terms", goerr.V("name", name))
	}
	for _, term := range terms {
		if strings.EqualFold(term.Name, name) {
			return term.ID, nil
		}
	}

	var created model.WordPressTerm
	if err := c.postJSON(ctx, path, map[string]string{"name": createName}, &created); err != nil {
		return 0, goerr.Wrap(err, "failed to create term", goerr.V("name", createName))
	}
	return created.ID, nil
}

// CreatePost creates a post and returns its ID and public link.
// post.Content is Markdown and is rendered to HTML before sending.
func (c *Client) CreatePost(ctx context.Context, post *model.WordPressPost) (*model.WordPressCreated, error) {
	html, err := RenderMarkdown(post.Content)
	if err != nil {
		return nil, err
	}
	payload := *post
	payload.Content = html

	var created model.WordPressCreated
	if err := c.postJSON(ctx, "/wp/v2/posts", &payload, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create post", goerr.V("title", post.Title))
	}
	return &created, nil
}
