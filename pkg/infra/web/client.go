package web

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
)

// DefaultUserAgent is sent on every outbound page request. Several blog hosts
// reject requests without a browser-like agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const maxPageSize = 10 * 1024 * 1024

// config holds internal web client configuration
type config struct {
	httpClient *http.Client
	userAgent  string
	now        func() time.Time
}

// Option is a functional option for Client configuration
type Option func(*config)

// WithHTTPClient sets the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) {
		cfg.httpClient = c
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(cfg *config) {
		cfg.userAgent = ua
	}
}

// WithClock sets the clock used for the published time of scraped articles
func WithClock(now func() time.Time) Option {
	return func(cfg *config) {
		cfg.now = now
	}
}

// Client fetches and parses HTML pages
type Client struct {
	httpClient *http.Client
	userAgent  string
	now        func() time.Time
}

var _ interfaces.WebClient = (*Client)(nil)

// New creates a new web client
func New(opts ...Option) *Client {
	cfg := &config{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  DefaultUserAgent,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		httpClient: cfg.httpClient,
		userAgent:  cfg.userAgent,
		now:        cfg.now,
	}
}

// get issues a GET request and returns the response on HTTP 200
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("url", url))
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send request", goerr.V("url", url))
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, goerr.New("unexpected status code",
			goerr.V("url", url),
			goerr.V("status", resp.StatusCode),
		)
	}

	return resp, nil
}

// Download stores the resource at url into dest. An existing dest is kept as is
// and reported as not downloaded.
func (c *Client) Download(ctx context.Context, url, dest string) (bool, error) {
	if _, err := os.Stat(dest); err == nil {
		return false, nil
	}

	resp, err := c.get(ctx, url)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return false, goerr.Wrap(err, "failed to create download directory", goerr.V("dest", dest))
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return false, goerr.Wrap(err, "failed to create temporary file", goerr.V("dest", dest))
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, io.LimitReader(resp.Body, maxPageSize)); err != nil {
		tmp.Close()
		return false, goerr.Wrap(err, "failed to write downloaded content", goerr.V("url", url))
	}
	if err := tmp.Close(); err != nil {
		return false, goerr.Wrap(err, "failed to close downloaded file", goerr.V("dest", dest))
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return false, goerr.Wrap(err, "failed to set file permissions", goerr.V("dest", dest))
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return false, goerr.Wrap(err, "failed to move downloaded file", goerr.V("dest", dest))
	}
	return true, nil
}

// isAbsolute reports whether ref carries an http(s) scheme
func isAbsolute(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
