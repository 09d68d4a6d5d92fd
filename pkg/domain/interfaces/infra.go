package interfaces

import (
	"context"

	"github.com/m-mizutani/newsdesk/pkg/domain/model"
)

// FeedClient reads articles from RSS/Atom feeds
type FeedClient interface {
	// FetchFeed returns the latest entries of the feed at url, newest first
	FetchFeed(ctx context.Context, url string, limit int) ([]*model.Article, error)
}

// WebClient reads articles and article bodies from HTML pages
type WebClient interface {
	// ScrapeListing extracts article teasers from a blog index page
	ScrapeListing(ctx context.Context, url string, limit int) ([]*model.Article, error)

	// FetchContent fetches an article page and returns its main content as Markdown
	FetchContent(ctx context.Context, url string) (string, error)

	// Download stores the resource at url into dest. It reports false without
	// a request when dest already exists.
	Download(ctx context.Context, url, dest string) (bool, error)
}

// WordPressClient publishes to a WordPress REST API
type WordPressClient interface {
	// UploadMedia uploads a local image file and returns its media ID
	UploadMedia(ctx context.Context, path string) (int64, error)

	// EnsureCategory returns the ID of the named category, creating it when missing
	EnsureCategory(ctx context.Context, name string) (int64, error)

	// EnsureTag returns the ID of the named tag, creating it when missing
	EnsureTag(ctx context.Context, name string) (int64, error)

	// CreatePost creates a post and returns its ID and public link
	CreatePost(ctx context.Context, post *model.WordPressPost) (*model.WordPressCreated, error)
}

// GitRepository records workspace changes in version control
type GitRepository interface {
	// CommitAll stages every change in the working tree and commits it.
	// A clean working tree yields Committed=false and no commit.
	CommitAll(ctx context.Context, message string) (*model.CommitResult, error)

	// Push pushes the current branch to the configured remote
	Push(ctx context.Context) error
}

// PublishLedger remembers which posts have already been published
type PublishLedger interface {
	// PublishedIDs returns the set of post IDs already published
	PublishedIDs(ctx context.Context) (map[string]struct{}, error)

	// Record stores newly published posts
	Record(ctx context.Context, posts []*model.Post) error
}

// RunHook is invoked after each pipeline run finishes
type RunHook interface {
	AfterRun(ctx context.Context, result *model.RunResult) error
}
