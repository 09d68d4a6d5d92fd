package usecase

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/domain/types"
	"github.com/m-mizutani/newsdesk/pkg/utils/pause"
)

// Publish sends generated posts to WordPress
type Publish struct {
	wordpress interfaces.WordPressClient
	ledger    interfaces.PublishLedger
	workspace interfaces.Workspace
	delay     pause.Range
	now       func() time.Time
}

// PublishOption is a functional option for Publish
type PublishOption func(*Publish)

// WithPublishDelay sets the delay before each post
func WithPublishDelay(d pause.Range) PublishOption {
	return func(uc *Publish) {
		uc.delay = d
	}
}

// WithPublishClock replaces the clock used for published_at
func WithPublishClock(now func() time.Time) PublishOption {
	return func(uc *Publish) {
		uc.now = now
	}
}

// NewPublish creates the publish step use case. A nil wordpress client makes
// every publish fail with ErrCredentialsMissing.
func NewPublish(
	wordpress interfaces.WordPressClient,
	ledger interfaces.PublishLedger,
	workspace interfaces.Workspace,
	opts ...PublishOption,
) *Publish {
	uc := &Publish{
		wordpress: wordpress,
		ledger:    ledger,
		workspace: workspace,
		delay:     pause.Between(2*time.Second, 5*time.Second),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Publish publishes every post of data/posts.json that is not in the ledger yet
func (uc *Publish) Publish(ctx context.Context) (*model.PublishReport, error) {
	logger := ctxlog.From(ctx)

	if uc.wordpress == nil {
		return nil, goerr.Wrap(ErrCredentialsMissing, "WordPress client is not configured")
	}

	posts, err := uc.workspace.LoadPosts(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load posts")
	}
	logger.Info("Found posts to publish", "count", len(posts))

	published, err := uc.ledger.PublishedIDs(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load published ledger")
	}

	report := &model.PublishReport{Published: []*model.Post{}}
	for _, post := range posts {
		if _, ok := published[post.ID]; ok {
			logger.Debug("Post already published", "id", post.ID)
			report.Skipped++
			continue
		}

		if err := uc.delay.Wait(ctx); err != nil {
			return nil, uc.interrupted(ctx, err, report.Published)
		}

		if err := uc.publishPost(ctx, post); err != nil {
			if ctx.Err() != nil {
				return nil, uc.interrupted(ctx, ctx.Err(), report.Published)
			}
			logger.Warn("Failed to publish post", "id", post.ID, "title", post.Title, "error", err)
			report.Failed++
			continue
		}

		logger.Info("Published post", "id", post.ID, "url", post.WordPressURL)
		report.Published = append(report.Published, post)
	}

	if err := uc.record(context.WithoutCancel(ctx), report.Published); err != nil {
		return nil, err
	}

	logger.Info("Published posts",
		"published", len(report.Published),
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}

func (uc *Publish) record(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if err := uc.ledger.Record(ctx, posts); err != nil {
		return goerr.Wrap(err, "failed to record published posts", goerr.V("count", len(posts)))
	}
	return nil
}

// interrupted records posts already live on WordPress, then wraps cause
func (uc *Publish) interrupted(ctx context.Context, cause error, published []*model.Post) error {
	if err := uc.record(context.WithoutCancel(ctx), published); err != nil {
		ctxlog.From(ctx).Error("Failed to record published posts after interruption", "error", err)
	}
	return goerr.Wrap(cause, "publish interrupted", goerr.V("published", len(published)))
}

func (uc *Publish) publishPost(ctx context.Context, post *model.Post) error {
	logger := ctxlog.From(ctx)

	req := &model.WordPressPost{
		Title:      post.Title,
		Content:    post.Content,
		Excerpt:    post.Excerpt,
		Status:     model.WordPressStatusPublish,
		Categories: []int64{},
		Tags:       []int64{},
	}

	if post.FeaturedImage != "" {
		image := uc.workspace.Abs(post.FeaturedImage)
		if _, err := os.Stat(image); err == nil {
			mediaID, err := uc.wordpress.UploadMedia(ctx, image)
			if err != nil {
				logger.Warn("Failed to upload featured image", "id", post.ID, "error", err)
			} else {
				req.FeaturedMedia = mediaID
			}
		}
	}

	if categoryID, err := uc.wordpress.EnsureCategory(ctx, post.Category); err != nil {
		logger.Warn("Failed to resolve category", "category", post.Category, "error", err)
	} else {
		req.Categories = append(req.Categories, categoryID)
	}

	for _, tag := range post.Tags {
		tagID, err := uc.wordpress.EnsureTag(ctx, tag)
		if err != nil {
			logger.Warn("Failed to resolve tag", "tag", tag, "error", err)
			continue
		}
		req.Tags = append(req.Tags, tagID)
	}

	created, err := uc.wordpress.CreatePost(ctx, req)
	if err != nil {
		return err
	}

	post.WordPressID = created.ID
	post.WordPressURL = created.Link
	post.PublishedAt = uc.now().Format(types.TimestampLayout)

	// The post is live from here on; a failed local write must not hide it from the ledger.
	if err := uc.workspace.SavePost(ctx, post); err != nil {
		logger.Warn("Failed to save published post", "id", post.ID, "error", err)
	}
	return nil
}

// Step returns the pipeline step for this use case
func (uc *Publish) Step() Step {
	return Step{
		Name: model.StepPublish,
		Run: func(ctx context.Context) (string, error) {
			report, err := uc.Publish(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d published, %d already published, %d failed",
				len(report.Published), report.Skipped, report.Failed), nil
		},
	}
}
