package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/domain/types"
	"github.com/m-mizutani/newsdesk/pkg/utils/pause"
)

// DefaultPostsPerCategory is the number of articles turned into posts per category
const DefaultPostsPerCategory = 3

var baseTags = []string{"container", "cloud-native"}

var categoryTags = map[string][]string{
	"docker":     {"containers", "dockerhub", "docker-compose"},
	"kubernetes": {"k8s", "cncf", "cloud-native"},
}

// Generate turns fetched articles into blog posts
type Generate struct {
	catalog   *model.Catalog
	web       interfaces.WebClient
	workspace interfaces.Workspace
	excerpter *Excerpter
	perCat    int
	delay     pause.Range
	now       func() time.Time
}

// GenerateOption is a functional option for Generate
type GenerateOption func(*Generate)

// WithExcerpter enables LLM written excerpts
func WithExcerpter(x *Excerpter) GenerateOption {
	return func(uc *Generate) {
		uc.excerpter = x
	}
}

// WithPostsPerCategory sets how many articles of each category become posts
func WithPostsPerCategory(n int) GenerateOption {
	return func(uc *Generate) {
		if n > 0 {
			uc.perCat = n
		}
	}
}

// WithGenerateDelay sets the delay before each post
func WithGenerateDelay(d pause.Range) GenerateOption {
	return func(uc *Generate) {
		uc.delay = d
	}
}

// WithGenerateClock replaces the clock used for titles, IDs and timestamps
func WithGenerateClock(now func() time.Time) GenerateOption {
	return func(uc *Generate) {
		uc.now = now
	}
}

// NewGenerate creates the generate step use case
func NewGenerate(
	catalog *model.Catalog,
	web interfaces.WebClient,
	workspace interfaces.Workspace,
	opts ...GenerateOption,
) *Generate {
	uc := &Generate{
		catalog:   catalog,
		web:       web,
		workspace: workspace,
		perCat:    DefaultPostsPerCategory,
		delay:     pause.Between(500*time.Millisecond, 1500*time.Millisecond),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Generate creates posts from the top articles of each category and writes
// data/posts/{id}.json and data/posts.json.
func (uc *Generate) Generate(ctx context.Context) (*model.GenerateReport, error) {
	logger := ctxlog.From(ctx)
	report := &model.GenerateReport{Posts: []*model.Post{}}

	for _, category := range uc.catalog.Names() {
		articles, err := uc.workspace.LoadCategoryArticles(ctx, category)
		if err != nil {
			logger.Warn("Failed to load category news", "category", category, "error", err)
			report.Skipped = append(report.Skipped, category)
			continue
		}

		logger.Info("Generating posts for category", "category", category, "articles", len(articles))

		for i, article := range articles[:min(uc.perCat, len(articles))] {
			if err := uc.delay.Wait(ctx); err != nil {
				return nil, goerr.Wrap(err, "generate interrupted")
			}

			post := uc.newPost(ctx, category, i, article)
			if err := uc.workspace.SavePost(ctx, post); err != nil {
				return nil, goerr.Wrap(err, "failed to save post", goerr.V("id", post.ID))
			}

			logger.Info("Created post", "id", post.ID, "title", post.Title)
			report.Posts = append(report.Posts, post)
		}
	}

	if err := uc.workspace.SavePosts(ctx, report.Posts); err != nil {
		return nil, goerr.Wrap(err, "failed to save posts")
	}

	logger.Info("Generated posts", "total", len(report.Posts), "skipped_categories", report.Skipped)
	return report, nil
}

func (uc *Generate) newPost(ctx context.Context, category string, index int, article *model.Article) *model.Post {
	logger := ctxlog.From(ctx)
	now := uc.now()

	body, err := uc.web.FetchContent(ctx, article.Link)
	if err != nil || body == "" {
		logger.Warn("Failed to fetch article content, using summary",
			"url", article.Link,
			"error", err,
		)
		body = article.Summary
	}

	tags := PostTags(category)

	excerpt := article.Summary
	if uc.excerpter != nil {
		written, err := uc.excerpter.Excerpt(ctx, category, article, body)
		if err != nil {
			logger.Warn("Failed to write excerpt, using summary", "url", article.Link, "error", err)
		} else {
			excerpt = written
		}
	}

	return &model.Post{
		ID:               fmt.Sprintf("%s_%d_%s", category, index, now.Format(types.PostIDLayout)),
		Title:            PostTitle(article.Title, category, now),
		Content:          PostContent(body, article, category, tags),
		Excerpt:          excerpt,
		FeaturedImage:    article.LocalImage,
		FeaturedImageURL: article.ImageURL,
		Category:         category,
		Tags:             tags,
		OriginalURL:      article.Link,
		CreatedAt:        now.Format(types.TimestampLayout),
	}
}

// PostTags returns the tags of a post in category, without duplicates
func PostTags(category string) []string {
	tags := append([]string{category}, baseTags...)
	tags = append(tags, categoryTags[category]...)

	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out
}

// PostTitle prefixes the category unless the title mentions it and appends the date
func PostTitle(title, category string, now time.Time) string {
	if !strings.Contains(strings.ToLower(title), strings.ToLower(category)) {
		title = types.Capitalize(category) + ": " + title
	}
	return title + " - " + now.Format(types.TitleDateLayout)
}

// PostContent appends attribution, category and tags to the article body
func PostContent(body string, article *model.Article, category string, tags []string) string {
	var sb strings.Builder
	sb.WriteString(body)
	fmt.Fprintf(&sb, "\n\n---\n\nSource: [%s](%s)\n", article.Source, article.Link)
	fmt.Fprintf(&sb, "\n\nCategory: %s\n", types.Capitalize(category))
	fmt.Fprintf(&sb, "Tags: %s\n", strings.Join(tags, ", "))
	return sb.String()
}

// Step returns the pipeline step for this use case
func (uc *Generate) Step() Step {
	return Step{
		Name: model.StepGenerate,
		Run: func(ctx context.Context) (string, error) {
			report, err := uc.Generate(ctx)
			if err != nil {
				return "", err
			}
			summary := fmt.Sprintf("%d posts", len(report.Posts))
			if len(report.Skipped) > 0 {
				summary += fmt.Sprintf(", skipped %s", strings.Join(report.Skipped, ", "))
			}
			return summary, nil
		},
	}
}
