package usecase

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/utils/pause"
)

// DefaultEntriesPerSource is the number of entries read from each source
const DefaultEntriesPerSource = 10

// Fetch collects articles from every source of the catalog into the workspace
type Fetch struct {
	catalog    *model.Catalog
	feeds      interfaces.FeedClient
	web        interfaces.WebClient
	workspace  interfaces.Workspace
	limit      int
	delay      pause.Range
	imageDelay pause.Range
}

// FetchOption is a functional option for Fetch
type FetchOption func(*Fetch)

// WithFetchDelay sets the delay before each source and after each image download
func WithFetchDelay(source, image pause.Range) FetchOption {
	return func(uc *Fetch) {
		uc.delay = source
		uc.imageDelay = image
	}
}

// WithEntriesPerSource sets how many entries are read from each source
func WithEntriesPerSource(n int) FetchOption {
	return func(uc *Fetch) {
		uc.limit = n
	}
}

// NewFetch creates the fetch step use case
func NewFetch(
	catalog *model.Catalog,
	feeds interfaces.FeedClient,
	web interfaces.WebClient,
	workspace interfaces.Workspace,
	opts ...FetchOption,
) *Fetch {
	uc := &Fetch{
		catalog:    catalog,
		feeds:      feeds,
		web:        web,
		workspace:  workspace,
		limit:      DefaultEntriesPerSource,
		delay:      pause.Between(time.Second, 3*time.Second),
		imageDelay: pause.Fixed(500 * time.Millisecond),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Fetch reads all sources and writes data/{category}_news.json and data/all_news.json.
// A failing source is logged and contributes no articles.
func (uc *Fetch) Fetch(ctx context.Context) (*model.FetchReport, error) {
	logger := ctxlog.From(ctx)

	report := &model.FetchReport{Counts: make(map[string]int)}
	all := make(map[string][]*model.Article, len(uc.catalog.Categories))

	for _, category := range uc.catalog.Categories {
		articles := []*model.Article{}

		for _, source := range category.Sources {
			if err := uc.delay.Wait(ctx); err != nil {
				return nil, goerr.Wrap(err, "fetch interrupted")
			}

			found, err := uc.read(ctx, source)
			if err != nil {
				if ctx.Err() != nil {
					return nil, goerr.Wrap(ctx.Err(), "fetch interrupted")
				}
				logger.Warn("Failed to fetch source",
					"category", category.Name,
					"type", source.Type,
					"url", source.URL,
					"error", err,
				)
				continue
			}

			for _, article := range found {
				if article.ImageURL == "" {
					continue
				}
				stored, err := uc.storeImage(ctx, article)
				if err != nil {
					if ctx.Err() != nil {
						return nil, goerr.Wrap(ctx.Err(), "fetch interrupted")
					}
					logger.Warn("Failed to download image",
						"url", article.ImageURL,
						"error", err,
					)
					continue
				}
				if stored {
					report.Images++
				}
			}

			logger.Debug("Fetched source",
				"category", category.Name,
				"url", source.URL,
				"count", len(found),
			)
			articles = append(articles, found...)
		}

		if err := uc.workspace.SaveCategoryArticles(ctx, category.Name, articles); err != nil {
			return nil, goerr.Wrap(err, "failed to save category news", goerr.V("category", category.Name))
		}
		all[category.Name] = articles
		report.Counts[category.Name] = len(articles)
	}

	if err := uc.workspace.SaveAllArticles(ctx, all); err != nil {
		return nil, goerr.Wrap(err, "failed to save all news")
	}

	logger.Info("Fetched and saved news articles", "total", report.Total(), "images", report.Images)
	return report, nil
}

func (uc *Fetch) read(ctx context.Context, source model.Source) ([]*model.Article, error) {
	switch source.Type {
	case model.SourceTypeRSS:
		return uc.feeds.FetchFeed(ctx, source.URL, uc.limit)
	case model.SourceTypeURL:
		return uc.web.ScrapeListing(ctx, source.URL, uc.limit)
	default:
		return nil, goerr.New("unknown source type", goerr.V("type", source.Type))
	}
}

// storeImage downloads the article image and sets LocalImage. It reports
// whether the image is present locally.
func (uc *Fetch) storeImage(ctx context.Context, article *model.Article) (bool, error) {
	ref := uc.workspace.ImagePath(ImageFileName(article.Title, article.ImageURL))

	downloaded, err := uc.web.Download(ctx, article.ImageURL, uc.workspace.Abs(ref))
	if err != nil {
		return false, err
	}
	article.LocalImage = ref

	if downloaded {
		if err := uc.imageDelay.Wait(ctx); err != nil {
			return true, goerr.Wrap(err, "fetch interrupted")
		}
	}
	return true, nil
}

// ImageFileName derives a stable local file name for an article image:
// md5(title + "_" + url) followed by the URL extension, or .jpg when the URL
// has none or it is longer than 5 characters.
func ImageFileName(title, imageURL string) string {
	sum := md5.Sum([]byte(title + "_" + imageURL))
	return hex.EncodeToString(sum[:]) + imageExt(imageURL)
}

func imageExt(imageURL string) string {
	raw, _, _ := strings.Cut(imageURL, "?")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}

	ext := path.Ext(raw)
	if strings.Contains(ext, "/") || ext == "" || len(ext) > 5 {
		return ".jpg"
	}
	return ext
}

// Step returns the pipeline step for this use case
func (uc *Fetch) Step() Step {
	return Step{
		Name: model.StepFetch,
		Run: func(ctx context.Context) (string, error) {
			report, err := uc.Fetch(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d articles, %d images", report.Total(), report.Images), nil
		},
	}
}
