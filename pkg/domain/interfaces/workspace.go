package interfaces

import (
	"context"

	"github.com/m-mizutani/newsdesk/pkg/domain/model"
)

// Workspace persists pipeline artifacts between steps
type Workspace interface {
	// Prepare creates the directory layout
	Prepare(ctx context.Context) error

	// Root returns the workspace directory
	Root() string

	// ImagePath returns the workspace-relative path for an image file name
	ImagePath(name string) string

	// Abs resolves a workspace-relative path
	Abs(rel string) string

	SaveCategoryArticles(ctx context.Context, category string, articles []*model.Article) error
	LoadCategoryArticles(ctx context.Context, category string) ([]*model.Article, error)
	SaveAllArticles(ctx context.Context, all map[string][]*model.Article) error

	SavePost(ctx context.Context, post *model.Post) error
	SavePosts(ctx context.Context, posts []*model.Post) error
	LoadPosts(ctx context.Context) ([]*model.Post, error)

	// ArtifactPaths returns the files that summarize the latest run
	ArtifactPaths() []string
}
