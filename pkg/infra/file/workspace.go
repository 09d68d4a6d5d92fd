package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
)

const (
	dataDir   = "data"
	imagesDir = "images"
	postsDir  = "posts"

	allNewsFile   = "all_news.json"
	postsFile     = "posts.json"
	publishedFile = "published_posts.json"
)

// Workspace stores pipeline artifacts as indented JSON files under <root>/data
type Workspace struct {
	root string
}

var _ interfaces.Workspace = (*Workspace)(nil)

// NewWorkspace creates a Workspace rooted at dir
func NewWorkspace(dir string) *Workspace {
	return &Workspace{root: dir}
}

// Root returns the workspace directory
func (w *Workspace) Root() string {
	return w.root
}

func (w *Workspace) dataPath(elem ...string) string {
	return filepath.Join(append([]string{w.root, dataDir}, elem...)...)
}

// Prepare creates data/, data/images/ and data/posts/
func (w *Workspace) Prepare(ctx context.Context) error {
	for _, dir := range []string{w.dataPath(), w.dataPath(imagesDir), w.dataPath(postsDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return goerr.Wrap(err, "failed to create workspace directory", goerr.V("dir", dir))
		}
	}
	return nil
}

// ImagePath returns the workspace-relative path data/images/<name>, as stored in articles
func (w *Workspace) ImagePath(name string) string {
	return path.Join(dataDir, imagesDir, name)
}

// Abs resolves a workspace-relative path
func (w *Workspace) Abs(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(w.root, filepath.FromSlash(rel))
}

// CategoryNewsPath returns data/<category>_news.json
func (w *Workspace) CategoryNewsPath(category string) string {
	return w.dataPath(category + "_news.json")
}

// PostPath returns data/posts/<id>.json
func (w *Workspace) PostPath(id string) string {
	return w.dataPath(postsDir, id+".json")
}

// PublishedPath returns data/published_posts.json
func (w *Workspace) PublishedPath() string {
	return w.dataPath(publishedFile)
}

// SaveCategoryArticles writes data/<category>_news.json
func (w *Workspace) SaveCategoryArticles(ctx context.Context, category string, articles []*model.Article) error {
	if articles == nil {
		articles = []*model.Article{}
	}
	return writeJSON(w.CategoryNewsPath(category), articles)
}

// LoadCategoryArticles reads data/<category>_news.json
func (w *Workspace) LoadCategoryArticles(ctx context.Context, category string) ([]*model.Article, error) {
	var articles []*model.Article
	if err := readJSON(w.CategoryNewsPath(category), &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// SaveAllArticles writes data/all_news.json
func (w *Workspace) SaveAllArticles(ctx context.Context, all map[string][]*model.Article) error {
	return writeJSON(w.dataPath(allNewsFile), all)
}

// SavePost writes data/posts/<id>.json
func (w *Workspace) SavePost(ctx context.Context, post *model.Post) error {
	if post.ID == "" {
		return goerr.New("post ID is empty", goerr.V("title", post.Title))
	}
	return writeJSON(w.PostPath(post.ID), post)
}

// SavePosts writes data/posts.json
func (w *Workspace) SavePosts(ctx context.Context, posts []*model.Post) error {
	if posts == nil {
		posts = []*model.Post{}
	}
	return writeJSON(w.dataPath(postsFile), posts)
}

// LoadPosts reads data/posts.json
func (w *Workspace) LoadPosts(ctx context.Context) ([]*model.Post, error) {
	var posts []*model.Post
	if err := readJSON(w.dataPath(postsFile), &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ArtifactPaths returns the summary files that exist after a run
func (w *Workspace) ArtifactPaths() []string {
	var paths []string
	for _, p := range []string{w.dataPath(allNewsFile), w.dataPath(postsFile), w.PublishedPath()} {
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	return paths
}

// Ledger keeps published posts in data/published_posts.json, newest first
type Ledger struct {
	path string
}

var _ interfaces.PublishLedger = (*Ledger)(nil)

// NewLedger creates a file ledger for the workspace
func NewLedger(ws *Workspace) *Ledger {
	return &Ledger{path: ws.PublishedPath()}
}

func (l *Ledger) load() ([]*model.Post, error) {
	var posts []*model.Post
	if err := readJSON(l.path, &posts); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return posts, nil
}

// PublishedIDs returns IDs recorded in the ledger. A missing file is an empty ledger.
func (l *Ledger) PublishedIDs(ctx context.Context) (map[string]struct{}, error) {
	posts, err := l.load()
	if err != nil {
		return nil, err
	}

	ids := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		ids[p.ID] = struct{}{}
	}
	return ids, nil
}

// Record prepends posts to the ledger
func (l *Ledger) Record(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	existing, err := l.load()
	if err != nil {
		return goerr.Wrap(err, "failed to read existing published posts")
	}

	merged := make([]*model.Post, 0, len(posts)+len(existing))
	merged = append(merged, posts...)
	merged = append(merged, existing...)
	return writeJSON(l.path, merged)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode JSON", goerr.V("path", path))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return goerr.Wrap(err, "failed to create parent directory", goerr.V("path", path))
	}

	// Write to a temp file and rename it into place
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary file", goerr.V("path", path))
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return goerr.Wrap(err, "failed to write file", goerr.V("path", path))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close file", goerr.V("path", path))
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return goerr.Wrap(err, "failed to set file permissions", goerr.V("path", path))
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return goerr.Wrap(err, "failed to move file into place", goerr.V("path", path))
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return goerr.Wrap(err, "failed to read file", goerr.V("path", path))
	}
	if err := json.Unmarshal(data, v); err != nil {
		return goerr.Wrap(err, "failed to decode JSON", goerr.V("path", path))
	}
	return nil
}
