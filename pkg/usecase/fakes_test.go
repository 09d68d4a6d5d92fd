package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/infra/file"
)

type fakeFeeds struct {
	entries map[string][]*model.Article
	errs    map[string]error
	limits  []int
}

func (f *fakeFeeds) FetchFeed(ctx context.Context, url string, limit int) ([]*model.Article, error) {
	f.limits = append(f.limits, limit)
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	return f.entries[url], nil
}

type fakeWeb struct {
	listings  map[string][]*model.Article
	contents  map[string]string
	downloads []string
	failImage bool
}

func (f *fakeWeb) ScrapeListing(ctx context.Context, url string, limit int) ([]*model.Article, error) {
	found, ok := f.listings[url]
	if !ok {
		return nil, errors.New("listing not found")
	}
	return found, nil
}

func (f *fakeWeb) FetchContent(ctx context.Context, url string) (string, error) {
	content, ok := f.contents[url]
	if !ok {
		return "", errors.New("page not found")
	}
	return content, nil
}

func (f *fakeWeb) Download(ctx context.Context, url, dest string) (bool, error) {
	if f.failImage {
		return false, errors.New("image not found")
	}
	if _, err := os.Stat(dest); err == nil {
		return false, nil
	}
	f.downloads = append(f.downloads, url)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return false, err
	}
	return true, os.WriteFile(dest, []byte("image"), 0644)
}

type fakeWordPress struct {
	mu         sync.Mutex
	nextID     int64
	media      []string
	categories map[string]int64
	tags       map[string]int64
	posts      []*model.WordPressPost
	reject     map[string]bool // by title
	onCreate   func(count int)
}

func newFakeWordPress() *fakeWordPress {
	return &fakeWordPress{
		nextID:     100,
		categories: map[string]int64{},
		tags:       map[string]int64{},
		reject:     map[string]bool{},
	}
}

func (f *fakeWordPress) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeWordPress) UploadMedia(ctx context.Context, path string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.media = append(f.media, filepath.Base(path))
	return f.id(), nil
}

func (f *fakeWordPress) EnsureCategory(ctx context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(name)
	if id, ok := f.categories[key]; ok {
		return id, nil
	}
	f.categories[key] = f.id()
	return f.categories[key], nil
}

func (f *fakeWordPress) EnsureTag(ctx context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(name)
	if id, ok := f.tags[key]; ok {
		return id, nil
	}
	f.tags[key] = f.id()
	return f.tags[key], nil
}

func (f *fakeWordPress) CreatePost(ctx context.Context, post *model.WordPressPost) (*model.WordPressCreated, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reject[post.Title] {
		return nil, errors.New("rejected")
	}
	f.posts = append(f.posts, post)
	if f.onCreate != nil {
		f.onCreate(len(f.posts))
	}
	id := f.id()
	return &model.WordPressCreated{ID: id, Link: "https://blog.example.com/?p=" + post.Title}, nil
}

type fakeRepo struct {
	clean    bool
	messages []string
	pushed   int
	pushErr  error
}

func (f *fakeRepo) CommitAll(ctx context.Context, message string) (*model.CommitResult, error) {
	if f.clean {
		return &model.CommitResult{Committed: false}, nil
	}
	f.messages = append(f.messages, message)
	return &model.CommitResult{Committed: true, Hash: "0123456789abcdef", Message: message}, nil
}

func (f *fakeRepo) Push(ctx context.Context) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushed++
	return nil
}

func newWorkspace(t *testing.T) *file.Workspace {
	t.Helper()
	ws := file.NewWorkspace(t.TempDir())
	gt.NoError(t, ws.Prepare(context.Background()))
	return ws
}
