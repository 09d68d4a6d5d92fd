package git

import (
	"context"
	"errors"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
)

// config holds internal repository configuration
type config struct {
	authorName  string
	authorEmail string
	remote      string
	username    string
	token       string
	now         func() time.Time
}

// Option is a functional option for Repository configuration
type Option func(*config)

// WithAuthor sets the commit author
func WithAuthor(name, email string) Option {
	return func(c *config) {
		c.authorName = name
		c.authorEmail = email
	}
}

// WithRemote sets the remote name used by Push
func WithRemote(name string) Option {
	return func(c *config) {
		c.remote = name
	}
}

// WithToken sets HTTP basic auth credentials used by Push
func WithToken(username, token string) Option {
	return func(c *config) {
		c.username = username
		c.token = token
	}
}

// WithClock sets the clock used for commit signatures
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// Repository commits workspace changes with go-git
type Repository struct {
	repo *gogit.Repository
	cfg  *config
}

var _ interfaces.GitRepository = (*Repository)(nil)

// Open opens the repository containing dir, searching parent directories
func Open(dir string, opts ...Option) (*Repository, error) {
	cfg := &config{
		authorName:  "newsdesk-bot",
		authorEmail: "newsdesk-bot@users.noreply.github.com",
		remote:      gogit.DefaultRemoteName,
		username:    "x-access-token",
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open git repository", goerr.V("dir", dir))
	}

	return &Repository{repo: repo, cfg: cfg}, nil
}

// CommitAll stages every change, deletions included, and commits it.
// A clean working tree yields Committed=false.
func (r *Repository) CommitAll(ctx context.Context, message string) (*model.CommitResult, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get worktree")
	}

	status, err := wt.Status()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get worktree status")
	}
	if status.IsClean() {
		return &model.CommitResult{Committed: false}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "commit cancelled")
	}

	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return nil, goerr.Wrap(err, "failed to stage changes")
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  r.cfg.authorName,
			Email: r.cfg.authorEmail,
			When:  r.cfg.now(),
		},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to commit changes")
	}

	return &model.CommitResult{
		Committed: true,
		Hash:      hash.String(),
		Message:   message,
	}, nil
}

// Push pushes to the configured remote. Nothing to push is not an error.
func (r *Repository) Push(ctx context.Context) error {
	opts := &gogit.PushOptions{RemoteName: r.cfg.remote}
	if r.cfg.token != "" {
		opts.Auth = r.auth()
	}

	if err := r.repo.PushContext(ctx, opts); err != nil {
		if errors.Is(err, gogit.NoErrAlreadyUpToDate) {
			return nil
		}
		return goerr.Wrap(err, "failed to push", goerr.V("remote", r.cfg.remote))
	}
	return nil
}

func (r *Repository) auth() transport.AuthMethod {
	return &githttp.BasicAuth{Username: r.cfg.username, Password: r.cfg.token}
}
