package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/domain/types"
)

// CommitMessagePrefix starts every automatic commit message
const CommitMessagePrefix = "Auto-update news and posts: "

// Commit records workspace changes in git
type Commit struct {
	repo interfaces.GitRepository
	push bool
	now  func() time.Time
}

// CommitOption is a functional option for Commit
type CommitOption func(*Commit)

// WithPush pushes after a successful commit
func WithPush(push bool) CommitOption {
	return func(uc *Commit) {
		uc.push = push
	}
}

// WithCommitClock replaces the clock used in commit messages
func WithCommitClock(now func() time.Time) CommitOption {
	return func(uc *Commit) {
		uc.now = now
	}
}

// NewCommit creates the commit step use case
func NewCommit(repo interfaces.GitRepository, opts ...CommitOption) *Commit {
	uc := &Commit{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// CommitMessage builds the message for a commit made at t
func CommitMessage(t time.Time) string {
	return CommitMessagePrefix + t.UTC().Format(types.TimestampLayout) + " UTC"
}

// Commit creates one commit when the working tree has changes and pushes it if enabled
func (uc *Commit) Commit(ctx context.Context) (*model.CommitResult, error) {
	logger := ctxlog.From(ctx)

	result, err := uc.repo.CommitAll(ctx, CommitMessage(uc.now()))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to commit changes")
	}

	if !result.Committed {
		logger.Info("No changes to commit")
		return result, nil
	}
	logger.Info("Committed changes", "hash", result.Hash, "message", result.Message)

	if uc.push {
		if err := uc.repo.Push(ctx); err != nil {
			return nil, goerr.Wrap(err, "failed to push changes", goerr.V("hash", result.Hash))
		}
		result.Pushed = true
		logger.Info("Pushed changes", "hash", result.Hash)
	}

	return result, nil
}

// Step returns the pipeline step for this use case
func (uc *Commit) Step() Step {
	return Step{
		Name: model.StepCommit,
		Run: func(ctx context.Context) (string, error) {
			result, err := uc.Commit(ctx)
			if err != nil {
				return "", err
			}
			switch {
			case !result.Committed:
				return "no changes", nil
			case result.Pushed:
				return "committed and pushed " + shortHash(result.Hash), nil
			default:
				return "committed " + shortHash(result.Hash), nil
			}
		},
	}
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}
