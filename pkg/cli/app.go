package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/cli/config"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/infra/feed"
	"github.com/m-mizutani/newsdesk/pkg/infra/file"
	"github.com/m-mizutani/newsdesk/pkg/infra/firestore"
	"github.com/m-mizutani/newsdesk/pkg/infra/git"
	"github.com/m-mizutani/newsdesk/pkg/infra/sentry"
	"github.com/m-mizutani/newsdesk/pkg/infra/slack"
	"github.com/m-mizutani/newsdesk/pkg/infra/storage"
	"github.com/m-mizutani/newsdesk/pkg/infra/web"
	"github.com/m-mizutani/newsdesk/pkg/usecase"
	"github.com/m-mizutani/newsdesk/pkg/utils/pause"
	"github.com/urfave/cli/v3"
)

// app holds the configuration shared by every pipeline command
type app struct {
	workspace config.Workspace
	wordpress config.WordPress
	gemini    config.Gemini
	git       config.Git
	notify    config.Notify
	cloud     config.Cloud
}

func (a *app) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, a.workspace.Flags()...)
	flags = append(flags, a.wordpress.Flags()...)
	flags = append(flags, a.gemini.Flags()...)
	flags = append(flags, a.git.Flags()...)
	flags = append(flags, a.notify.Flags()...)
	flags = append(flags, a.cloud.Flags()...)
	return flags
}

// components are the wired use cases of one process
type components struct {
	prepare  *usecase.Prepare
	fetch    *usecase.Fetch
	generate *usecase.Generate
	publish  *usecase.Publish
	commit   *usecase.Commit
	hooks    []interfaces.RunHook
	closers  []func() error
}

// Close releases cloud clients
func (c *components) Close(ctx context.Context) {
	for _, closer := range c.closers {
		if err := closer(); err != nil {
			ctxlog.From(ctx).Warn("Failed to close client", "error", err)
		}
	}
}

// Steps returns the full pipeline in run order
func (c *components) Steps() []usecase.Step {
	return []usecase.Step{
		c.prepare.Step(),
		c.fetch.Step(),
		c.generate.Step(),
		c.publish.Step(),
		c.commit.Step(),
	}
}

// Step returns the single step called name
func (c *components) Step(name model.StepName) (usecase.Step, error) {
	for _, step := range c.Steps() {
		if step.Name == name {
			return step, nil
		}
	}
	return usecase.Step{}, goerr.New("unknown step", goerr.V("step", name))
}

// build wires every use case from the configuration. The git repository and
// cloud clients are opened here, so configuration mistakes surface before a run.
func (a *app) build(ctx context.Context) (*components, error) {
	logger := ctxlog.From(ctx)
	c := &components{}

	catalog, err := a.workspace.Catalog()
	if err != nil {
		return nil, err
	}

	ws := file.NewWorkspace(a.workspace.Dir)
	feeds := feed.New()
	pages := web.New()

	var (
		sourceDelay   = pause.Between(time.Second, 3*time.Second)
		imageDelay    = pause.Fixed(500 * time.Millisecond)
		generateDelay = pause.Between(500*time.Millisecond, 1500*time.Millisecond)
		publishDelay  = pause.Between(2*time.Second, 5*time.Second)
	)
	if a.workspace.NoDelay {
		sourceDelay, imageDelay, generateDelay, publishDelay = pause.Range{}, pause.Range{}, pause.Range{}, pause.Range{}
	}

	c.fetch = usecase.NewFetch(catalog, feeds, pages, ws,
		usecase.WithFetchDelay(sourceDelay, imageDelay),
	)

	generateOpts := []usecase.GenerateOption{
		usecase.WithPostsPerCategory(a.workspace.PostsPerCategory),
		usecase.WithGenerateDelay(generateDelay),
	}
	if a.gemini.Enabled() {
		llmClient, err := a.gemini.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		excerpter, err := usecase.NewExcerpter(llmClient)
		if err != nil {
			return nil, err
		}
		generateOpts = append(generateOpts, usecase.WithExcerpter(excerpter))
		logger.Info("LLM excerpts enabled", "model", a.gemini.Model)
	}
	c.generate = usecase.NewGenerate(catalog, pages, ws, generateOpts...)

	var wpClient interfaces.WordPressClient
	client, err := a.wordpress.NewClient()
	if err != nil {
		return nil, err
	}
	if client != nil {
		wpClient = client
	}

	var ledger interfaces.PublishLedger = file.NewLedger(ws)
	if a.cloud.FirestoreProjectID != "" {
		fsLedger, err := firestore.New(ctx, a.cloud.FirestoreProjectID, a.cloud.FirestoreDatabaseID,
			firestore.WithCollection(a.cloud.FirestoreCollection),
		)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, fsLedger.Close)
		ledger = fsLedger
		logger.Info("Published ledger in Firestore", "project_id", a.cloud.FirestoreProjectID)
	}
	c.publish = usecase.NewPublish(wpClient, ledger, ws, usecase.WithPublishDelay(publishDelay))

	repo, err := git.Open(a.workspace.Dir, a.git.Options()...)
	if err != nil {
		return nil, err
	}
	c.commit = usecase.NewCommit(repo, usecase.WithPush(a.git.Push))

	c.prepare = usecase.NewPrepare(ws,
		usecase.Check{Name: "wordpress credentials", Run: func(ctx context.Context) error {
			return a.wordpress.Validate()
		}},
		usecase.Check{Name: "git repository", Run: func(ctx context.Context) error {
			_, err := git.Open(a.workspace.Dir)
			return err
		}},
	)

	if err := a.buildHooks(ctx, c, ws); err != nil {
		c.Close(ctx)
		return nil, err
	}

	return c, nil
}

func (a *app) buildHooks(ctx context.Context, c *components, ws *file.Workspace) error {
	if a.notify.SlackWebhookURL != "" {
		var opts []slack.Option
		if a.notify.SlackChannel != "" {
			opts = append(opts, slack.WithChannel(a.notify.SlackChannel))
		}
		notifier, err := slack.New(a.notify.SlackWebhookURL, opts...)
		if err != nil {
			return err
		}
		c.hooks = append(c.hooks, notifier)
	}

	if a.notify.SentryDSN != "" {
		reporter, err := sentry.New(a.notify.SentryDSN, a.notify.SentryEnvironment)
		if err != nil {
			return err
		}
		c.hooks = append(c.hooks, reporter)
	}

	if a.cloud.StorageBucket != "" {
		archiver, err := storage.New(ctx, a.cloud.StorageBucket, a.cloud.StoragePrefix, ws)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, archiver.Close)
		c.hooks = append(c.hooks, archiver)
	}

	return nil
}

// pipeline creates the full pipeline with run hooks
func (a *app) pipeline(c *components) *usecase.Pipeline {
	return usecase.NewPipeline(c.Steps(),
		usecase.WithRunHooks(c.hooks...),
		usecase.WithRunTimeout(a.workspace.RunTimeout),
	)
}
