package sentry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/domain/types"
)

const flushTimeout = 5 * time.Second

// Reporter sends failed runs to Sentry
type Reporter struct {
	hub *sentry.Hub
}

var _ interfaces.RunHook = (*Reporter)(nil)

// New creates a Reporter for dsn
func New(dsn, environment string) (*Reporter, error) {
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     "newsdesk@" + types.Version,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Sentry client")
	}

	return &Reporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// AfterRun captures the failing step of a failed run. Successful runs are ignored.
func (r *Reporter) AfterRun(ctx context.Context, result *model.RunResult) error {
	failed := result.FailedStep()
	if result.Status != model.StatusFailed || failed == nil {
		return nil
	}

	var eventID *sentry.EventID
	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("run_id", result.ID)
		scope.SetTag("trigger", string(result.Trigger))
		scope.SetTag("step", string(failed.Name))
		scope.SetContext("run", sentry.Context{
			"started_at": result.StartedAt.Format(time.RFC3339),
			"duration":   result.Duration().String(),
		})
		eventID = r.hub.CaptureException(goerr.New(failed.Error, goerr.V("step", failed.Name)))
	})

	if eventID == nil {
		return goerr.New("Sentry dropped the event", goerr.V("run_id", result.ID))
	}
	if !r.hub.Flush(flushTimeout) {
		return goerr.New("timed out flushing Sentry events", goerr.V("run_id", result.ID))
	}
	return nil
}
