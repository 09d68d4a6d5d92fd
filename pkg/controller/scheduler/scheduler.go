package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/usecase"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs the pipeline every three hours, on the hour
const DefaultSchedule = "0 */3 * * *"

// Scheduler triggers pipeline runs on a cron schedule, in UTC
type Scheduler struct {
	cron       *cron.Cron
	schedule   string
	pipelineUC interfaces.PipelineUseCase
}

// New creates a Scheduler. The schedule uses the standard five field cron syntax.
func New(ctx context.Context, schedule string, pipelineUC interfaces.PipelineUseCase) (*Scheduler, error) {
	logger := cronLogger{logger: ctxlog.From(ctx)}

	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	s := &Scheduler{
		cron:       c,
		schedule:   schedule,
		pipelineUC: pipelineUC,
	}

	if _, err := c.AddFunc(schedule, func() { s.trigger(ctx) }); err != nil {
		return nil, goerr.Wrap(err, "invalid schedule", goerr.V("schedule", schedule))
	}

	return s, nil
}

func (s *Scheduler) trigger(ctx context.Context) {
	logger := ctxlog.From(ctx)

	_, err := s.pipelineUC.Run(ctx, model.TriggerSchedule)
	switch {
	case errors.Is(err, usecase.ErrRunInProgress):
		logger.Warn("Scheduled run skipped, another run is active")
	case err != nil:
		logger.Error("Scheduled run failed", "error", err)
	}
}

// Next returns the next activation time, zero before Start
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Start begins running the schedule in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the schedule and waits for an active run to finish or ctx to end
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return goerr.Wrap(ctx.Err(), "scheduled run did not finish before shutdown")
	}
}

// cronLogger adapts slog to cron.Logger
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
