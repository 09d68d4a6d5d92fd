package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdRun() *cli.Command {
	var a app

	return &cli.Command{
		Name:  "run",
		Usage: "Run the whole pipeline once: prepare, fetch, generate, publish, commit",
		Flags: a.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			comps, err := a.build(ctx)
			if err != nil {
				return err
			}
			defer comps.Close(ctx)

			result, err := a.pipeline(comps).Run(ctx, model.TriggerManual)
			if result != nil {
				printSummary(os.Stdout, result)
			}
			return err
		},
	}
}

// cmdStep runs a single step without run hooks
func cmdStep(name model.StepName, usage string) *cli.Command {
	var a app

	return &cli.Command{
		Name:  string(name),
		Usage: usage,
		Flags: a.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			comps, err := a.build(ctx)
			if err != nil {
				return err
			}
			defer comps.Close(ctx)

			step, err := comps.Step(name)
			if err != nil {
				return err
			}

			result, err := usecase.NewPipeline([]usecase.Step{step},
				usecase.WithRunTimeout(a.workspace.RunTimeout),
			).Run(ctx, model.TriggerManual)
			if result != nil {
				printSummary(os.Stdout, result)
			}
			return err
		},
	}
}

func stepCommands() []*cli.Command {
	return []*cli.Command{
		cmdStep(model.StepFetch, "Fetch news into data/*_news.json"),
		cmdStep(model.StepGenerate, "Generate posts from fetched news"),
		cmdStep(model.StepPublish, "Publish generated posts to WordPress"),
		cmdStep(model.StepCommit, "Commit workspace changes"),
	}
}
