package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"
)

// Gemini holds Gemini LLM configuration. Excerpts are written by the LLM only
// when ProjectID is set.
type Gemini struct {
	ProjectID string
	Location  string
	Model     string
}

// Flags returns CLI flags for Gemini configuration
func (c *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project-id",
			Usage:       "Google Cloud Project ID for Gemini excerpts (disabled when empty)",
			Destination: &c.ProjectID,
			Sources:     cli.EnvVars("NEWSDESK_GEMINI_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Vertex AI location/region",
			Value:       "us-central1",
			Destination: &c.Location,
			Sources:     cli.EnvVars("NEWSDESK_GEMINI_LOCATION"),
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model to use",
			Value:       "gemini-2.5-flash",
			Destination: &c.Model,
			Sources:     cli.EnvVars("NEWSDESK_GEMINI_MODEL"),
		},
	}
}

// Enabled reports whether an LLM client can be built
func (c *Gemini) Enabled() bool {
	return c.ProjectID != ""
}

// NewClient creates the Gemini client
func (c *Gemini) NewClient(ctx context.Context) (gollem.LLMClient, error) {
	if !c.Enabled() {
		return nil, goerr.New("Gemini project ID is not set")
	}

	client, err := gemini.New(ctx, c.ProjectID, c.Location,
		gemini.WithModel(c.Model),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client",
			goerr.V("project_id", c.ProjectID),
			goerr.V("location", c.Location),
		)
	}
	return client, nil
}
