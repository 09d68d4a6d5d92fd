package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Workspace holds the content pipeline configuration
type Workspace struct {
	Dir              string
	SourcesFile      string
	NoDelay          bool
	PostsPerCategory int
	RunTimeout       time.Duration
}

// Flags returns CLI flags for workspace configuration
func (c *Workspace) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "workspace",
			Aliases:     []string{"w"},
			Usage:       "Directory holding data/, inside a git working tree",
			Value:       ".",
			Destination: &c.Dir,
			Sources:     cli.EnvVars("NEWSDESK_WORKSPACE"),
		},
		&cli.StringFlag{
			Name:        "sources",
			Usage:       "TOML file replacing the built-in news source catalog",
			Destination: &c.SourcesFile,
			Sources:     cli.EnvVars("NEWSDESK_SOURCES"),
		},
		&cli.BoolFlag{
			Name:        "no-delay",
			Usage:       "Disable the polite delays between outbound requests",
			Destination: &c.NoDelay,
			Sources:     cli.EnvVars("NEWSDESK_NO_DELAY"),
		},
		&cli.IntFlag{
			Name:        "posts-per-category",
			Usage:       "Number of articles per category turned into posts",
			Value:       3,
			Destination: &c.PostsPerCategory,
			Sources:     cli.EnvVars("NEWSDESK_POSTS_PER_CATEGORY"),
		},
		&cli.DurationFlag{
			Name:        "run-timeout",
			Usage:       "Upper bound of one pipeline run (0 disables)",
			Value:       time.Hour,
			Destination: &c.RunTimeout,
			Sources:     cli.EnvVars("NEWSDESK_RUN_TIMEOUT"),
		},
	}
}

// Catalog returns the news source catalog, read from SourcesFile when set
func (c *Workspace) Catalog() (*model.Catalog, error) {
	if c.SourcesFile == "" {
		return model.DefaultCatalog(), nil
	}

	data, err := os.ReadFile(c.SourcesFile)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read sources file", goerr.V("path", c.SourcesFile))
	}

	var catalog model.Catalog
	if err := toml.Unmarshal(data, &catalog); err != nil {
		return nil, goerr.Wrap(err, "failed to parse sources file", goerr.V("path", c.SourcesFile))
	}
	if err := catalog.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid sources file", goerr.V("path", c.SourcesFile))
	}

	return &catalog, nil
}
