package config

import (
	"github.com/m-mizutani/newsdesk/pkg/infra/git"
	"github.com/urfave/cli/v3"
)

// Git holds commit and push configuration
type Git struct {
	AuthorName  string
	AuthorEmail string
	Remote      string
	Push        bool
	Username    string
	Token       string `masq:"secret"`
}

// Flags returns CLI flags for git configuration
func (c *Git) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "git-author-name",
			Usage:       "Author name of automatic commits",
			Value:       "newsdesk-bot",
			Destination: &c.AuthorName,
			Sources:     cli.EnvVars("NEWSDESK_GIT_AUTHOR_NAME"),
		},
		&cli.StringFlag{
			Name:        "git-author-email",
			Usage:       "Author email of automatic commits",
			Value:       "newsdesk-bot@users.noreply.github.com",
			Destination: &c.AuthorEmail,
			Sources:     cli.EnvVars("NEWSDESK_GIT_AUTHOR_EMAIL"),
		},
		&cli.StringFlag{
			Name:        "git-remote",
			Usage:       "Remote to push to",
			Value:       "origin",
			Destination: &c.Remote,
			Sources:     cli.EnvVars("NEWSDESK_GIT_REMOTE"),
		},
		&cli.BoolFlag{
			Name:        "git-push",
			Usage:       "Push after committing",
			Destination: &c.Push,
			Sources:     cli.EnvVars("NEWSDESK_GIT_PUSH"),
		},
		&cli.StringFlag{
			Name:        "git-username",
			Usage:       "User name for HTTPS push",
			Value:       "x-access-token",
			Destination: &c.Username,
			Sources:     cli.EnvVars("NEWSDESK_GIT_USERNAME"),
		},
		&cli.StringFlag{
			Name:        "git-token",
			Usage:       "Token for HTTPS push",
			Destination: &c.Token,
			Sources:     cli.EnvVars("NEWSDESK_GIT_TOKEN", "GITHUB_TOKEN"),
		},
	}
}

// Options returns repository options for this configuration
func (c *Git) Options() []git.Option {
	opts := []git.Option{
		git.WithAuthor(c.AuthorName, c.AuthorEmail),
		git.WithRemote(c.Remote),
	}
	if c.Token != "" {
		opts = append(opts, git.WithToken(c.Username, c.Token))
	}
	return opts
}
