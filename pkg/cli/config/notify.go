package config

import (
	"github.com/urfave/cli/v3"
)

// Notify holds run notification configuration
type Notify struct {
	SlackWebhookURL   string `masq:"secret"`
	SlackChannel      string
	SentryDSN         string `masq:"secret"`
	SentryEnvironment string
}

// Flags returns CLI flags for notification configuration
func (c *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL for run summaries",
			Destination: &c.SlackWebhookURL,
			Sources:     cli.EnvVars("NEWSDESK_SLACK_WEBHOOK_URL"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel overriding the webhook default",
			Destination: &c.SlackChannel,
			Sources:     cli.EnvVars("NEWSDESK_SLACK_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for failed runs",
			Destination: &c.SentryDSN,
			Sources:     cli.EnvVars("NEWSDESK_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Value:       "production",
			Destination: &c.SentryEnvironment,
			Sources:     cli.EnvVars("NEWSDESK_SENTRY_ENV"),
		},
	}
}
