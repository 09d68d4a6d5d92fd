package slack

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/slack-go/slack"
)

const (
	colorSuccess = "good"
	colorFailure = "danger"
)

// Notifier posts a run summary to a Slack incoming webhook
type Notifier struct {
	webhookURL string
	channel    string
}

var _ interfaces.RunHook = (*Notifier)(nil)

// Option is a functional option for Notifier
type Option func(*Notifier)

// WithChannel overrides the webhook's default channel
func WithChannel(channel string) Option {
	return func(n *Notifier) {
		n.channel = channel
	}
}

// New creates a Notifier for the webhook URL
func New(webhookURL string, opts ...Option) (*Notifier, error) {
	if webhookURL == "" {
		return nil, goerr.New("Slack webhook URL is required")
	}

	n := &Notifier{webhookURL: webhookURL}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// AfterRun sends the run outcome with one field per step
func (n *Notifier) AfterRun(ctx context.Context, result *model.RunResult) error {
	msg := &slack.WebhookMessage{
		Channel:     n.channel,
		Text:        summaryText(result),
		Attachments: []slack.Attachment{runAttachment(result)},
	}

	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack webhook", goerr.V("run_id", result.ID))
	}
	return nil
}

func summaryText(result *model.RunResult) string {
	if result.Status == model.StatusSuccess {
		return fmt.Sprintf(":white_check_mark: newsdesk run succeeded (%s, %s)", result.Trigger, result.Duration().Round(time.Second))
	}

	text := fmt.Sprintf(":x: newsdesk run failed (%s, %s)", result.Trigger, result.Duration().Round(time.Second))
	if failed := result.FailedStep(); failed != nil {
		text += fmt.Sprintf(" at %s: %s", failed.Name, failed.Error)
	}
	return text
}

func runAttachment(result *model.RunResult) slack.Attachment {
	color := colorSuccess
	if result.Status != model.StatusSuccess {
		color = colorFailure
	}

	fields := make([]slack.AttachmentField, 0, len(result.Steps))
	for _, step := range result.Steps {
		value := string(step.Status)
		if detail := stepDetail(step); detail != "" {
			value += ": " + detail
		}
		fields = append(fields, slack.AttachmentField{
			Title: string(step.Name),
			Value: value,
			Short: true,
		})
	}

	return slack.Attachment{
		Color:  color,
		Title:  "Run " + result.ID,
		Fields: fields,
		Footer: "newsdesk",
	}
}

func stepDetail(step *model.StepResult) string {
	switch {
	case step.Error != "":
		return truncate(step.Error, 200)
	case step.Summary != "":
		return step.Summary
	default:
		return ""
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
