package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
)

//go:embed prompts/excerpt_system.md
var excerptSystemPrompt string

//go:embed prompts/excerpt_user.md
var excerptUserPrompt string

// maxPromptContent bounds the article body included in the excerpt prompt
const maxPromptContent = 8000

// Excerpter rewrites post excerpts with an LLM
type Excerpter struct {
	llmClient    gollem.LLMClient
	userTemplate *template.Template
}

// NewExcerpter creates an Excerpter backed by llmClient
func NewExcerpter(llmClient gollem.LLMClient) (*Excerpter, error) {
	tmpl, err := template.New("excerpt").Parse(excerptUserPrompt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse excerpt prompt template")
	}

	return &Excerpter{
		llmClient:    llmClient,
		userTemplate: tmpl,
	}, nil
}

// Excerpt asks the LLM for an excerpt of the article. content is the article body in Markdown.
func (x *Excerpter) Excerpt(ctx context.Context, category string, article *model.Article, content string) (string, error) {
	logger := ctxlog.From(ctx)

	var buf bytes.Buffer
	if err := x.userTemplate.Execute(&buf, map[string]string{
		"Category": category,
		"Title":    article.Title,
		"Summary":  article.Summary,
		"Content":  truncate(content, maxPromptContent),
	}); err != nil {
		return "", goerr.Wrap(err, "failed to execute excerpt prompt template")
	}

	logger.Debug("Calling LLM for excerpt", "title", article.Title, "prompt_length", buf.Len())

	session, err := x.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(excerptSystemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(buf.String())})
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate excerpt")
	}

	excerpt := strings.TrimSpace(strings.Join(resp.Texts, ""))
	if excerpt == "" {
		return "", goerr.New("no response from LLM", goerr.V("title", article.Title))
	}
	return excerpt, nil
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "...(truncated)"
}
