package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/newsdesk/pkg/cli/config"
	"github.com/m-mizutani/newsdesk/pkg/domain/model"
	"github.com/m-mizutani/newsdesk/pkg/usecase"
)

func TestWordPress_Validate(t *testing.T) {
	full := config.WordPress{APIURL: "https://blog.example.com", Username: "editor", Password: "secret"}
	gt.NoError(t, full.Validate())

	client, err := full.NewClient()
	gt.NoError(t, err)
	gt.V(t, client).NotNil()
	gt.V(t, client.APIURL()).Equal("https://blog.example.com/wp-json")

	for _, missing := range []config.WordPress{
		{Username: "editor", Password: "secret"},
		{APIURL: "https://blog.example.com", Password: "secret"},
		{APIURL: "https://blog.example.com", Username: "editor"},
	} {
		err := missing.Validate()
		gt.Error(t, err)
		gt.True(t, errors.Is(err, usecase.ErrCredentialsMissing))

		client, err := missing.NewClient()
		gt.NoError(t, err)
		gt.True(t, client == nil)
	}
}

func TestWorkspace_Catalog(t *testing.T) {
	t.Run("default catalog", func(t *testing.T) {
		ws := config.Workspace{}
		catalog, err := ws.Catalog()
		gt.NoError(t, err)
		gt.V(t, catalog.Names()).Equal([]string{"docker", "kubernetes", "container"})
	})

	t.Run("TOML file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sources.toml")
		gt.NoError(t, os.WriteFile(path, []byte(`
[[categories]]
name = "docker"

[[categories.sources]]
type = "rss"
url = "https://www.docker.com/blog/feed/"

[[categories]]
name = "wasm"

[[categories.sources]]
type = "url"
url = "https://wasm.example.com/blog/"
`), 0644))

		catalog, err := (&config.Workspace{SourcesFile: path}).Catalog()
		gt.NoError(t, err)
		gt.V(t, catalog.Names()).Equal([]string{"docker", "wasm"})
		gt.V(t, catalog.Categories[1].Sources[0].Type).Equal(model.SourceTypeURL)
	})

	t.Run("invalid source type", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sources.toml")
		gt.NoError(t, os.WriteFile(path, []byte(`
[[categories]]
name = "docker"

[[categories.sources]]
type = "atom"
url = "https://www.docker.com/blog/feed/"
`), 0644))

		_, err := (&config.Workspace{SourcesFile: path}).Catalog()
		gt.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := (&config.Workspace{SourcesFile: filepath.Join(t.TempDir(), "none.toml")}).Catalog()
		gt.Error(t, err)
	})
}

func TestGit_Options(t *testing.T) {
	gt.A(t, (&config.Git{}).Options()).Length(2)
	gt.A(t, (&config.Git{Token: "t"}).Options()).Length(3)
}

func TestGemini_Enabled(t *testing.T) {
	gt.False(t, (&config.Gemini{}).Enabled())
	gt.True(t, (&config.Gemini{ProjectID: "p"}).Enabled())
}
