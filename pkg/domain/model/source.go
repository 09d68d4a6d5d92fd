package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// SourceType represents how a news source is read
type SourceType string

const (
	SourceTypeRSS SourceType = "rss"
	SourceTypeURL SourceType = "url"
)

// Source is a single news source belonging to a category
type Source struct {
	Type SourceType `json:"type" toml:"type"`
	URL  string     `json:"url" toml:"url"`
}

// Category groups news sources under a topic name (e.g. "docker")
type Category struct {
	Name    string   `json:"name" toml:"name"`
	Sources []Source `json:"sources" toml:"sources"`
}

// Catalog is the ordered list of categories processed by a pipeline run
type Catalog struct {
	Categories []Category `toml:"categories"`
}

// Names returns category names in catalog order
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		names = append(names, cat.Name)
	}
	return names
}

// Validate checks that every category has a name and every source a known type and URL
func (c *Catalog) Validate() error {
	if len(c.Categories) == 0 {
		return goerr.New("catalog has no categories")
	}

	seen := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Name == "" {
			return goerr.New("category name is empty")
		}
		// Names become file names under data/; "all" is taken by data/all_news.json
		if strings.ContainsAny(cat.Name, `/\`) || strings.Contains(cat.Name, "..") || cat.Name == "all" {
			return goerr.New("invalid category name", goerr.V("category", cat.Name))
		}
		if _, ok := seen[cat.Name]; ok {
			return goerr.New("duplicated category", goerr.V("category", cat.Name))
		}
		seen[cat.Name] = struct{}{}

		for _, src := range cat.Sources {
			switch src.Type {
			case SourceTypeRSS, SourceTypeURL:
			default:
				return goerr.New("unknown source type",
					goerr.V("category", cat.Name),
					goerr.V("type", src.Type),
				)
			}
			if src.URL == "" {
				return goerr.New("source URL is empty", goerr.V("category", cat.Name))
			}
		}
	}
	return nil
}

// DefaultCatalog returns the built-in Docker/Kubernetes/container news sources
func DefaultCatalog() *Catalog {
	return &Catalog{
		Categories: []Category{
			{
				Name: "docker",
				Sources: []Source{
					{Type: SourceTypeRSS, URL: "https://www.docker.com/blog/feed/"},
					{Type: SourceTypeRSS, URL: "https://docs.docker.com/release-notes/feed/"},
					{Type: SourceTypeURL, URL: "https://www.docker.com/blog/"},
				},
			},
			{
				Name: "kubernetes",
				Sources: []Source{
					{Type: SourceTypeRSS, URL: "https://kubernetes.io/feed.xml"},
					{Type: SourceTypeRSS, URL: "https://www.cncf.io/feed/"},
					{Type: SourceTypeURL, URL: "https://kubernetes.io/blog/"},
				},
			},
			{
				Name: "container",
				Sources: []Source{
					{Type: SourceTypeRSS, URL: "https://www.linkedin.com/company/docker/rss"},
					{Type: SourceTypeRSS, URL: "https://www.redhat.com/en/rss/blog/channel/kubernetes"},
				},
			},
		},
	}
}
