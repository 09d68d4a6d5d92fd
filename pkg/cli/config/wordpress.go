package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/infra/wordpress"
	"github.com/m-mizutani/newsdesk/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// WordPress holds the publish target credentials. The environment variable
// names are shared with existing deployments and carry no prefix.
type WordPress struct {
	APIURL   string
	Username string
	Password string `masq:"secret"`
}

// Flags returns CLI flags for WordPress configuration
func (c *WordPress) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "wp-api-url",
			Usage:       "WordPress site or REST API URL (/wp-json is appended when missing)",
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("WP_API_URL"),
		},
		&cli.StringFlag{
			Name:        "wp-username",
			Usage:       "WordPress user name",
			Destination: &c.Username,
			Sources:     cli.EnvVars("WP_USERNAME"),
		},
		&cli.StringFlag{
			Name:        "wp-password",
			Usage:       "WordPress application password",
			Destination: &c.Password,
			Sources:     cli.EnvVars("WP_PASSWORD"),
		},
	}
}

// Validate reports ErrCredentialsMissing unless all three values are set
func (c *WordPress) Validate() error {
	if c.APIURL == "" || c.Username == "" || c.Password == "" {
		return goerr.Wrap(usecase.ErrCredentialsMissing, "incomplete WordPress configuration",
			goerr.V("api_url_set", c.APIURL != ""),
			goerr.V("username_set", c.Username != ""),
			goerr.V("password_set", c.Password != ""),
		)
	}
	return nil
}

// NewClient builds the WordPress client, or returns nil when credentials are missing
func (c *WordPress) NewClient() (*wordpress.Client, error) {
	if c.Validate() != nil {
		return nil, nil
	}

	client, err := wordpress.New(c.APIURL, c.Username, c.Password)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create WordPress client")
	}
	return client, nil
}
