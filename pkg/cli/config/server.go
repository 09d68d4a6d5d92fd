package config

import (
	"time"

	"github.com/urfave/cli/v3"
)

// Server holds HTTP server and scheduler configuration
type Server struct {
	Addr            string
	DispatchSecret  string `masq:"secret"`
	Schedule        string
	ShutdownTimeout time.Duration
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("NEWSDESK_ADDR"),
		},
		&cli.StringFlag{
			Name:        "dispatch-secret",
			Usage:       "HMAC secret for POST /dispatch (endpoint disabled when empty)",
			Destination: &c.DispatchSecret,
			Sources:     cli.EnvVars("NEWSDESK_DISPATCH_SECRET"),
		},
		&cli.StringFlag{
			Name:        "schedule",
			Usage:       "Cron schedule of pipeline runs, in UTC",
			Value:       "0 */3 * * *",
			Destination: &c.Schedule,
			Sources:     cli.EnvVars("NEWSDESK_SCHEDULE"),
		},
		&cli.DurationFlag{
			Name:        "shutdown-timeout",
			Usage:       "Time to wait for the HTTP server and an active run on shutdown",
			Value:       30 * time.Second,
			Destination: &c.ShutdownTimeout,
			Sources:     cli.EnvVars("NEWSDESK_SHUTDOWN_TIMEOUT"),
		},
	}
}
