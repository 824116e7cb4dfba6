package config

import "github.com/urfave/cli/v3"

// History holds run-history database configuration
type History struct {
	DB string
}

// Flags returns CLI flags for history configuration
func (c *History) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "history-db",
			Usage:       "SQLite database recording pipeline runs (disabled when empty)",
			Destination: &c.DB,
			Sources:     cli.EnvVars("PARCELLATE_HISTORY_DB"),
		},
	}
}
