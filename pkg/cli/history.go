package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/naba-lab/parcellate/pkg/domain/model"
	"github.com/naba-lab/parcellate/pkg/infra/history"
	"github.com/urfave/cli/v3"
)

func cmdHistory() *cli.Command {
	var (
		dbPath string
		limit  int
	)

	return &cli.Command{
		Name:  "history",
		Usage: "List recent pipeline runs from the history database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "history-db",
				Usage:       "SQLite database recording pipeline runs",
				Required:    true,
				Destination: &dbPath,
				Sources:     cli.EnvVars("PARCELLATE_HISTORY_DB"),
			},
			&cli.IntFlag{
				Name:        "limit",
				Usage:       "Maximum number of runs to list",
				Value:       20,
				Destination: &limit,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			store, err := history.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.RecentRuns(ctx, limit)
			if err != nil {
				return err
			}

			for _, run := range runs {
				elapsed := ""
				if !run.FinishedAt.IsZero() {
					elapsed = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
				}
				fmt.Printf("%s  %-9s  %-8s  %-8s  %s\n",
					run.StartedAt.Format("2006-01-02 15:04:05"),
					statusColor(run.Status).Sprint(run.Status),
					string(run.Mode),
					elapsed,
					run.SubjectID,
				)
				if run.Error != "" {
					fmt.Printf("    %s\n", color.RedString(run.Error))
				}
			}
			return nil
		},
	}
}

func statusColor(status model.RunStatus) *color.Color {
	switch status {
	case model.RunStatusSucceeded:
		return color.New(color.FgGreen)
	case model.RunStatusFailed:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}
