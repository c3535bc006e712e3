package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"
)

type StatsCmd struct {
	app *App

	jsonOutput bool
}

// NewStatsCmd creates a new stats command
func NewStatsCmd(app *App) *StatsCmd {
	return &StatsCmd{app: app}
}

// Register adds the stats command to the application
func (cmd *StatsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "stats",
		Usage:     "Print task counts and completion rate",
		UsageText: "taskflow stats [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *StatsCmd) run(_ context.Context, c *cli.Command) error {
	stats := cmd.app.Tasks.Stats()
	out := c.Root().Writer

	if cmd.jsonOutput {
		if err := json.NewEncoder(out).Encode(stats); err != nil {
			return fmt.Errorf("encode stats: %w", err)
		}
		return nil
	}

	_, err := fmt.Fprintf(out, "Total: %d\nCompleted: %d\nActive: %d\nCompletion rate: %d%%\n",
		stats.Total, stats.Completed, stats.Active, stats.CompletionRate)
	return err
}
