package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/Joseda-hg/taskflow/internal/model"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

type ListCmd struct {
	app *App

	// flags
	filter     string
	jsonOutput bool
}

// NewListCmd creates a new list command
func NewListCmd(app *App) *ListCmd {
	return &ListCmd{app: app}
}

// Register adds the list command to the application
func (cmd *ListCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "Print tasks, newest first",
		UsageText: "taskflow list [--filter all|active|completed] [--json]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "filter",
				Aliases:     []string{"f"},
				Usage:       "view to print (all, active, completed)",
				Value:       string(model.ViewAll),
				Destination: &cmd.filter,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ListCmd) run(_ context.Context, c *cli.Command) error {
	view := model.View(cmd.filter)
	if !slices.Contains(model.Views(), view) {
		return fmt.Errorf("unknown filter %q (want all, active or completed)", cmd.filter)
	}

	tasks := cmd.app.Tasks.Filter(view)
	out := c.Root().Writer

	if cmd.jsonOutput {
		enc := json.NewEncoder(out)
		for _, task := range tasks {
			if err := enc.Encode(task); err != nil {
				return fmt.Errorf("encode task: %w", err)
			}
		}
		return nil
	}

	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDONE\tPRIORITY\tCREATED\tTEXT")
	for _, task := range tasks {
		done := " "
		if task.Completed {
			done = "x"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", task.ID, done, task.Priority, humanize.Time(task.CreatedAt), task.Text)
	}
	return w.Flush()
}
