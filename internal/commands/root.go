package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// NewRoot builds the taskflow command tree. Running it without a subcommand
// opens the terminal UI.
func NewRoot(version string) *cli.Command {
	var (
		flags = &Flags{}
		app   = &App{}
	)

	root := &cli.Command{
		Name:      "taskflow",
		Usage:     "Stay organized, stay productive",
		UsageText: "taskflow [global options] [command [command options]]",
		Description: `TaskFlow keeps a single list of tasks you can add, complete, delete and filter.

Run 'taskflow' with no arguments to open the terminal UI.
Run 'taskflow --web' to also serve the list in a browser.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file (defaults to <user config dir>/taskflow/config.yaml)",
				Sources:     cli.EnvVars("TASKFLOW_CONFIG"),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "db",
				Usage:       "sqlite snapshot path; tasks stay in memory when unset",
				Sources:     cli.EnvVars("TASKFLOW_DB"),
				Destination: &flags.DBPath,
			},
			&cli.StringFlag{
				Name:        "seed",
				Usage:       "YAML file with the initial tasks",
				Sources:     cli.EnvVars("TASKFLOW_SEED"),
				Destination: &flags.SeedPath,
			},
			&cli.StringFlag{
				Name:        "id-scheme",
				Usage:       "task id scheme (sequence, uuid)",
				Sources:     cli.EnvVars("TASKFLOW_ID_SCHEME"),
				Destination: &flags.IDScheme,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TASKFLOW_LOG_LEVEL"),
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to taskflow.log next to the config)",
				Sources:     cli.EnvVars("TASKFLOW_LOG_FILE"),
				Destination: &flags.LogFile,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, app.Setup(ctx, flags)
		},
		After: func(ctx context.Context, c *cli.Command) error {
			app.Close()
			return nil
		},
	}

	tuiCmd := NewTuiCmd(flags, app)

	root = tuiCmd.Register(root)
	root = NewListCmd(app).Register(root)
	root = NewStatsCmd(app).Register(root)

	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'taskflow --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	return root
}
