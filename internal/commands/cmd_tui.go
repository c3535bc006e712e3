package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Joseda-hg/taskflow/internal/logging"
	"github.com/Joseda-hg/taskflow/internal/tui"
	"github.com/Joseda-hg/taskflow/internal/web"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type TuiCmd struct {
	flags *Flags
	app   *App
}

// NewTuiCmd creates the terminal UI command
func NewTuiCmd(flags *Flags, app *App) *TuiCmd {
	return &TuiCmd{flags: flags, app: app}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "tui",
		Usage:  "Open the terminal UI (default)",
		Action: cmd.Run,
	})
	return app
}

// Flags returns the UI flags for registration on the root command. Root flags
// are inherited, so they also apply to "taskflow tui".
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "web",
			Usage:       "also serve the browser UI",
			Destination: &cmd.flags.Web,
		},
		&cli.BoolFlag{
			Name:        "web-only",
			Usage:       "serve the browser UI without the terminal UI",
			Destination: &cmd.flags.WebOnly,
		},
		&cli.IntFlag{
			Name:        "port",
			Usage:       "browser UI port",
			Sources:     cli.EnvVars("TASKFLOW_PORT"),
			Destination: &cmd.flags.Port,
		},
	}
}

// Run executes the TUI. Exported for use as the default action.
func (cmd *TuiCmd) Run(_ context.Context, _ *cli.Command) error {
	cfg := cmd.app.Config

	if cfg.WebEnabled || cmd.flags.WebOnly {
		addr := fmt.Sprintf(":%d", cfg.WebPort)
		handler := web.NewServer(cmd.app.Tasks, logging.Component("web")).Handler()
		if cmd.flags.WebOnly {
			fmt.Printf("Web server running at http://localhost%s\n", addr)
			log.Info().Str("addr", addr).Msg("web server started")
			return http.ListenAndServe(addr, handler)
		}

		go func() {
			log.Info().Str("addr", addr).Msg("web server started")
			if err := http.ListenAndServe(addr, handler); err != nil {
				log.Error().Err(err).Msg("web server error")
			}
		}()
	}

	if err := tui.Run(cmd.app.Tasks, logging.Component("tui")); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
