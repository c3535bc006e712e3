package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Joseda-hg/taskflow/internal/config"
	"github.com/Joseda-hg/taskflow/internal/db"
	"github.com/Joseda-hg/taskflow/internal/logging"
	"github.com/Joseda-hg/taskflow/internal/model"
	"github.com/Joseda-hg/taskflow/internal/seed"
	"github.com/Joseda-hg/taskflow/internal/tasklist"
	"github.com/rs/zerolog/log"
)

const (
	sourceSnapshot = "snapshot"
	sourceSeedFile = "seed file"
	sourceBuiltin  = "built-in seed"
)

// App is the wired runtime shared by all commands. It is populated in the
// root Before hook.
type App struct {
	Config     config.Config
	ConfigPath string
	Tasks      *tasklist.Manager
	Store      *db.Store

	closers []func()
}

// Setup loads configuration, installs the global logger and builds the task
// manager from the snapshot store or seed data.
func (a *App) Setup(ctx context.Context, flags *Flags) error {
	cfgPath, err := resolveConfigPath(flags.ConfigPath)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, flags)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	// The TUI owns stdout, so logs always go to a file.
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = filepath.Join(filepath.Dir(cfgPath), "taskflow.log")
	}
	logger, closer, err := logging.New(cfg.LogLevel, logFile)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	log.Logger = logger
	a.closers = append(a.closers, closer)

	ids, ok := tasklist.NewIDGenerator(cfg.IDScheme)
	if !ok {
		return fmt.Errorf("%w: %q", config.ErrInvalidIDScheme, cfg.IDScheme)
	}

	if cfg.DBPath != "" {
		store, err := openStore(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		a.Store = store
		a.closers = append(a.closers, func() {
			if err := store.DB.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close database")
			}
		})
	}

	initial, source, err := a.initialTasks(ctx, cfg)
	if err != nil {
		return err
	}

	// Deleted ids are gone from the snapshot, so continue from the stored
	// high-water mark rather than from the surviving tasks.
	if a.Store != nil && cfg.IDScheme == config.IDSchemeSequence {
		snap, ok, err := a.Store.LastSnapshot(ctx)
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}
		if ok {
			ids = tasklist.NewSequence(snap.LastID)
		}
	}

	a.Config = cfg
	a.ConfigPath = cfgPath
	a.Tasks = tasklist.New(tasklist.WithTasks(initial), tasklist.WithIDGenerator(ids))
	if a.Store != nil {
		if source != sourceSnapshot {
			if err := a.Store.SaveTasks(ctx, a.Tasks.Tasks()); err != nil {
				return fmt.Errorf("save initial snapshot: %w", err)
			}
		}
		a.Tasks.Subscribe(a.Store.Autosave(ctx, a.Tasks, logging.Component("db")))
	}

	log.Info().
		Str("config", cfgPath).
		Str("source", source).
		Int("tasks", a.Tasks.Len()).
		Msg("task list loaded")
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// initialTasks prefers a saved snapshot, then a seed file, then the built-in seed.
func (a *App) initialTasks(ctx context.Context, cfg config.Config) ([]model.Task, string, error) {
	if a.Store != nil {
		tasks, ok, err := a.Store.LoadTasks(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("load snapshot: %w", err)
		}
		if ok {
			return tasks, sourceSnapshot, nil
		}
	}
	if cfg.SeedPath != "" {
		tasks, err := seed.Load(cfg.SeedPath)
		if err != nil {
			return nil, "", err
		}
		return tasks, sourceSeedFile, nil
	}
	return seed.Default(), sourceBuiltin, nil
}

func applyOverrides(cfg *config.Config, flags *Flags) {
	if flags.DBPath != "" {
		cfg.DBPath = flags.DBPath
	}
	if flags.SeedPath != "" {
		cfg.SeedPath = flags.SeedPath
	}
	if flags.IDScheme != "" {
		cfg.IDScheme = flags.IDScheme
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}
	if flags.LogFile != "" {
		cfg.LogFile = flags.LogFile
	}
	if flags.Web {
		cfg.WebEnabled = true
	}
	if flags.Port != 0 {
		cfg.WebPort = flags.Port
	}
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DefaultConfigPath()
}

func openStore(dbPath string) (*db.Store, error) {
	if dbPath != ":memory:" {
		if err := config.EnsureDir(dbPath); err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return nil, err
	}

	return db.NewStore(sqlDB), nil
}
