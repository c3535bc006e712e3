package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Joseda-hg/taskflow/internal/model"
	"github.com/Joseda-hg/taskflow/internal/tasklist"
	"github.com/rs/zerolog"
)

const timeLayout = time.RFC3339Nano

// Store saves and restores the full ordered task collection.
type Store struct {
	DB  *sql.DB
	now func() time.Time

	// saveMu serializes autosaves so the last commit carries the latest state.
	saveMu sync.Mutex
}

// Snapshot describes the last save. LastID is the highest numeric task id
// ever saved, including ids of tasks deleted since.
type Snapshot struct {
	TaskCount int
	LastID    uint64
	SavedAt   time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db, now: time.Now}
}

// SaveTasks replaces the stored snapshot with tasks, keeping their order.
func (s *Store) SaveTasks(ctx context.Context, tasks []model.Task) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tasks (id, position, text, completed, priority, created_at)
VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for position, task := range tasks {
		if _, err := stmt.ExecContext(ctx,
			task.ID,
			position,
			task.Text,
			boolToInt(task.Completed),
			string(task.Priority),
			task.CreatedAt.UTC().Format(timeLayout),
		); err != nil {
			return fmt.Errorf("insert task %s: %w", task.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO snapshots (id, task_count, last_id, saved_at) VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    task_count = excluded.task_count,
    last_id = MAX(snapshots.last_id, excluded.last_id),
    saved_at = excluded.saved_at`,
		len(tasks), int64(highestID(tasks)), s.now().UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}

	return tx.Commit()
}

// LoadTasks returns the stored collection. ok is false when nothing was ever
// saved, so callers can fall back to seed data.
func (s *Store) LoadTasks(ctx context.Context) ([]model.Task, bool, error) {
	if _, ok, err := s.LastSnapshot(ctx); err != nil || !ok {
		return nil, false, err
	}

	rows, err := s.DB.QueryContext(ctx, "SELECT id, text, completed, priority, created_at FROM tasks ORDER BY position")
	if err != nil {
		return nil, false, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var (
			task      model.Task
			completed int64
			priority  string
			createdAt string
		)
		if err := rows.Scan(&task.ID, &task.Text, &completed, &priority, &createdAt); err != nil {
			return nil, false, fmt.Errorf("scan task: %w", err)
		}
		task.Completed = completed != 0
		task.Priority = normalizePriority(priority)
		task.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, false, fmt.Errorf("parse created_at for task %s: %w", task.ID, err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	return tasks, true, nil
}

func (s *Store) LastSnapshot(ctx context.Context) (Snapshot, bool, error) {
	var (
		snap    Snapshot
		lastID  int64
		savedAt string
	)
	err := s.DB.QueryRowContext(ctx, "SELECT task_count, last_id, saved_at FROM snapshots WHERE id = 1").Scan(&snap.TaskCount, &lastID, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("read snapshot: %w", err)
	}

	snap.LastID = uint64(lastID)
	snap.SavedAt, err = time.Parse(timeLayout, savedAt)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("parse saved_at: %w", err)
	}
	return snap, true, nil
}

// Autosave returns a listener that writes the manager's full collection
// after every change. Failures are logged; the in-memory state stays
// authoritative.
func (s *Store) Autosave(ctx context.Context, m *tasklist.Manager, logger zerolog.Logger) tasklist.Listener {
	return func(event tasklist.Event) {
		s.saveMu.Lock()
		defer s.saveMu.Unlock()

		if err := s.SaveTasks(ctx, m.Tasks()); err != nil {
			logger.Error().Err(err).Str("event", string(event.Kind)).Str("task_id", event.Task.ID).Msg("autosave failed")
			return
		}
		logger.Debug().Str("event", string(event.Kind)).Str("task_id", event.Task.ID).Int("tasks", m.Len()).Msg("snapshot saved")
	}
}

// highestID returns the largest decimal id in tasks. Non-numeric ids such as
// UUIDs are ignored.
func highestID(tasks []model.Task) uint64 {
	var highest uint64
	for _, task := range tasks {
		value, err := strconv.ParseUint(task.ID, 10, 64)
		if err == nil && value > highest {
			highest = value
		}
	}
	return highest
}

func normalizePriority(value string) model.Priority {
	priority, ok := model.ParsePriority(value)
	if !ok {
		return model.PriorityMedium
	}
	return priority
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
