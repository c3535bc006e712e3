package db

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Joseda-hg/taskflow/internal/model"
	"github.com/Joseda-hg/taskflow/internal/seed"
	"github.com/Joseda-hg/taskflow/internal/tasklist"
	"github.com/rs/zerolog"
)

func TestLoadTasksBeforeAnySave(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	tasks, ok, err := store.LoadTasks(context.Background())
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if ok {
		t.Fatalf("expected no snapshot before first save")
	}
	if tasks != nil {
		t.Fatalf("expected nil tasks, got %d", len(tasks))
	}
}

func TestSaveTasksRoundTripKeepsOrder(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	want := seed.Default()
	want[2].Completed = true
	if err := store.SaveTasks(context.Background(), want); err != nil {
		t.Fatalf("save tasks: %v", err)
	}

	got, ok, err := store.LoadTasks(context.Background())
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if !ok {
		t.Fatalf("expected snapshot after save")
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Fatalf("position %d: expected id %q, got %q", i, want[i].ID, got[i].ID)
		}
		if got[i].Text != want[i].Text || got[i].Completed != want[i].Completed || got[i].Priority != want[i].Priority {
			t.Fatalf("position %d: expected %+v, got %+v", i, want[i], got[i])
		}
		if !got[i].CreatedAt.Equal(want[i].CreatedAt) {
			t.Fatalf("position %d: expected created_at %v, got %v", i, want[i].CreatedAt, got[i].CreatedAt)
		}
	}
}

func TestSaveEmptyCollectionIsStillASnapshot(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.SaveTasks(context.Background(), seed.Default()); err != nil {
		t.Fatalf("save tasks: %v", err)
	}
	if err := store.SaveTasks(context.Background(), nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}

	tasks, ok, err := store.LoadTasks(context.Background())
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if !ok {
		t.Fatalf("expected saved empty snapshot to be reported")
	}
	if len(tasks) != 0 {
		t.Fatalf("expected 0 tasks, got %d", len(tasks))
	}

	snap, ok, err := store.LastSnapshot(context.Background())
	if err != nil || !ok {
		t.Fatalf("last snapshot: ok=%v err=%v", ok, err)
	}
	if snap.TaskCount != 0 {
		t.Fatalf("expected task_count 0, got %d", snap.TaskCount)
	}
}

func TestAutosaveFollowsManager(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	manager := tasklist.New(tasklist.WithTasks(seed.Default()))
	manager.Subscribe(store.Autosave(context.Background(), manager, zerolog.Nop()))

	created, _ := manager.Add("Buy milk")
	manager.Toggle("1")
	manager.Delete("3")

	tasks, ok, err := store.LoadTasks(context.Background())
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if !ok {
		t.Fatalf("expected autosave to record a snapshot")
	}
	if len(tasks) != 5 {
		t.Fatalf("expected 5 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != created.ID {
		t.Fatalf("expected newest task first, got %q", tasks[0].ID)
	}
	for _, task := range tasks {
		if task.ID == "3" {
			t.Fatalf("expected task 3 to be deleted")
		}
		if task.ID == "1" && !task.Completed {
			t.Fatalf("expected task 1 to be completed")
		}
	}
	if stats := model.ComputeStats(tasks); stats != manager.Stats() {
		t.Fatalf("expected stored stats %+v to match manager %+v", stats, manager.Stats())
	}
}

func TestLastIDSurvivesDeleteAndRestart(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	manager := tasklist.New(tasklist.WithTasks(seed.Default()))
	manager.Subscribe(store.Autosave(context.Background(), manager, zerolog.Nop()))

	created, _ := manager.Add("Buy milk")
	if created.ID != "6" {
		t.Fatalf("expected id 6, got %q", created.ID)
	}
	manager.Delete(created.ID)

	tasks, ok, err := store.LoadTasks(context.Background())
	if err != nil || !ok {
		t.Fatalf("load tasks: ok=%v err=%v", ok, err)
	}
	snap, _, err := store.LastSnapshot(context.Background())
	if err != nil {
		t.Fatalf("last snapshot: %v", err)
	}
	if snap.LastID != 6 {
		t.Fatalf("expected last id 6, got %d", snap.LastID)
	}

	restarted := tasklist.New(tasklist.WithTasks(tasks), tasklist.WithIDGenerator(tasklist.NewSequence(snap.LastID)))
	next, _ := restarted.Add("Walk the dog")
	if next.ID != "7" {
		t.Fatalf("expected deleted id 6 to stay retired, got %q", next.ID)
	}
}

func TestLastIDIgnoresNonNumericIDs(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	tasks := []model.Task{
		{ID: "3", Text: "a", Priority: model.PriorityLow},
		{ID: "0b5f6c1e-0000-4000-8000-000000000000", Text: "b", Priority: model.PriorityLow},
	}
	if err := store.SaveTasks(context.Background(), tasks); err != nil {
		t.Fatalf("save tasks: %v", err)
	}
	if err := store.SaveTasks(context.Background(), tasks[1:]); err != nil {
		t.Fatalf("save tasks: %v", err)
	}

	snap, _, err := store.LastSnapshot(context.Background())
	if err != nil {
		t.Fatalf("last snapshot: %v", err)
	}
	if snap.LastID != 3 {
		t.Fatalf("expected last id to stay at 3, got %d", snap.LastID)
	}
}

func TestAutosaveConcurrentAddsKeepLatestState(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	manager := tasklist.New()
	manager.Subscribe(store.Autosave(context.Background(), manager, zerolog.Nop()))

	var wg sync.WaitGroup
	for worker := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 10 {
				manager.Add(fmt.Sprintf("worker %d task %d", worker, i))
			}
		}()
	}
	wg.Wait()

	tasks, ok, err := store.LoadTasks(context.Background())
	if err != nil || !ok {
		t.Fatalf("load tasks: ok=%v err=%v", ok, err)
	}
	if len(tasks) != manager.Len() {
		t.Fatalf("expected snapshot to hold %d tasks, got %d", manager.Len(), len(tasks))
	}
	for i, task := range manager.Tasks() {
		if tasks[i].ID != task.ID {
			t.Fatalf("position %d: expected id %q, got %q", i, task.ID, tasks[i].ID)
		}
	}
}

func TestOpenFileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskflow.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	store := NewStore(first)
	store.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	if err := store.SaveTasks(context.Background(), seed.Default()[:2]); err != nil {
		t.Fatalf("save tasks: %v", err)
	}
	_ = first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer second.Close()

	reopened := NewStore(second)
	tasks, ok, err := reopened.LoadTasks(context.Background())
	if err != nil || !ok {
		t.Fatalf("load after reopen: ok=%v err=%v", ok, err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	snap, _, err := reopened.LastSnapshot(context.Background())
	if err != nil {
		t.Fatalf("last snapshot: %v", err)
	}
	if !snap.SavedAt.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected saved_at %v", snap.SavedAt)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func newTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return NewStore(db), func() {
		_ = db.Close()
	}
}
