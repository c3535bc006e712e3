package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Joseda-hg/taskflow/internal/config"
	"github.com/Joseda-hg/taskflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCapture(t, dir, args...)
	return out, err
}

func runCapture(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRoot("test")
	var out, errOut bytes.Buffer
	root.Writer = &out
	root.ErrWriter = &errOut
	argv := append([]string{"taskflow", "--config", filepath.Join(dir, "config.yaml")}, args...)
	err := root.Run(context.Background(), argv)
	return out.String(), errOut.String(), err
}

func TestStatsBuiltinSeed(t *testing.T) {
	out, err := run(t, t.TempDir(), "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 5")
	assert.Contains(t, out, "Completed: 2")
	assert.Contains(t, out, "Active: 3")
	assert.Contains(t, out, "Completion rate: 40%")
}

func TestStatsJSON(t *testing.T) {
	out, err := run(t, t.TempDir(), "stats", "--json")
	require.NoError(t, err)

	var stats model.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, model.Stats{Total: 5, Completed: 2, Active: 3, CompletionRate: 40}, stats)
}

func TestListFilterJSON(t *testing.T) {
	out, err := run(t, t.TempDir(), "list", "--filter", "completed", "--json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	var ids []string
	for _, line := range lines {
		var task model.Task
		require.NoError(t, json.Unmarshal([]byte(line), &task))
		assert.True(t, task.Completed)
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"2", "4"}, ids)
}

func TestListTable(t *testing.T) {
	out, err := run(t, t.TempDir(), "list", "--filter", "active")
	require.NoError(t, err)
	assert.Contains(t, out, "PRIORITY")
	assert.Contains(t, out, "Design the new landing page")
	assert.NotContains(t, out, "Review code changes for authentication")
}

func TestListEmptyViewReportsOnStderr(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte("tasks:\n  - id: a\n    text: Water plants\n"), 0o644))

	out, errOut, err := runCapture(t, dir, "--seed", seedPath, "list", "--filter", "completed")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, "No tasks found\n", errOut)
}

func TestListRejectsUnknownFilter(t *testing.T) {
	_, err := run(t, t.TempDir(), "list", "--filter", "someday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown filter")
}

func TestSeedFileFlag(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte("tasks:\n  - id: a\n    text: Water plants\n    completed: true\n"), 0o644))

	out, err := run(t, dir, "--seed", seedPath, "stats", "--json")
	require.NoError(t, err)

	var stats model.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, model.Stats{Total: 1, Completed: 1, Active: 0, CompletionRate: 100}, stats)
}

func TestInvalidIDSchemeFails(t *testing.T) {
	_, err := run(t, t.TempDir(), "--id-scheme", "random", "stats")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidIDScheme)
}

func TestOverridesAreSavedAndLogsGoToFile(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "--id-scheme", "uuid", "--log-level", "debug", "stats")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.IDSchemeUUID, cfg.IDScheme)
	assert.Equal(t, "debug", cfg.LogLevel)

	data, err := os.ReadFile(filepath.Join(dir, "taskflow.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "task list loaded")
}

func TestSnapshotTakesPrecedenceOverSeed(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "taskflow.db")

	app := &App{}
	require.NoError(t, app.Setup(context.Background(), &Flags{
		ConfigPath: filepath.Join(dir, "config.yaml"),
		DBPath:     dbPath,
	}))
	created, ok := app.Tasks.Add("Buy milk")
	require.True(t, ok)
	assert.Equal(t, "6", created.ID)
	app.Tasks.Delete("1")
	app.Close()

	out, err := run(t, dir, "list", "--json")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)

	var first model.Task
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "Buy milk", first.Text)
	assert.NotContains(t, out, "Design the new landing page")
}

func TestDeletedIDsStayRetiredAcrossRestarts(t *testing.T) {
	dir := t.TempDir()
	flags := &Flags{
		ConfigPath: filepath.Join(dir, "config.yaml"),
		DBPath:     filepath.Join(dir, "taskflow.db"),
	}

	first := &App{}
	require.NoError(t, first.Setup(context.Background(), flags))
	created, ok := first.Tasks.Add("Buy milk")
	require.True(t, ok)
	require.Equal(t, "6", created.ID)
	first.Tasks.Delete(created.ID)
	first.Close()

	second := &App{}
	require.NoError(t, second.Setup(context.Background(), flags))
	defer second.Close()
	next, ok := second.Tasks.Add("Walk the dog")
	require.True(t, ok)
	assert.Equal(t, "7", next.ID)
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default()
	applyOverrides(&cfg, &Flags{Web: true, Port: 9090, DBPath: "tasks.db"})

	assert.True(t, cfg.WebEnabled)
	assert.Equal(t, 9090, cfg.WebPort)
	assert.Equal(t, "tasks.db", cfg.DBPath)
	assert.Equal(t, config.IDSchemeSequence, cfg.IDScheme)
}
