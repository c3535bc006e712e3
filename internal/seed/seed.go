// Package seed provides the initial task collection, either the built-in
// sample tasks or a YAML file.
package seed

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Joseda-hg/taskflow/internal/model"
	"gopkg.in/yaml.v3"
)

var (
	// ErrDuplicateID is returned when two seed tasks share an id.
	ErrDuplicateID = errors.New("duplicate task id")
	// ErrEmptyText is returned when a seed task has blank text.
	ErrEmptyText = errors.New("task text is empty")
	ErrMissingID = errors.New("task id is empty")
)

// File is the on-disk seed layout.
type File struct {
	Tasks []model.Task `yaml:"tasks"`
}

// Default returns the five sample tasks.
func Default() []model.Task {
	return []model.Task{
		{ID: "1", Text: "Design the new landing page", Completed: false, CreatedAt: day(2024, 1, 15), Priority: model.PriorityHigh},
		{ID: "2", Text: "Review code changes for authentication", Completed: true, CreatedAt: day(2024, 1, 14), Priority: model.PriorityMedium},
		{ID: "3", Text: "Update project documentation", Completed: false, CreatedAt: day(2024, 1, 13), Priority: model.PriorityLow},
		{ID: "4", Text: "Schedule team meeting for next week", Completed: true, CreatedAt: day(2024, 1, 12), Priority: model.PriorityMedium},
		{ID: "5", Text: "Implement dark mode toggle", Completed: false, CreatedAt: day(2024, 1, 11), Priority: model.PriorityHigh},
	}
}

// Load reads and validates a YAML seed file.
func Load(path string) ([]model.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return Parse(data, time.Now())
}

// Parse validates seed content. Tasks without a creation time get now.
func Parse(data []byte, now time.Time) ([]model.Task, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Tasks))
	tasks := make([]model.Task, 0, len(file.Tasks))
	for i, task := range file.Tasks {
		task.ID = strings.TrimSpace(task.ID)
		if task.ID == "" {
			return nil, fmt.Errorf("seed task %d: %w", i, ErrMissingID)
		}
		if _, ok := seen[task.ID]; ok {
			return nil, fmt.Errorf("seed task %q: %w", task.ID, ErrDuplicateID)
		}
		seen[task.ID] = struct{}{}

		task.Text = strings.TrimSpace(task.Text)
		if task.Text == "" {
			return nil, fmt.Errorf("seed task %q: %w", task.ID, ErrEmptyText)
		}

		priority, ok := model.ParsePriority(string(task.Priority))
		if !ok {
			return nil, fmt.Errorf("seed task %q: invalid priority %q", task.ID, task.Priority)
		}
		task.Priority = priority

		if task.CreatedAt.IsZero() {
			task.CreatedAt = now
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
