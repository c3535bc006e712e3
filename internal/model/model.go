package model

import (
	"math"
	"strings"
	"time"
)

type Task struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Completed bool      `json:"completed" yaml:"completed"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Priority  Priority  `json:"priority" yaml:"priority"`
}

// Priority is the importance label shown next to a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ParsePriority normalizes value. Empty input means medium.
func ParsePriority(value string) (Priority, bool) {
	trimmed := Priority(strings.ToLower(strings.TrimSpace(value)))
	if trimmed == "" {
		return PriorityMedium, true
	}
	return trimmed, IsValidPriority(trimmed)
}

// PriorityOrder returns the display rank of p (lower = more important).
func PriorityOrder(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// View selects which tasks a listing shows.
type View string

const (
	ViewAll       View = "all"
	ViewActive    View = "active"
	ViewCompleted View = "completed"
)

func Views() []View {
	return []View{ViewAll, ViewActive, ViewCompleted}
}

// ParseView maps value to a View, falling back to ViewAll.
func ParseView(value string) View {
	switch View(strings.ToLower(strings.TrimSpace(value))) {
	case ViewActive:
		return ViewActive
	case ViewCompleted:
		return ViewCompleted
	default:
		return ViewAll
	}
}

func (v View) Next() View {
	switch v {
	case ViewAll:
		return ViewActive
	case ViewActive:
		return ViewCompleted
	default:
		return ViewAll
	}
}

func (v View) Label() string {
	switch v {
	case ViewActive:
		return "Active"
	case ViewCompleted:
		return "Completed"
	default:
		return "All Tasks"
	}
}

func (v View) Match(task Task) bool {
	switch v {
	case ViewActive:
		return !task.Completed
	case ViewCompleted:
		return task.Completed
	default:
		return true
	}
}

type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Active         int `json:"active"`
	CompletionRate int `json:"completion_rate"`
}

func ComputeStats(tasks []Task) Stats {
	stats := Stats{Total: len(tasks)}
	for _, task := range tasks {
		if task.Completed {
			stats.Completed++
		}
	}
	stats.Active = stats.Total - stats.Completed
	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) * 100 / float64(stats.Total)))
	}
	return stats
}
