package tui

import (
	"fmt"
	"strings"

	"github.com/Joseda-hg/taskflow/internal/model"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiDim    = "\x1b[2m"
)

func priorityColor(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return ansiRed
	case model.PriorityMedium:
		return ansiYellow
	case model.PriorityLow:
		return ansiGreen
	default:
		return ""
	}
}

func formatPriority(p model.Priority) string {
	color := priorityColor(p)
	if color == "" {
		return string(p)
	}
	return color + string(p) + ansiReset
}

func checkbox(task model.Task) string {
	if task.Completed {
		return "[x]"
	}
	return "[ ]"
}

func formatTaskSummary(task model.Task) string {
	text := task.Text
	if task.Completed {
		text = ansiDim + text + ansiReset
	}
	return fmt.Sprintf("%s %s | %s | %s", checkbox(task), text, formatPriority(task.Priority), task.CreatedAt.Format("2006-01-02"))
}

// progressBar draws rate (0-100) into width cells.
func progressBar(rate, width int) string {
	if width <= 0 {
		return ""
	}
	rate = min(max(rate, 0), 100)
	filled := rate * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func formatStats(stats model.Stats, barWidth int) string {
	return fmt.Sprintf("Total %d   Completed %d   Active %d   Progress %s %d%%",
		stats.Total, stats.Completed, stats.Active, progressBar(stats.CompletionRate, barWidth), stats.CompletionRate)
}

func formatTabs(current model.View) string {
	parts := make([]string, 0, 3)
	for i, v := range model.Views() {
		label := fmt.Sprintf("%d %s", i+1, v.Label())
		if v == current {
			label = "[" + label + "]"
		} else {
			label = " " + label + " "
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func statusLabel(task model.Task) string {
	if task.Completed {
		return "completed"
	}
	return "active"
}
