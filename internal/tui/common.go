package tui

import (
	"fmt"
	"time"

	"github.com/ecemunal/planline/internal/model"
)

// viewState represents the currently active view.
type viewState int

const (
	viewBoard viewState = iota
	viewTimer
	viewStats
)

var viewNames = []string{"Board", "Timer", "Stats"}

// --- Messages ---

type timerStartedMsg struct {
	log model.TimeLog
}

type timerStoppedMsg struct {
	log model.TimeLog
}

// startRequestMsg asks the app to start tracking the given item,
// regardless of which view issued the request.
type startRequestMsg struct {
	item model.Item
}

type boardDataMsg struct {
	items []model.Item
}

type statsDataMsg struct {
	stats  model.TimeStats
	days   []model.DayAggregate
	titles map[string]string
}

type logsDataMsg struct {
	logs   []model.TimeLog
	titles map[string]string
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatHours(secs int64) string {
	h := float64(secs) / 3600
	return fmt.Sprintf("%.1fh", h)
}

func categoryLabel(c model.Category) string {
	switch c {
	case model.CategoryToday:
		return "Today"
	case model.CategoryUpcoming:
		return "Upcoming"
	case model.CategoryHabits:
		return "Habits"
	}
	return string(c)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
