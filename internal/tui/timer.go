package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ecemunal/planline/internal/model"
	"github.com/ecemunal/planline/internal/store"
)

// timerModel manages the timing logic separate from display. The store is
// the source of truth; this model only mirrors the running log so the view
// can tick a live elapsed counter between store calls.
type timerModel struct {
	store *store.Store

	logID     string
	itemID    string
	itemTitle string
	startTime time.Time
	elapsed   time.Duration
}

func newTimerModel(s *store.Store) timerModel {
	return timerModel{store: s}
}

func (t *timerModel) start(item model.Item, notes string) error {
	log, err := t.store.StartTimeLog(item.ID, notes)
	if err != nil {
		return err
	}
	t.logID = log.ID
	t.itemID = item.ID
	t.itemTitle = item.Title
	t.startTime = log.StartTime
	t.elapsed = 0
	return nil
}

func (t *timerModel) stop() (*model.TimeLog, error) {
	if !t.running() {
		return nil, nil
	}
	log, err := t.store.EndTimeLog(t.logID)
	if err != nil {
		return nil, err
	}
	t.logID = ""
	t.itemID = ""
	t.itemTitle = ""
	t.elapsed = 0
	return &log, nil
}

func (t *timerModel) tick() {
	if t.running() {
		t.elapsed = time.Since(t.startTime)
	}
}

func (t timerModel) running() bool {
	return t.logID != ""
}

func (t timerModel) currentElapsed() time.Duration {
	if !t.running() {
		return 0
	}
	return time.Since(t.startTime)
}

// timerTabModel is the Timer view: a large clock, an item picker to start
// tracking and the most recent logs.
type timerTabModel struct {
	store  *store.Store
	timer  timerModel
	width  int
	height int

	items  []model.Item
	recent []model.TimeLog
	titles map[string]string

	picking      bool
	pickerCursor int
}

func newTimerTabModel(s *store.Store) timerTabModel {
	return timerTabModel{
		store: s,
		timer: newTimerModel(s),
	}
}

func (t timerTabModel) Init() tea.Cmd {
	return t.loadData()
}

func (t *timerTabModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t timerTabModel) isRunning() bool { return t.timer.running() }
func (t timerTabModel) elapsed() time.Duration {
	return t.timer.currentElapsed()
}

func (t timerTabModel) loadData() tea.Cmd {
	return func() tea.Msg {
		items := t.store.Items()
		titles := make(map[string]string, len(items))
		for _, it := range items {
			titles[it.ID] = it.Title
		}

		logs := t.store.Logs()
		if len(logs) > 5 {
			logs = logs[:5]
		}

		return logsDataMsg{logs: logs, titles: titles}
	}
}

func (t timerTabModel) update(msg tea.Msg) (timerTabModel, tea.Cmd) {
	switch msg := msg.(type) {
	case logsDataMsg:
		t.items = t.store.Items()
		t.recent = msg.logs
		t.titles = msg.titles
		if t.pickerCursor >= len(t.items) {
			t.pickerCursor = max(0, len(t.items)-1)
		}
		return t, nil

	case tickMsg:
		t.timer.tick()
		return t, nil

	case tea.KeyMsg:
		if t.picking {
			return t.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Start):
			if t.timer.running() {
				return t, nil
			}
			if len(t.items) == 0 {
				return t, func() tea.Msg {
					return statusMsg{text: "Nothing to track. Press 1 for the board and n to add an item.", isError: true}
				}
			}
			if len(t.items) == 1 {
				item := t.items[0]
				return t, func() tea.Msg { return startRequestMsg{item: item} }
			}
			t.picking = true
			t.pickerCursor = 0
			return t, nil
		}
	}
	return t, nil
}

func (t timerTabModel) updatePicker(msg tea.KeyMsg) (timerTabModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if t.pickerCursor > 0 {
			t.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if t.pickerCursor < len(t.items)-1 {
			t.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		item := t.items[t.pickerCursor]
		t.picking = false
		return t, func() tea.Msg { return startRequestMsg{item: item} }
	case key.Matches(msg, keys.Back):
		t.picking = false
	}
	return t, nil
}

// startItem is called by the app when any view requests tracking to begin.
func (t timerTabModel) startItem(item model.Item) (timerTabModel, tea.Cmd) {
	if err := t.timer.start(item, ""); err != nil {
		return t, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	log, _ := t.store.ActiveTimeLog(item.ID)
	return t, tea.Batch(
		t.loadData(),
		func() tea.Msg { return timerStartedMsg{log: log} },
	)
}

func (t timerTabModel) stopTimer() (timerTabModel, tea.Cmd) {
	log, err := t.timer.stop()
	if err != nil {
		return t, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	if log == nil {
		return t, nil
	}
	stopped := *log
	return t, tea.Batch(
		t.loadData(),
		func() tea.Msg { return timerStoppedMsg{log: stopped} },
	)
}

func (t timerTabModel) view() string {
	if t.width < 20 {
		return "Terminal too small"
	}

	contentWidth := t.width - 4

	timerPanel := t.renderTimerPanel(contentWidth)

	var bottomPanel string
	if t.picking {
		bottomPanel = t.renderItemPicker(contentWidth)
	} else {
		bottomPanel = t.renderRecentPanel(contentWidth)
	}

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, bottomPanel)
}

func (t timerTabModel) renderTimerPanel(w int) string {
	if t.timer.running() {
		timeStr := formatDuration(t.timer.currentElapsed())
		timeDisplay := timerRunningStyle.Width(w - 6).Render(timeStr)
		indicator := successStyle.Render("●  TRACKING")
		itemLine := highlightStyle.Render(t.timer.itemTitle)

		content := lipgloss.JoinVertical(lipgloss.Center,
			timeDisplay,
			indicator,
			itemLine,
		)
		return activePanelStyle.Width(w).Render(content)
	}

	timeDisplay := timerStyle.Width(w - 6).Render("00:00:00")
	indicator := mutedStyle.Render("■  STOPPED")
	hint := mutedStyle.Render("Press s to start tracking")

	content := lipgloss.JoinVertical(lipgloss.Center,
		timeDisplay,
		indicator,
		hint,
	)
	return panelStyle.Width(w).Render(content)
}

func (t timerTabModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Logs")
	if len(t.recent) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No logs yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for _, l := range t.recent {
		name := t.titles[l.ItemID]
		if name == "" {
			name = "?"
		}
		dur := formatSeconds(l.Duration)
		startStr := l.StartTime.Local().Format("Jan 02 15:04")
		status := "✓"
		if l.EndTime == nil {
			status = "●"
			dur = "running"
		}
		row := fmt.Sprintf("  %s %s  %-24s %s", status, startStr, name, dur)
		rows = append(rows, row)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (t timerTabModel) renderItemPicker(w int) string {
	title := titleStyle.Render("Select Item")

	var rows []string
	rows = append(rows, title)
	for i, it := range t.items {
		cursor := "  "
		style := normalItemStyle
		if i == t.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		label := fmt.Sprintf("%s%s %s", cursor, categoryLabel(it.Category), it.Title)
		rows = append(rows, style.Render(label))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: select  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
