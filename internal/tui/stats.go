package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ecemunal/planline/internal/model"
	"github.com/ecemunal/planline/internal/store"
)

type statsWindow int

const (
	statsWeek statsWindow = iota
	statsMonth
)

// statsModel is the Stats view: a bar chart of tracked time per day plus
// the rolling totals and the per-item breakdown.
type statsModel struct {
	store  *store.Store
	width  int
	height int

	window statsWindow
	stats  model.TimeStats
	days   []model.DayAggregate
	titles map[string]string

	chart barchart.Model
}

func newStatsModel(s *store.Store) statsModel {
	return statsModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (r *statsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r statsModel) windowDays() int {
	if r.window == statsMonth {
		return model.WindowMonth
	}
	return model.WindowWeek
}

func (r statsModel) refresh() tea.Cmd {
	days := r.windowDays()
	return func() tea.Msg {
		stats := r.store.TimeStats("")
		items := r.store.Items()
		titles := make(map[string]string, len(items))
		for _, it := range items {
			titles[it.ID] = it.Title
		}
		return statsDataMsg{
			stats:  stats,
			days:   r.store.DayAggregates(days),
			titles: titles,
		}
	}
}

func (r statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		r.stats = msg.stats
		r.days = msg.days
		r.titles = msg.titles
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
			if r.window == statsWeek {
				r.window = statsMonth
			} else {
				r.window = statsWeek
			}
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *statsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	barStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	emptyStyle := lipgloss.NewStyle().Foreground(colorSubtle)

	var bars []barchart.BarData
	for _, d := range r.days {
		label := d.Date
		if t, err := time.ParseInLocation("2006-01-02", d.Date, time.Local); err == nil {
			label = t.Format("Mon 02")
			if r.window == statsMonth {
				label = t.Format("02")
			}
		}

		hours := float64(d.TotalSeconds) / 3600.0
		style := barStyle
		if d.TotalSeconds == 0 {
			style = emptyStyle
		}

		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: d.Date, Value: hours, Style: style},
			},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r statsModel) view() string {
	w := r.width - 4

	weekTab := inactiveTabStyle.Render("7 days")
	monthTab := inactiveTabStyle.Render("30 days")
	if r.window == statsWeek {
		weekTab = activeTabStyle.Render("7 days")
	} else {
		monthTab = activeTabStyle.Render("30 days")
	}
	windowTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, weekTab, monthTab)

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ", windowTabs,
	)

	chartView := r.chart.View()
	totalsView := r.renderTotals()
	itemsView := r.renderItemTable(w)

	nav := mutedStyle.Render("  ←/→: switch window")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", totalsView, "", itemsView, "", nav,
		),
	)
}

func (r statsModel) renderTotals() string {
	row := fmt.Sprintf("  Today %s   7d %s (avg %s)   30d %s (avg %s)",
		highlightStyle.Render(formatSeconds(r.stats.Today)),
		formatSeconds(r.stats.Last7Days),
		formatHours(r.stats.AveragePerDay7),
		formatSeconds(r.stats.Last30Days),
		formatHours(r.stats.AveragePerDay30),
	)
	return row
}

func (r statsModel) renderItemTable(w int) string {
	if len(r.stats.PerItem) == 0 {
		return mutedStyle.Render("  No tracked time yet")
	}

	type itemTotal struct {
		id    string
		total int64
	}
	totals := make([]itemTotal, 0, len(r.stats.PerItem))
	for id, secs := range r.stats.PerItem {
		totals = append(totals, itemTotal{id: id, total: secs})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].total > totals[j].total })
	if len(totals) > 8 {
		totals = totals[:8]
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-36s %10s", "Item", "Total"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 48))))

	for _, t := range totals {
		name := r.titles[t.id]
		if name == "" {
			name = "(deleted)"
		}
		rows = append(rows, fmt.Sprintf("  %-36s %10s", name, formatSeconds(t.total)))
	}

	return strings.Join(rows, "\n")
}
