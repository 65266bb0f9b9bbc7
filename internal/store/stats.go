package store

import (
	"math"
	"time"

	"github.com/ecemunal/planline/internal/dateutil"
	"github.com/ecemunal/planline/internal/model"
)

// DayAggregates buckets all closed logs by the local day of their start
// time over the trailing window [today-(windowDays-1), today]. The result
// always holds exactly windowDays buckets in ascending date order; days
// with no activity are zero buckets.
func (s *Store) DayAggregates(windowDays int) []model.DayAggregate {
	s.mu.Lock()
	logs := make([]model.TimeLog, 0, len(s.logs))
	for i := range s.logs {
		logs = append(logs, cloneLog(s.logs[i]))
	}
	now := s.now()
	s.mu.Unlock()

	return dayAggregates(logs, windowDays, now)
}

func dayAggregates(logs []model.TimeLog, windowDays int, now time.Time) []model.DayAggregate {
	if windowDays < 1 {
		return nil
	}

	start := dateutil.StartOfDay(now).AddDate(0, 0, -(windowDays - 1))
	days := dateutil.EnumerateDays(start, now)

	buckets := make(map[string]*model.DayAggregate, len(days))
	out := make([]model.DayAggregate, len(days))
	for i, day := range days {
		out[i] = model.DayAggregate{Date: day, Logs: []model.TimeLog{}}
		buckets[day] = &out[i]
	}

	contributors := make(map[string]map[string]struct{}, len(days))
	for _, l := range logs {
		if l.Active() {
			continue
		}
		key := dateutil.DayKey(l.StartTime)
		b, ok := buckets[key]
		if !ok {
			// Outside the window.
			continue
		}
		b.TotalSeconds += l.Duration
		b.Logs = append(b.Logs, l)
		if contributors[key] == nil {
			contributors[key] = make(map[string]struct{})
		}
		contributors[key][l.ItemID] = struct{}{}
		b.ItemCount = len(contributors[key])
	}

	return out
}

// TimeStats derives the stats snapshot over all logs, or over a single
// item's logs when itemID is non-empty. The day series covers 30 days for
// the global view and a full year when scoped to one item.
func (s *Store) TimeStats(itemID string) model.TimeStats {
	s.mu.Lock()
	logs := make([]model.TimeLog, 0, len(s.logs))
	for i := range s.logs {
		if itemID != "" && s.logs[i].ItemID != itemID {
			continue
		}
		logs = append(logs, cloneLog(s.logs[i]))
	}
	now := s.now()
	s.mu.Unlock()

	midnight := dateutil.StartOfDay(now)
	weekStart := midnight.AddDate(0, 0, -model.WindowWeek)
	monthStart := midnight.AddDate(0, 0, -model.WindowMonth)

	stats := model.TimeStats{PerItem: make(map[string]int64)}
	for _, l := range logs {
		if l.Active() {
			continue
		}
		if !l.StartTime.Before(midnight) {
			stats.Today += l.Duration
		}
		if !l.StartTime.Before(weekStart) {
			stats.Last7Days += l.Duration
		}
		if !l.StartTime.Before(monthStart) {
			stats.Last30Days += l.Duration
		}
		stats.PerItem[l.ItemID] += l.Duration
	}

	stats.AveragePerDay7 = roundDiv(stats.Last7Days, model.WindowWeek)
	stats.AveragePerDay30 = roundDiv(stats.Last30Days, model.WindowMonth)

	window := model.WindowMonth
	if itemID != "" {
		window = model.WindowYear
	}
	stats.Days = dayAggregates(logs, window, now)

	return stats
}

func roundDiv(total int64, days int) int64 {
	return int64(math.Round(float64(total) / float64(days)))
}
