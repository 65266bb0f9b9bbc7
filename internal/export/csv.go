package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/ecemunal/planline/internal/model"
)

func ToCSV(items []model.Item, logs []model.TimeLog, path string) error {
	titles := make(map[string]string, len(items))
	for _, it := range items {
		titles[it.ID] = it.Title
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Item", "Start", "End", "Duration (s)", "Duration", "Notes"}); err != nil {
		return err
	}

	for _, l := range logs {
		title := titles[l.ItemID]
		if title == "" {
			title = "Unknown"
		}
		endStr := ""
		if l.EndTime != nil {
			endStr = l.EndTime.Local().Format(time.RFC3339)
		}
		dur := formatDuration(l.Duration)

		row := []string{
			l.ID,
			title,
			l.StartTime.Local().Format(time.RFC3339),
			endStr,
			fmt.Sprintf("%d", l.Duration),
			dur,
			l.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
