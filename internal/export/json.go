package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ecemunal/planline/internal/model"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	ItemCount  int        `json:"item_count"`
	LogCount   int        `json:"log_count"`
	Items      []jsonItem `json:"items"`
	Logs       []jsonLog  `json:"logs"`
}

type jsonItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	CompletedAt string   `json:"completed_at,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

type jsonLog struct {
	ID          string `json:"id"`
	Item        string `json:"item"`
	ItemID      string `json:"item_id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time,omitempty"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
	Notes       string `json:"notes,omitempty"`
}

func ToJSON(items []model.Item, logs []model.TimeLog, path string) error {
	titles := make(map[string]string, len(items))
	for _, it := range items {
		titles[it.ID] = it.Title
	}

	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		ItemCount:  len(items),
		LogCount:   len(logs),
	}

	for _, it := range items {
		ji := jsonItem{
			ID:          it.ID,
			Title:       it.Title,
			Description: it.Description,
			Status:      string(it.Status),
			Priority:    string(it.Priority),
			Category:    string(it.Category),
			Tags:        it.Tags,
			CreatedAt:   it.CreatedAt.Local().Format(time.RFC3339),
		}
		if it.DueDate != nil {
			ji.DueDate = it.DueDate.Local().Format(time.RFC3339)
		}
		if it.CompletedAt != nil {
			ji.CompletedAt = it.CompletedAt.Local().Format(time.RFC3339)
		}
		export.Items = append(export.Items, ji)
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

		export.Logs = append(export.Logs, jsonLog{
			ID:          l.ID,
			Item:        title,
			ItemID:      l.ItemID,
			StartTime:   l.StartTime.Local().Format(time.RFC3339),
			EndTime:     endStr,
			DurationSec: l.Duration,
			Duration:    formatDuration(l.Duration),
			Notes:       l.Notes,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
