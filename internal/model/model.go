package model

import "time"

// SchemaVersion tags the persisted state blob. Loading a blob with a
// different version resets state; there is no migration path.
const SchemaVersion = 1

// Field length limits enforced on create/update.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
)

// Analytics window sizes in days.
const (
	WindowWeek  = 7
	WindowMonth = 30
	WindowYear  = 365
)

// Status of a planner item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
)

// DefaultStatus is assigned to newly created items.
const DefaultStatus = StatusPending

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// Priority of a planner item.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// DefaultPriority is assigned when create params leave priority empty.
const DefaultPriority = PriorityMedium

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Category groups items into board columns. Order is contiguous per category.
type Category string

const (
	CategoryToday    Category = "today"
	CategoryUpcoming Category = "upcoming"
	CategoryHabits   Category = "habits"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryToday, CategoryUpcoming, CategoryHabits:
		return true
	}
	return false
}

// Categories lists all categories in board order.
var Categories = []Category{CategoryToday, CategoryUpcoming, CategoryHabits}

// Item is a user-managed unit of work or habit.
type Item struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Status           Status     `json:"status"`
	Priority         Priority   `json:"priority"`
	Category         Category   `json:"category"`
	ScheduledDate    *time.Time `json:"scheduled_date,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	EstimatedSeconds int64      `json:"estimated_seconds,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
	Recurrence       string     `json:"recurrence,omitempty"`
	Order            int        `json:"order"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// TimeLog records one continuous tracked interval against an item.
// A log with no EndTime is active; Duration is set iff EndTime is set.
type TimeLog struct {
	ID        string     `json:"id"`
	ItemID    string     `json:"item_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Duration  int64      `json:"duration,omitempty"` // whole seconds
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Active reports whether the log is still running.
func (l TimeLog) Active() bool {
	return l.EndTime == nil
}

// State is the persisted blob: the full collections plus a version tag.
type State struct {
	Version int       `json:"version"`
	Items   []Item    `json:"items"`
	Logs    []TimeLog `json:"logs"`
}

// DayAggregate summarizes all time-log activity within one local calendar day.
// Derived on demand, never stored.
type DayAggregate struct {
	Date         string    `json:"date"` // YYYY-MM-DD
	TotalSeconds int64     `json:"total_seconds"`
	ItemCount    int       `json:"item_count"` // distinct items
	Logs         []TimeLog `json:"logs"`
}

// TimeStats is a derived snapshot over the current log collection.
type TimeStats struct {
	Today           int64            `json:"today"`
	Last7Days       int64            `json:"last_7_days"`
	Last30Days      int64            `json:"last_30_days"`
	AveragePerDay7  int64            `json:"average_per_day_7"`
	AveragePerDay30 int64            `json:"average_per_day_30"`
	Days            []DayAggregate   `json:"days"`
	PerItem         map[string]int64 `json:"per_item"`
}
