package store

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ecemunal/planline/internal/model"
)

// CreateParams carries the caller-settable fields of a new item.
type CreateParams struct {
	Title            string
	Description      string
	Category         model.Category
	Priority         model.Priority // empty means DefaultPriority
	ScheduledDate    *time.Time
	DueDate          *time.Time
	EstimatedSeconds int64
	Tags             []string
	Recurrence       string
}

// ItemUpdate is a typed partial update; nil fields are left unchanged.
// Scheduling fields are updated through UpdateSchedule so they can also
// be cleared.
type ItemUpdate struct {
	Title            *string
	Description      *string
	Priority         *model.Priority
	Category         *model.Category
	EstimatedSeconds *int64
	Tags             *[]string
	Recurrence       *string
}

// CreateItem validates params, assigns id and timestamps and appends the
// item at the end of its category (order = 1 + max existing, or 0).
func (s *Store) CreateItem(p CreateParams) (model.Item, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return model.Item{}, ErrTitleRequired
	}
	if len(title) > model.MaxTitleLen {
		return model.Item{}, ErrTitleTooLong
	}
	if len(p.Description) > model.MaxDescriptionLen {
		return model.Item{}, ErrDescriptionTooLong
	}
	if !p.Category.Valid() {
		return model.Item{}, ErrInvalidCategory
	}
	priority := p.Priority
	if priority == "" {
		priority = model.DefaultPriority
	}
	if !priority.Valid() {
		return model.Item{}, ErrInvalidPriority
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	item := model.Item{
		ID:               uuid.NewString(),
		Title:            title,
		Description:      p.Description,
		Status:           model.DefaultStatus,
		Priority:         priority,
		Category:         p.Category,
		ScheduledDate:    p.ScheduledDate,
		DueDate:          p.DueDate,
		EstimatedSeconds: p.EstimatedSeconds,
		Tags:             append([]string(nil), p.Tags...),
		Recurrence:       p.Recurrence,
		Order:            s.nextOrderLocked(p.Category),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.items = append(s.items, item)
	s.markDirty()
	return cloneItem(item), nil
}

// nextOrderLocked returns 1 + the highest order in the category, or 0.
func (s *Store) nextOrderLocked(cat model.Category) int {
	next := 0
	for i := range s.items {
		if s.items[i].Category == cat && s.items[i].Order >= next {
			next = s.items[i].Order + 1
		}
	}
	return next
}

// UpdateItem merges the non-nil fields of upd into the item. Moving an item
// to another category places it at the end of that category.
func (s *Store) UpdateItem(id string, upd ItemUpdate) (model.Item, error) {
	if upd.Title != nil {
		t := strings.TrimSpace(*upd.Title)
		if t == "" {
			return model.Item{}, ErrTitleRequired
		}
		if len(t) > model.MaxTitleLen {
			return model.Item{}, ErrTitleTooLong
		}
		upd.Title = &t
	}
	if upd.Description != nil && len(*upd.Description) > model.MaxDescriptionLen {
		return model.Item{}, ErrDescriptionTooLong
	}
	if upd.Priority != nil && !upd.Priority.Valid() {
		return model.Item{}, ErrInvalidPriority
	}
	if upd.Category != nil && !upd.Category.Valid() {
		return model.Item{}, ErrInvalidCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findItemLocked(id)
	if item == nil {
		return model.Item{}, ErrNotFound
	}

	if upd.Title != nil {
		item.Title = *upd.Title
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Priority != nil {
		item.Priority = *upd.Priority
	}
	if upd.Category != nil && *upd.Category != item.Category {
		item.Order = s.nextOrderLocked(*upd.Category)
		item.Category = *upd.Category
	}
	if upd.EstimatedSeconds != nil {
		item.EstimatedSeconds = *upd.EstimatedSeconds
	}
	if upd.Tags != nil {
		item.Tags = append([]string(nil), (*upd.Tags)...)
	}
	if upd.Recurrence != nil {
		item.Recurrence = *upd.Recurrence
	}
	item.UpdatedAt = s.now()

	s.markDirty()
	return cloneItem(*item), nil
}

// UpdateSchedule sets the scheduled and due dates; nil clears.
func (s *Store) UpdateSchedule(id string, scheduled, due *time.Time) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findItemLocked(id)
	if item == nil {
		return model.Item{}, ErrNotFound
	}
	item.ScheduledDate = scheduled
	item.DueDate = due
	item.UpdatedAt = s.now()

	s.markDirty()
	return cloneItem(*item), nil
}

// DeleteItem removes the item and cascades: every time log referencing it
// is removed too, an active one included (discarded, not closed).
func (s *Store) DeleteItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.items {
		if s.items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)

	kept := s.logs[:0]
	for _, l := range s.logs {
		if l.ItemID != id {
			kept = append(kept, l)
		}
	}
	s.logs = kept

	s.markDirty()
	return nil
}

// ToggleStatus sets the item's status. Transitioning to completed stamps
// CompletedAt; leaving completed does not clear it, so the last completion
// time survives an un-complete.
func (s *Store) ToggleStatus(id string, status model.Status) (model.Item, error) {
	if !status.Valid() {
		return model.Item{}, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findItemLocked(id)
	if item == nil {
		return model.Item{}, ErrNotFound
	}

	now := s.now()
	item.Status = status
	if status == model.StatusCompleted {
		done := now
		item.CompletedAt = &done
	}
	item.UpdatedAt = now

	s.markDirty()
	return cloneItem(*item), nil
}

// ArchiveItem is sugar for ToggleStatus(id, archived).
func (s *Store) ArchiveItem(id string) (model.Item, error) {
	return s.ToggleStatus(id, model.StatusArchived)
}

// ReorderItems assigns each listed id its index in orderedIDs as the new
// order within the category. Items not listed keep their old order; a
// partial list can therefore leave duplicates or gaps, which the caller
// avoids by passing the complete category.
func (s *Store) ReorderItems(category model.Category, orderedIDs []string) error {
	if !category.Valid() {
		return ErrInvalidCategory
	}

	index := make(map[string]int, len(orderedIDs))
	for i, id := range orderedIDs {
		index[id] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	changed := false
	for i := range s.items {
		if s.items[i].Category != category {
			continue
		}
		pos, ok := index[s.items[i].ID]
		if !ok {
			continue
		}
		if s.items[i].Order != pos {
			s.items[i].Order = pos
			s.items[i].UpdatedAt = now
			changed = true
		}
	}
	if changed {
		s.markDirty()
	}
	return nil
}

// ClearCompleted removes all completed items and returns how many were
// removed. Their time logs are kept and become orphaned references.
func (s *Store) ClearCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	removed := 0
	for _, it := range s.items {
		if it.Status == model.StatusCompleted {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	s.items = kept

	if removed > 0 {
		s.markDirty()
	}
	return removed
}

// GetItem returns the item by id, archived included.
func (s *Store) GetItem(id string) (model.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findItemLocked(id)
	if item == nil {
		return model.Item{}, false
	}
	return cloneItem(*item), true
}

// ItemsByCategory lists the category's non-archived items, order ascending.
func (s *Store) ItemsByCategory(category model.Category) []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Item
	for i := range s.items {
		if s.items[i].Category == category && s.items[i].Status != model.StatusArchived {
			out = append(out, cloneItem(s.items[i]))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Items lists all non-archived items, grouped by category then order.
func (s *Store) Items() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Item
	for i := range s.items {
		if s.items[i].Status != model.StatusArchived {
			out = append(out, cloneItem(s.items[i]))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Order < out[j].Order
	})
	return out
}

func (s *Store) findItemLocked(id string) *model.Item {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i]
		}
	}
	return nil
}
