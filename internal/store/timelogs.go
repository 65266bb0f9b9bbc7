package store

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/ecemunal/planline/internal/dateutil"
	"github.com/ecemunal/planline/internal/model"
)

// StartTimeLog opens a new log for the item at the current time. If the
// item already has an active log it is closed first, so at most one log
// per item is ever active. The item's status moves to in_progress.
func (s *Store) StartTimeLog(itemID, notes string) (model.TimeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findItemLocked(itemID)
	if item == nil {
		return model.TimeLog{}, ErrNotFound
	}

	now := s.now()
	for i := range s.logs {
		if s.logs[i].ItemID == itemID && s.logs[i].Active() {
			d, err := dateutil.Duration(s.logs[i].StartTime, now)
			if err != nil {
				return model.TimeLog{}, fmt.Errorf("close active log: %w", err)
			}
			end := now
			s.logs[i].EndTime = &end
			s.logs[i].Duration = d
			s.logs[i].UpdatedAt = now
		}
	}

	log := model.TimeLog{
		ID:        uuid.NewString(),
		ItemID:    itemID,
		StartTime: now,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.logs = append(s.logs, log)

	item.Status = model.StatusInProgress
	item.UpdatedAt = now

	s.markDirty()
	return cloneLog(log), nil
}

// EndTimeLog closes the log at the current time and derives its duration.
// Calling it on an already-closed log is a no-op that returns the log
// unchanged, duration and UpdatedAt included.
func (s *Store) EndTimeLog(logID string) (model.TimeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.findLogLocked(logID)
	if log == nil {
		return model.TimeLog{}, ErrNotFound
	}
	if !log.Active() {
		return cloneLog(*log), nil
	}

	now := s.now()
	d, err := dateutil.Duration(log.StartTime, now)
	if err != nil {
		return model.TimeLog{}, fmt.Errorf("end log: %w", err)
	}
	end := now
	log.EndTime = &end
	log.Duration = d
	log.UpdatedAt = now

	s.markDirty()
	return cloneLog(*log), nil
}

// UpdateLogNotes replaces the log's notes. Notes stay editable after the
// log is closed; everything else on a closed log is immutable.
func (s *Store) UpdateLogNotes(logID, notes string) (model.TimeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.findLogLocked(logID)
	if log == nil {
		return model.TimeLog{}, ErrNotFound
	}
	log.Notes = notes
	log.UpdatedAt = s.now()

	s.markDirty()
	return cloneLog(*log), nil
}

// ActiveTimeLog returns the item's running log, if any.
func (s *Store) ActiveTimeLog(itemID string) (model.TimeLog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.logs {
		if s.logs[i].ItemID == itemID && s.logs[i].Active() {
			return cloneLog(s.logs[i]), true
		}
	}
	return model.TimeLog{}, false
}

// LogsByItem returns all logs for the item, most recent start first.
func (s *Store) LogsByItem(itemID string) []model.TimeLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.TimeLog
	for i := range s.logs {
		if s.logs[i].ItemID == itemID {
			out = append(out, cloneLog(s.logs[i]))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out
}

// Logs returns every log in the store, most recent start first.
func (s *Store) Logs() []model.TimeLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.TimeLog, 0, len(s.logs))
	for i := range s.logs {
		out = append(out, cloneLog(s.logs[i]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out
}

func (s *Store) findLogLocked(id string) *model.TimeLog {
	for i := range s.logs {
		if s.logs[i].ID == id {
			return &s.logs[i]
		}
	}
	return nil
}
