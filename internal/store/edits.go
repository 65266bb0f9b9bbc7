package store

import "errors"

// EditField names an item field an inline edit can touch.
type EditField string

const (
	EditFieldTitle       EditField = "title"
	EditFieldDescription EditField = "description"
)

var errInvalidEditField = errors.New("invalid edit field")

// PendingEdit describes the single in-flight inline edit: which item and
// field, and the value to restore on cancel.
type PendingEdit struct {
	ItemID   string
	Field    EditField
	Original string
}

// StartEdit captures the field's current value so a later CancelEdit can
// roll it back. Only one edit is pending store-wide: starting a new edit
// while one is pending overwrites the previous descriptor without
// restoring it, so the abandoned original value is lost.
func (s *Store) StartEdit(itemID string, field EditField) error {
	if field != EditFieldTitle && field != EditFieldDescription {
		return errInvalidEditField
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findItemLocked(itemID)
	if item == nil {
		return ErrNotFound
	}

	original := item.Title
	if field == EditFieldDescription {
		original = item.Description
	}
	s.pending = &PendingEdit{ItemID: itemID, Field: field, Original: original}
	return nil
}

// CommitEdit accepts the current field value and clears the descriptor.
func (s *Store) CommitEdit() (PendingEdit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return PendingEdit{}, ErrNoPendingEdit
	}
	edit := *s.pending
	s.pending = nil
	return edit, nil
}

// CancelEdit restores the original value captured by StartEdit and clears
// the descriptor. If the item was deleted meanwhile the descriptor is
// cleared and there is nothing to restore.
func (s *Store) CancelEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return ErrNoPendingEdit
	}
	edit := *s.pending
	s.pending = nil

	item := s.findItemLocked(edit.ItemID)
	if item == nil {
		return nil
	}

	switch edit.Field {
	case EditFieldTitle:
		item.Title = edit.Original
	case EditFieldDescription:
		item.Description = edit.Original
	}
	item.UpdatedAt = s.now()

	s.markDirty()
	return nil
}

// Pending returns the current edit descriptor, if any.
func (s *Store) Pending() (PendingEdit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return PendingEdit{}, false
	}
	return *s.pending, true
}
