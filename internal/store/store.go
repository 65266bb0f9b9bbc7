// Package store owns the authoritative task and time-log collections.
// All mutations go through it; reads return copies so no caller ever holds
// a mutable alias into the collections. Derived statistics are recomputed
// from the raw logs on every call.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/ecemunal/planline/internal/logger"
	"github.com/ecemunal/planline/internal/model"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleTooLong       = errors.New("title too long")
	ErrDescriptionTooLong = errors.New("description too long")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrNoPendingEdit      = errors.New("no pending edit")
)

// Persister is the durable storage the store loads from at startup and
// writes the full state to after every mutation.
type Persister interface {
	Load() (*model.State, error)
	Save(model.State) error
}

// Store is the stateful planner core.
type Store struct {
	mu      sync.Mutex
	items   []model.Item
	logs    []model.TimeLog
	pending *PendingEdit

	now       func() time.Time
	persister Persister

	dirty chan struct{}
	done  chan struct{}
	wg    sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New builds a store backed by p, loading any previously persisted state.
// A nil persister yields a purely in-memory store. A persisted blob with a
// mismatched schema version is discarded: state resets and the old data is
// lost (logged as a warning).
func New(p Persister, opts ...Option) (*Store, error) {
	s := &Store{
		now:       time.Now,
		persister: p,
		dirty:     make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if p != nil {
		st, err := p.Load()
		if err != nil {
			return nil, err
		}
		switch {
		case st == nil:
			// First run, nothing persisted yet.
		case st.Version != model.SchemaVersion:
			logger.Warn("state schema version mismatch, resetting",
				logger.F("found", st.Version), logger.F("want", model.SchemaVersion))
		default:
			s.items = st.Items
			s.logs = st.Logs
		}

		s.wg.Add(1)
		go s.persistLoop()
	}

	return s, nil
}

// persistLoop writes the state blob whenever a mutation signals dirty.
// Signals coalesce: the latest snapshot wins, so a burst of mutations
// produces one write.
func (s *Store) persistLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case <-s.dirty:
			if err := s.Flush(); err != nil {
				logger.Error("persist state", logger.F("error", err))
			}
		}
	}
}

// markDirty queues a persistence write without blocking the mutation.
// Safe with or without the lock held; it only touches the channel.
func (s *Store) markDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

// Flush synchronously persists the current state. In-memory state is
// already committed by the time Flush runs; a persistence failure is
// reported but never corrupts memory.
func (s *Store) Flush() error {
	if s.persister == nil {
		return nil
	}
	return s.persister.Save(s.snapshot())
}

// Close flushes outstanding state and stops the background writer.
func (s *Store) Close() error {
	if s.persister == nil {
		return nil
	}
	close(s.done)
	s.wg.Wait()
	return s.Flush()
}

func (s *Store) snapshot() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := model.State{
		Version: model.SchemaVersion,
		Items:   make([]model.Item, len(s.items)),
		Logs:    make([]model.TimeLog, len(s.logs)),
	}
	for i := range s.items {
		st.Items[i] = cloneItem(s.items[i])
	}
	copy(st.Logs, s.logs)
	return st
}

// cloneItem deep-copies the fields a caller could otherwise alias.
func cloneItem(it model.Item) model.Item {
	out := it
	if it.Tags != nil {
		out.Tags = append([]string(nil), it.Tags...)
	}
	if it.ScheduledDate != nil {
		d := *it.ScheduledDate
		out.ScheduledDate = &d
	}
	if it.DueDate != nil {
		d := *it.DueDate
		out.DueDate = &d
	}
	if it.CompletedAt != nil {
		d := *it.CompletedAt
		out.CompletedAt = &d
	}
	return out
}

func cloneLog(l model.TimeLog) model.TimeLog {
	out := l
	if l.EndTime != nil {
		e := *l.EndTime
		out.EndTime = &e
	}
	return out
}
