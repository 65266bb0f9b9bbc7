package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ecemunal/planline/internal/model"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 6, 15, 10, 0, 0, 0, time.Local)}
	s, err := New(nil, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s, clock
}

func mustCreate(t *testing.T, s *Store, title string, cat model.Category) model.Item {
	t.Helper()
	item, err := s.CreateItem(CreateParams{Title: title, Category: cat})
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return item
}

// ============================================================
// Item creation
// ============================================================

func TestCreateItem(t *testing.T) {
	s, clock := newTestStore(t)

	item, err := s.CreateItem(CreateParams{
		Title:    "Write report",
		Category: model.CategoryToday,
		Tags:     []string{"work", "urgent"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if item.ID == "" {
		t.Fatal("expected non-empty id")
	}
	if item.Status != model.StatusPending {
		t.Fatalf("status = %s, want pending", item.Status)
	}
	if item.Priority != model.DefaultPriority {
		t.Fatalf("priority = %s, want default", item.Priority)
	}
	if item.Order != 0 {
		t.Fatalf("first item order = %d, want 0", item.Order)
	}
	if !item.CreatedAt.Equal(clock.t) || !item.UpdatedAt.Equal(clock.t) {
		t.Fatal("timestamps should come from the injected clock")
	}
	if item.CompletedAt != nil {
		t.Fatal("new item should not be completed")
	}
}

func TestCreateItemTrimsTitle(t *testing.T) {
	s, _ := newTestStore(t)
	item := mustCreate(t, s, "  padded  ", model.CategoryToday)
	if item.Title != "padded" {
		t.Fatalf("title = %q, want trimmed", item.Title)
	}
}

func TestCreateItemValidation(t *testing.T) {
	s, _ := newTestStore(t)

	long := make([]byte, model.MaxTitleLen+1)
	for i := range long {
		long[i] = 'a'
	}
	longDesc := make([]byte, model.MaxDescriptionLen+1)
	for i := range longDesc {
		longDesc[i] = 'b'
	}

	cases := []struct {
		name   string
		params CreateParams
		want   error
	}{
		{"empty title", CreateParams{Title: "   ", Category: model.CategoryToday}, ErrTitleRequired},
		{"long title", CreateParams{Title: string(long), Category: model.CategoryToday}, ErrTitleTooLong},
		{"long description", CreateParams{Title: "ok", Description: string(longDesc), Category: model.CategoryToday}, ErrDescriptionTooLong},
		{"bad category", CreateParams{Title: "ok", Category: "someday"}, ErrInvalidCategory},
		{"bad priority", CreateParams{Title: "ok", Category: model.CategoryToday, Priority: "asap"}, ErrInvalidPriority},
	}

	for _, tc := range cases {
		_, err := s.CreateItem(tc.params)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}

	// A rejected create must not leave partial state behind.
	if got := len(s.Items()); got != 0 {
		t.Fatalf("rejected creates leaked %d items", got)
	}
}

func TestCreateItemOrderPerCategory(t *testing.T) {
	s, _ := newTestStore(t)

	a := mustCreate(t, s, "first today", model.CategoryToday)
	b := mustCreate(t, s, "second today", model.CategoryToday)
	c := mustCreate(t, s, "first upcoming", model.CategoryUpcoming)

	if a.Order != 0 || b.Order != 1 {
		t.Fatalf("today orders = %d, %d; want 0, 1", a.Order, b.Order)
	}
	if c.Order != 0 {
		t.Fatalf("upcoming order = %d, want 0", c.Order)
	}
}

// ============================================================
// Item updates
// ============================================================

func TestUpdateItem(t *testing.T) {
	s, clock := newTestStore(t)
	item := mustCreate(t, s, "Old", model.CategoryToday)

	clock.Advance(time.Minute)
	title := "New"
	prio := model.PriorityUrgent
	updated, err := s.UpdateItem(item.ID, ItemUpdate{Title: &title, Priority: &prio})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "New" || updated.Priority != model.PriorityUrgent {
		t.Fatalf("update failed: %+v", updated)
	}
	if !updated.UpdatedAt.After(item.UpdatedAt) {
		t.Fatal("UpdatedAt should be refreshed")
	}
	if updated.Category != model.CategoryToday {
		t.Fatal("unset fields should be untouched")
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	title := "x"
	_, err := s.UpdateItem("missing", ItemUpdate{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateItemCategoryMove(t *testing.T) {
	s, _ := newTestStore(t)
	mustCreate(t, s, "up-0", model.CategoryUpcoming)
	item := mustCreate(t, s, "move me", model.CategoryToday)

	cat := model.CategoryUpcoming
	moved, err := s.UpdateItem(item.ID, ItemUpdate{Category: &cat})
	if err != nil {
		t.Fatal(err)
	}
	if moved.Category != model.CategoryUpcoming {
		t.Fatal("category not updated")
	}
	if moved.Order != 1 {
		t.Fatalf("moved item order = %d, want end of new category (1)", moved.Order)
	}
}

func TestUpdateSchedule(t *testing.T) {
	s, clock := newTestStore(t)
	item := mustCreate(t, s, "scheduled", model.CategoryUpcoming)

	due := clock.t.AddDate(0, 0, 3)
	updated, err := s.UpdateSchedule(item.ID, nil, &due)
	if err != nil {
		t.Fatal(err)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(due) {
		t.Fatal("due date not set")
	}

	// nil clears
	updated, _ = s.UpdateSchedule(item.ID, nil, nil)
	if updated.DueDate != nil {
		t.Fatal("nil should clear the due date")
	}
}

// ============================================================
// Status toggling
// ============================================================

func TestToggleStatusCompleted(t *testing.T) {
	s, clock := newTestStore(t)
	item := mustCreate(t, s, "done soon", model.CategoryToday)

	clock.Advance(time.Hour)
	done, err := s.ToggleStatus(item.ID, model.StatusCompleted)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != model.StatusCompleted {
		t.Fatalf("status = %s", done.Status)
	}
	if done.CompletedAt == nil || !done.CompletedAt.Equal(clock.t) {
		t.Fatal("CompletedAt should be stamped with now")
	}
}

func TestToggleStatusKeepsCompletedAt(t *testing.T) {
	s, clock := newTestStore(t)
	item := mustCreate(t, s, "flip flop", model.CategoryToday)

	s.ToggleStatus(item.ID, model.StatusCompleted)
	firstDone := clock.t

	clock.Advance(time.Hour)
	reopened, _ := s.ToggleStatus(item.ID, model.StatusPending)
	if reopened.CompletedAt == nil || !reopened.CompletedAt.Equal(firstDone) {
		t.Fatal("un-completing must not clear CompletedAt")
	}

	clock.Advance(time.Hour)
	redone, _ := s.ToggleStatus(item.ID, model.StatusCompleted)
	if !redone.CompletedAt.Equal(clock.t) {
		t.Fatal("a fresh completion overwrites CompletedAt")
	}
}

func TestToggleStatusInvalid(t *testing.T) {
	s, _ := newTestStore(t)
	item := mustCreate(t, s, "x", model.CategoryToday)
	if _, err := s.ToggleStatus(item.ID, "paused"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestArchiveItemHidesFromListings(t *testing.T) {
	s, _ := newTestStore(t)
	item := mustCreate(t, s, "old habit", model.CategoryToday)

	if _, err := s.ArchiveItem(item.ID); err != nil {
		t.Fatal(err)
	}

	for _, it := range s.ItemsByCategory(model.CategoryToday) {
		if it.ID == item.ID {
			t.Fatal("archived item should be hidden from category listing")
		}
	}
	if _, ok := s.GetItem(item.ID); !ok {
		t.Fatal("archived item should still be reachable by id")
	}
}

// ============================================================
// Reorder
// ============================================================

func TestReorderItems(t *testing.T) {
	s, _ := newTestStore(t)
	a := mustCreate(t, s, "a", model.CategoryToday)
	b := mustCreate(t, s, "b", model.CategoryToday)
	c := mustCreate(t, s, "c", model.CategoryToday)

	if err := s.ReorderItems(model.CategoryToday, []string{c.ID, a.ID, b.ID}); err != nil {
		t.Fatal(err)
	}

	got := s.ItemsByCategory(model.CategoryToday)
	if got[0].ID != c.ID || got[1].ID != a.ID || got[2].ID != b.ID {
		t.Fatalf("unexpected order: %s, %s, %s", got[0].Title, got[1].Title, got[2].Title)
	}
}

func TestReorderItemsPartialList(t *testing.T) {
	s, _ := newTestStore(t)
	a := mustCreate(t, s, "a", model.CategoryToday)
	b := mustCreate(t, s, "b", model.CategoryToday)

	// Only b listed: b gets order 0, a keeps its old order 0 — duplicates
	// are the caller's responsibility.
	s.ReorderItems(model.CategoryToday, []string{b.ID})

	gotA, _ := s.GetItem(a.ID)
	gotB, _ := s.GetItem(b.ID)
	if gotA.Order != 0 || gotB.Order != 0 {
		t.Fatalf("orders = %d, %d; want 0, 0", gotA.Order, gotB.Order)
	}
}

func TestReorderItemsIgnoresOtherCategories(t *testing.T) {
	s, _ := newTestStore(t)
	up := mustCreate(t, s, "upcoming", model.CategoryUpcoming)
	s.ReorderItems(model.CategoryToday, []string{up.ID})

	got, _ := s.GetItem(up.ID)
	if got.Order != 0 {
		t.Fatal("reorder must not touch items outside the category")
	}
}

// ============================================================
// Delete / clear
// ============================================================

func TestDeleteItemCascadesLogs(t *testing.T) {
	s, clock := newTestStore(t)
	item := mustCreate(t, s, "tracked", model.CategoryToday)

	log, _ := s.StartTimeLog(item.ID, "")
	clock.Advance(time.Minute)
	s.EndTimeLog(log.ID)
	s.StartTimeLog(item.ID, "") // active log, discarded on delete

	if err := s.DeleteItem(item.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.GetItem(item.ID); ok {
		t.Fatal("item should be gone")
	}
	if logs := s.LogsByItem(item.ID); len(logs) != 0 {
		t.Fatalf("expected no logs after cascade, got %d", len(logs))
	}
}

func TestDeleteItemNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.DeleteItem("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestClearCompletedKeepsLogs(t *testing.T) {
	s, clock := newTestStore(t)
	done := mustCreate(t, s, "done", model.CategoryToday)
	keep := mustCreate(t, s, "keep", model.CategoryToday)

	log, _ := s.StartTimeLog(done.ID, "")
	clock.Advance(time.Minute)
	s.EndTimeLog(log.ID)
	s.ToggleStatus(done.ID, model.StatusCompleted)

	if removed := s.ClearCompleted(); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, ok := s.GetItem(done.ID); ok {
		t.Fatal("completed item should be removed")
	}
	if _, ok := s.GetItem(keep.ID); !ok {
		t.Fatal("pending item should survive")
	}
	// Logs are deliberately NOT cascaded here; they become orphans.
	if logs := s.LogsByItem(done.ID); len(logs) != 1 {
		t.Fatalf("expected orphaned log to remain, got %d", len(logs))
	}
}

// ============================================================
// Time logs
// ============================================================

func TestStartAndEndTimeLog(t *testing.T) {
	s, clock := newTestStore(t)
	item := mustCreate(t, s, "focus", model.CategoryToday)

	log, err := s.StartTimeLog(item.ID, "deep work")
	if err != nil {
		t.Fatal(err)
	}
	if !log.Active() {
		t.Fatal("new log should be active")
	}
	if log.Duration != 0 {
		t.Fatal("active log must not carry a duration")
	}
	if log.Notes != "deep work" {
		t.Fatalf("notes = %q", log.Notes)
	}

	got, _ := s.GetItem(item.ID)
	if got.Status != model.StatusInProgress {
		t.Fatalf("starting a log should set in_progress, got %s", got.Status)
	}

	clock.Advance(125 * time.Second)
	ended, err := s.EndTimeLog(log.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ended.EndTime == nil {
		t.Fatal("ended log should have an end time")
	}
	if ended.Duration != 125 {
		t.Fatalf("duration = %d, want 125", ended.Duration)
	}

	stats := s.TimeStats("")
	if stats.Today < 125 {
		t.Fatalf("today total = %d, want >= 125", stats.Today)
	}
}

func TestStartTimeLogClosesActive(t *testing.T) {
	s, clock := newTestStore(t)
	item := mustCreate(t, s, "double start", model.CategoryToday)

	s.StartTimeLog(item.ID, "")
	clock.Advance(30 * time.Second)
	s.StartTimeLog(item.ID, "")

	logs := s.LogsByItem(item.ID)
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	// Sorted most recent first: logs[0] is the new active one.
	if !logs[0].Active() {
		t.Fatal("newest log should be active")
	}
	if logs[1].Active() {
		t.Fatal("older log should have been auto-closed")
	}
	if logs[1].Duration != 30 {
		t.Fatalf("auto-closed duration = %d, want 30", logs[1].Duration)
	}
}

func TestAtMostOneActivePerItem(t *testing.T) {
	s, clock := newTestStore(t)
	item := mustCreate(t, s, "invariant", model.CategoryToday)

	for i := 0; i < 5; i++ {
		s.StartTimeLog(item.ID, "")
		clock.Advance(time.Second)
	}

	active := 0
	for _, l := range s.LogsByItem(item.ID) {
		if l.Active() {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("active logs = %d, want exactly 1", active)
	}
}

func TestStartTimeLogUnknownItem(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.StartTimeLog("missing", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestEndTimeLogIdempotent(t *testing.T) {
	s, clock := newTestStore(t)
	item := mustCreate(t, s, "idempotent", model.CategoryToday)

	log, _ := s.StartTimeLog(item.ID, "")
	clock.Advance(time.Minute)
	first, err := s.EndTimeLog(log.ID)
	if err != nil {
		t.Fatal(err)
	}

	clock.Advance(time.Hour)
	second, err := s.EndTimeLog(log.ID)
	if err != nil {
		t.Fatal(err)
	}
	if second.Duration != first.Duration {
		t.Fatalf("second end changed duration: %d -> %d", first.Duration, second.Duration)
	}
	if !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Fatal("second end must not refresh UpdatedAt")
	}
}

func TestEndTimeLogNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.EndTimeLog("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestActiveTimeLog(t *testing.T) {
	s, _ := newTestStore(t)
	item := mustCreate(t, s, "active", model.CategoryToday)

	if _, ok := s.ActiveTimeLog(item.ID); ok {
		t.Fatal("no log should be active yet")
	}

	log, _ := s.StartTimeLog(item.ID, "")
	active, ok := s.ActiveTimeLog(item.ID)
	if !ok || active.ID != log.ID {
		t.Fatal("should return the running log")
	}

	s.EndTimeLog(log.ID)
	if _, ok := s.ActiveTimeLog(item.ID); ok {
		t.Fatal("no log should be active after end")
	}
}

func TestLogsByItemSortedDescending(t *testing.T) {
	s, clock := newTestStore(t)
	item := mustCreate(t, s, "history", model.CategoryToday)

	for i := 0; i < 3; i++ {
		log, _ := s.StartTimeLog(item.ID, "")
		clock.Advance(time.Minute)
		s.EndTimeLog(log.ID)
		clock.Advance(time.Minute)
	}

	logs := s.LogsByItem(item.ID)
	for i := 1; i < len(logs); i++ {
		if logs[i].StartTime.After(logs[i-1].StartTime) {
			t.Fatal("logs should be most recent first")
		}
	}
}

func TestUpdateLogNotes(t *testing.T) {
	s, clock := newTestStore(t)
	item := mustCreate(t, s, "noted", model.CategoryToday)

	log, _ := s.StartTimeLog(item.ID, "")
	clock.Advance(time.Minute)
	s.EndTimeLog(log.ID)

	updated, err := s.UpdateLogNotes(log.ID, "afterthought")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Notes != "afterthought" {
		t.Fatalf("notes = %q", updated.Notes)
	}
	if updated.Duration != 60 {
		t.Fatal("notes update must not touch duration")
	}
}

// ============================================================
// Inline edits
// ============================================================

func TestEditCancelRestoresOriginal(t *testing.T) {
	s, _ := newTestStore(t)
	item := mustCreate(t, s, "original title", model.CategoryToday)

	if err := s.StartEdit(item.ID, EditFieldTitle); err != nil {
		t.Fatal(err)
	}
	title := "mangled"
	s.UpdateItem(item.ID, ItemUpdate{Title: &title})

	if err := s.CancelEdit(); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetItem(item.ID)
	if got.Title != "original title" {
		t.Fatalf("title = %q, want rollback to original", got.Title)
	}
}

func TestEditCommitClearsDescriptor(t *testing.T) {
	s, _ := newTestStore(t)
	item := mustCreate(t, s, "committed", model.CategoryToday)

	s.StartEdit(item.ID, EditFieldDescription)
	edit, err := s.CommitEdit()
	if err != nil {
		t.Fatal(err)
	}
	if edit.ItemID != item.ID || edit.Field != EditFieldDescription {
		t.Fatalf("unexpected descriptor: %+v", edit)
	}
	if _, ok := s.Pending(); ok {
		t.Fatal("commit should clear the pending edit")
	}
}

func TestEditSecondStartOverwritesSilently(t *testing.T) {
	s, _ := newTestStore(t)
	a := mustCreate(t, s, "first", model.CategoryToday)
	b := mustCreate(t, s, "second", model.CategoryToday)

	s.StartEdit(a.ID, EditFieldTitle)
	title := "first changed"
	s.UpdateItem(a.ID, ItemUpdate{Title: &title})

	// Starting a new edit abandons the first descriptor without restoring.
	s.StartEdit(b.ID, EditFieldTitle)
	s.CancelEdit()

	gotA, _ := s.GetItem(a.ID)
	if gotA.Title != "first changed" {
		t.Fatal("abandoned edit's original value should be lost")
	}
	gotB, _ := s.GetItem(b.ID)
	if gotB.Title != "second" {
		t.Fatal("second edit should roll back cleanly")
	}
}

func TestEditWithoutPending(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.CommitEdit(); !errors.Is(err, ErrNoPendingEdit) {
		t.Fatalf("commit err = %v, want ErrNoPendingEdit", err)
	}
	if err := s.CancelEdit(); !errors.Is(err, ErrNoPendingEdit) {
		t.Fatalf("cancel err = %v, want ErrNoPendingEdit", err)
	}
}

// ============================================================
// Aggregation: day buckets
// ============================================================

func TestDayAggregatesEmptyStore(t *testing.T) {
	s, _ := newTestStore(t)

	days := s.DayAggregates(7)
	if len(days) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(days))
	}
	for _, d := range days {
		if d.TotalSeconds != 0 || d.ItemCount != 0 || len(d.Logs) != 0 {
			t.Fatalf("empty store bucket should be zero: %+v", d)
		}
	}
}

func TestDayAggregatesContiguousAscending(t *testing.T) {
	s, _ := newTestStore(t)

	days := s.DayAggregates(30)
	if len(days) != 30 {
		t.Fatalf("expected 30 buckets, got %d", len(days))
	}
	for i := 1; i < len(days); i++ {
		prev, _ := time.ParseInLocation("2006-01-02", days[i-1].Date, time.Local)
		cur, _ := time.ParseInLocation("2006-01-02", days[i].Date, time.Local)
		if !cur.Equal(prev.AddDate(0, 0, 1)) {
			t.Fatalf("dates not contiguous: %s -> %s", days[i-1].Date, days[i].Date)
		}
	}
}

func TestDayAggregatesBucketsByStartDay(t *testing.T) {
	s, clock := newTestStore(t)
	a := mustCreate(t, s, "a", model.CategoryToday)
	b := mustCreate(t, s, "b", model.CategoryToday)

	// Yesterday: one log for a.
	clock.Advance(-24 * time.Hour)
	log, _ := s.StartTimeLog(a.ID, "")
	clock.Advance(10 * time.Minute)
	s.EndTimeLog(log.ID)

	// Today: logs for a and b.
	clock.Advance(24 * time.Hour)
	log, _ = s.StartTimeLog(a.ID, "")
	clock.Advance(5 * time.Minute)
	s.EndTimeLog(log.ID)
	log, _ = s.StartTimeLog(b.ID, "")
	clock.Advance(5 * time.Minute)
	s.EndTimeLog(log.ID)

	days := s.DayAggregates(7)
	yesterday := days[len(days)-2]
	today := days[len(days)-1]

	if yesterday.TotalSeconds != 600 || yesterday.ItemCount != 1 {
		t.Fatalf("yesterday = %d s / %d items, want 600 / 1", yesterday.TotalSeconds, yesterday.ItemCount)
	}
	if today.TotalSeconds != 600 || today.ItemCount != 2 {
		t.Fatalf("today = %d s / %d items, want 600 / 2", today.TotalSeconds, today.ItemCount)
	}
	if len(today.Logs) != 2 {
		t.Fatalf("today should list 2 logs, got %d", len(today.Logs))
	}
}

func TestDayAggregatesExcludesActiveLogs(t *testing.T) {
	s, _ := newTestStore(t)
	item := mustCreate(t, s, "running", model.CategoryToday)
	s.StartTimeLog(item.ID, "")

	days := s.DayAggregates(7)
	for _, d := range days {
		if d.TotalSeconds != 0 || len(d.Logs) != 0 {
			t.Fatal("active logs must not contribute to aggregates")
		}
	}
}

func TestDayAggregatesIgnoresOutsideWindow(t *testing.T) {
	s, clock := newTestStore(t)
	item := mustCreate(t, s, "ancient", model.CategoryToday)

	clock.Advance(-10 * 24 * time.Hour)
	log, _ := s.StartTimeLog(item.ID, "")
	clock.Advance(time.Hour)
	s.EndTimeLog(log.ID)
	clock.Advance(10*24*time.Hour - time.Hour)

	days := s.DayAggregates(7)
	for _, d := range days {
		if d.TotalSeconds != 0 {
			t.Fatal("log outside the window should be ignored")
		}
	}
}

// ============================================================
// Aggregation: time stats
// ============================================================

func TestTimeStatsWindows(t *testing.T) {
	s, clock := newTestStore(t)
	item := mustCreate(t, s, "windowed", model.CategoryToday)

	track := func(daysAgo int, seconds int64) {
		clock.Advance(time.Duration(-daysAgo) * 24 * time.Hour)
		log, _ := s.StartTimeLog(item.ID, "")
		clock.Advance(time.Duration(seconds) * time.Second)
		s.EndTimeLog(log.ID)
		clock.Advance(time.Duration(daysAgo)*24*time.Hour - time.Duration(seconds)*time.Second)
	}

	track(0, 100)  // today
	track(3, 200)  // inside 7d
	track(15, 400) // inside 30d only
	track(40, 800) // outside everything

	stats := s.TimeStats("")
	if stats.Today != 100 {
		t.Fatalf("today = %d, want 100", stats.Today)
	}
	if stats.Last7Days != 300 {
		t.Fatalf("last7 = %d, want 300", stats.Last7Days)
	}
	if stats.Last30Days != 700 {
		t.Fatalf("last30 = %d, want 700", stats.Last30Days)
	}
	if stats.AveragePerDay7 != 43 { // round(300/7)
		t.Fatalf("avg7 = %d, want 43", stats.AveragePerDay7)
	}
	if stats.AveragePerDay30 != 23 { // round(700/30)
		t.Fatalf("avg30 = %d, want 23", stats.AveragePerDay30)
	}
	if len(stats.Days) != model.WindowMonth {
		t.Fatalf("global series = %d days, want %d", len(stats.Days), model.WindowMonth)
	}
	// PerItem covers all logs, windows or not.
	if stats.PerItem[item.ID] != 1500 {
		t.Fatalf("per-item total = %d, want 1500", stats.PerItem[item.ID])
	}
}

func TestTimeStatsScopedToItem(t *testing.T) {
	s, clock := newTestStore(t)
	a := mustCreate(t, s, "mine", model.CategoryToday)
	b := mustCreate(t, s, "other", model.CategoryToday)

	log, _ := s.StartTimeLog(a.ID, "")
	clock.Advance(100 * time.Second)
	s.EndTimeLog(log.ID)

	log, _ = s.StartTimeLog(b.ID, "")
	clock.Advance(900 * time.Second)
	s.EndTimeLog(log.ID)

	stats := s.TimeStats(a.ID)
	if stats.Today != 100 {
		t.Fatalf("scoped today = %d, want 100", stats.Today)
	}
	if _, ok := stats.PerItem[b.ID]; ok {
		t.Fatal("scoped stats must not include other items")
	}
	if len(stats.Days) != model.WindowYear {
		t.Fatalf("scoped series = %d days, want %d", len(stats.Days), model.WindowYear)
	}
}

// ============================================================
// Persistence
// ============================================================

type memPersister struct {
	mu    sync.Mutex
	state *model.State
	saves int
	fail  bool
}

func (p *memPersister) Load() (*model.State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, nil
}

func (p *memPersister) Save(st model.State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("disk full")
	}
	p.saves++
	p.state = &st
	return nil
}

func (p *memPersister) setFail(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = fail
}

func (p *memPersister) snapshot() *model.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func TestNewLoadsPersistedState(t *testing.T) {
	p := &memPersister{state: &model.State{
		Version: model.SchemaVersion,
		Items: []model.Item{
			{ID: "item-1", Title: "restored", Status: model.StatusPending, Category: model.CategoryToday},
		},
	}}

	s, err := New(p)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	got, ok := s.GetItem("item-1")
	if !ok || got.Title != "restored" {
		t.Fatal("persisted state should be loaded at startup")
	}
}

func TestNewResetsOnVersionMismatch(t *testing.T) {
	p := &memPersister{state: &model.State{
		Version: model.SchemaVersion + 1,
		Items:   []model.Item{{ID: "future", Title: "from the future"}},
	}}

	s, err := New(p)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if got := len(s.Items()); got != 0 {
		t.Fatalf("version mismatch should reset state, got %d items", got)
	}
}

func TestMutationsPersistOnFlush(t *testing.T) {
	p := &memPersister{}
	s, err := New(p)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	mustCreate(t, s, "durable", model.CategoryToday)
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}

	st := p.snapshot()
	if st == nil || len(st.Items) != 1 {
		t.Fatal("flush should persist the full state blob")
	}
	if st.Version != model.SchemaVersion {
		t.Fatalf("persisted version = %d, want %d", st.Version, model.SchemaVersion)
	}
}

func TestPersistFailureLeavesMemoryIntact(t *testing.T) {
	p := &memPersister{fail: true}
	s, err := New(p)
	if err != nil {
		t.Fatal(err)
	}

	item := mustCreate(t, s, "survivor", model.CategoryToday)
	if err := s.Flush(); err == nil {
		t.Fatal("expected flush error")
	}

	// In-memory state is still correct and usable.
	if _, ok := s.GetItem(item.ID); !ok {
		t.Fatal("mutation should survive a persistence failure")
	}
	p.setFail(false)
	s.Close()
}

func TestCloseFlushes(t *testing.T) {
	p := &memPersister{}
	s, _ := New(p)
	mustCreate(t, s, "final", model.CategoryToday)

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	st := p.snapshot()
	if st == nil || len(st.Items) != 1 {
		t.Fatal("close should flush outstanding state")
	}
}

// ============================================================
// Isolation
// ============================================================

func TestReturnedCopiesDoNotAlias(t *testing.T) {
	s, _ := newTestStore(t)
	item, _ := s.CreateItem(CreateParams{
		Title:    "isolated",
		Category: model.CategoryToday,
		Tags:     []string{"one"},
	})

	item.Tags[0] = "mutated"
	item.Title = "mutated"

	got, _ := s.GetItem(item.ID)
	if got.Title != "isolated" || got.Tags[0] != "one" {
		t.Fatal("callers must not hold mutable aliases into the store")
	}
}
