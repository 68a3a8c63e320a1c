package task

import (
	"encoding/json"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"todoheroes/internal/kv"
)

// Persisted layout: string values under versioned keys.
const (
	tasksKey  = "todoHeroes:v1:tasks"
	filterKey = "todoHeroes:v1:filter"
)

// DefaultUndoWindow is how long a deleted task stays restorable.
const DefaultUndoWindow = 3 * time.Second

type pendingDelete struct {
	id   int64
	text string
}

type undoSlot struct {
	task     Task
	deadline time.Time
}

// Store owns the ordered task list and the active filter. Every mutation
// applies in memory first and then mirrors the full list to the key-value
// store; a failed write comes back as *PersistError with the mutation kept.
// Operations are synchronous and expect a single caller.
type Store struct {
	kv     kv.Store
	logger *log.Logger

	tasks   []Task
	filter  Filter
	pending *pendingDelete
	undo    *undoSlot

	nextID       int64
	undoWindow   time.Duration
	now          func() time.Time
	filterStored bool
}

func New(store kv.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		kv:         store,
		logger:     logger,
		tasks:      []Task{},
		filter:     FilterAll,
		nextID:     1,
		undoWindow: DefaultUndoWindow,
		now:        time.Now,
	}
}

// SetUndoWindow overrides the undo expiry window. Zero or negative keeps the
// default.
func (s *Store) SetUndoWindow(d time.Duration) {
	if d > 0 {
		s.undoWindow = d
	}
}

// Load reads the persisted list and filter. Absent or corrupt state degrades
// to an empty list and the all filter rather than failing startup.
func (s *Store) Load() {
	s.tasks = []Task{}
	s.filter = FilterAll

	raw, ok, err := s.kv.Get(tasksKey)
	if err != nil {
		s.logger.Error("read tasks from store", "key", tasksKey, "err", err)
	} else if ok {
		s.tasks = decodeTasks(raw, s.logger)
	}
	for _, t := range s.tasks {
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}

	raw, ok, err = s.kv.Get(filterKey)
	if err != nil {
		s.logger.Error("read filter from store", "key", filterKey, "err", err)
	} else if ok {
		s.filter = ParseFilter(raw)
		s.filterStored = true
	}

	s.logger.Debug("loaded", "tasks", len(s.tasks), "filter", s.filter)
}

func decodeTasks(raw string, logger *log.Logger) []Task {
	var stored []Task
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		logger.Warn("stored tasks are corrupt, starting empty", "err", err)
		return []Task{}
	}
	tasks := make([]Task, 0, len(stored))
	seen := map[int64]struct{}{}
	for _, t := range stored {
		if strings.TrimSpace(t.Text) == "" {
			logger.Warn("dropping stored task with empty text", "id", t.ID)
			continue
		}
		if _, dup := seen[t.ID]; dup {
			logger.Warn("dropping stored task with duplicate id", "id", t.ID)
			continue
		}
		seen[t.ID] = struct{}{}
		t.Text = strings.TrimSpace(t.Text)
		tasks = append(tasks, t)
	}
	return tasks
}

// Add appends a new pending task. Whitespace-only text is rejected with
// ErrEmptyText. Text equal to the last task's text is rejected with
// ErrDuplicateText; the comparison always uses full list order, never the
// filtered view. On *PersistError the returned task is in the list.
func (s *Store) Add(text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}
	if n := len(s.tasks); n > 0 && s.tasks[n-1].Text == text {
		return Task{}, ErrDuplicateText
	}

	t := Task{
		ID:        s.nextID,
		Text:      text,
		Done:      false,
		CreatedAt: s.now().UnixMilli(),
	}
	s.nextID++
	s.tasks = append(s.tasks, t)
	return t, s.persistTasks()
}

// ToggleDone flips the done flag and reports the resulting value.
func (s *Store) ToggleDone(id int64) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, ErrNotFound
	}
	s.tasks[i].Done = !s.tasks[i].Done
	return s.tasks[i].Done, s.persistTasks()
}

// RequestDelete stages a task for the two-step delete. It does not mutate
// the list; false means the id was not found.
func (s *Store) RequestDelete(id int64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.pending = &pendingDelete{id: id, text: s.tasks[i].Text}
	return true
}

// PendingDelete exposes the staged deletion for the confirmation prompt.
func (s *Store) PendingDelete() (id int64, text string, ok bool) {
	if s.pending == nil {
		return 0, "", false
	}
	return s.pending.id, s.pending.text, true
}

// CancelDelete clears the staged deletion without mutating the list.
func (s *Store) CancelDelete() {
	s.pending = nil
}

// ConfirmDelete removes the staged task, keeps it in the undo slot until the
// window expires, and supersedes any earlier slot.
func (s *Store) ConfirmDelete() (Task, error) {
	if s.pending == nil {
		return Task{}, ErrNoPendingDelete
	}
	i := s.index(s.pending.id)
	s.pending = nil
	if i < 0 {
		return Task{}, ErrNotFound
	}
	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.undo = &undoSlot{task: removed, deadline: s.now().Add(s.undoWindow)}
	return removed, s.persistTasks()
}

// UndoDelete re-inserts the last deleted task at its chronological position
// by CreatedAt. Empty or expired slots report ErrUndoExpired.
func (s *Store) UndoDelete() (Task, error) {
	if s.undo == nil {
		return Task{}, ErrUndoExpired
	}
	if s.now().After(s.undo.deadline) {
		s.undo = nil
		return Task{}, ErrUndoExpired
	}
	t := s.undo.task
	s.undo = nil

	i := sort.Search(len(s.tasks), func(i int) bool {
		return s.tasks[i].CreatedAt > t.CreatedAt
	})
	s.tasks = append(s.tasks, Task{})
	copy(s.tasks[i+1:], s.tasks[i:])
	s.tasks[i] = t
	return t, s.persistTasks()
}

// UndoRemaining reports how long the undo slot stays valid; ok is false when
// there is nothing to undo.
func (s *Store) UndoRemaining() (time.Duration, bool) {
	if s.undo == nil {
		return 0, false
	}
	d := s.undo.deadline.Sub(s.now())
	if d <= 0 {
		return 0, false
	}
	return d, true
}

// CommitEdit replaces the task's text. Whitespace-only text reports
// ErrEmptyText and leaves the task unchanged.
func (s *Store) CommitEdit(id int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.tasks[i].Text = text
	return s.persistTasks()
}

// ClearCompleted removes every done task and reports the count removed.
// With nothing completed it is a no-op that skips the store write.
func (s *Store) ClearCompleted() (int, error) {
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.Done {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	s.tasks = kept
	return removed, s.persistTasks()
}

// SetFilter updates the active filter and persists it independently of the
// task list.
func (s *Store) SetFilter(f Filter) error {
	s.filter = ParseFilter(string(f))
	if err := s.kv.Set(filterKey, string(s.filter)); err != nil {
		s.logger.Error("persist filter", "key", filterKey, "err", err)
		return &PersistError{Key: filterKey, Err: err}
	}
	return nil
}

// ApplyDefaultFilter seeds the filter on first runs where no preference was
// persisted yet. A stored preference always wins. The seed itself is not
// persisted; only an explicit SetFilter is.
func (s *Store) ApplyDefaultFilter(f Filter) {
	if !s.filterStored {
		s.filter = ParseFilter(string(f))
	}
}

// Filter returns the active filter.
func (s *Store) Filter() Filter {
	return s.filter
}

// VisibleTasks returns the tasks matching the active filter in list order.
// The result is a derived copy, never persisted.
func (s *Store) VisibleTasks() []Task {
	visible := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if s.filter.Matches(t) {
			visible = append(visible, t)
		}
	}
	return visible
}

// Tasks returns a copy of the full list in order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Counts derives the pending/completed/total breakdown.
func (s *Store) Counts() Counts {
	c := Counts{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Done {
			c.Completed++
		} else {
			c.Pending++
		}
	}
	return c
}

func (s *Store) index(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistTasks() error {
	data, err := json.Marshal(s.tasks)
	if err != nil {
		s.logger.Error("encode tasks", "err", err)
		return &PersistError{Key: tasksKey, Err: err}
	}
	if err := s.kv.Set(tasksKey, string(data)); err != nil {
		s.logger.Error("persist tasks", "key", tasksKey, "err", err)
		return &PersistError{Key: tasksKey, Err: err}
	}
	return nil
}
