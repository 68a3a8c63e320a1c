// Package task owns the ordered todo list, its filter, and persistence.
package task

import (
	"errors"
	"fmt"
)

// Task is one user-entered item. CreatedAt is Unix milliseconds and is only
// used to re-sort an undone task back into chronological position.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Done      bool   `json:"done"`
	CreatedAt int64  `json:"createdAt"`
}

// Filter is a pure view over the task list. It is persisted separately from
// the tasks as the last-selected preference.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// ParseFilter maps a stored or configured string to a Filter, defaulting to
// FilterAll for anything outside the enum.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterPending:
		return FilterPending
	case FilterCompleted:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Matches reports whether t belongs to the view f describes.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterPending:
		return !t.Done
	case FilterCompleted:
		return t.Done
	default:
		return true
	}
}

// Counts is the derived pending/completed/total breakdown of the list.
type Counts struct {
	Pending   int
	Completed int
	Total     int
}

// User-facing conditions, reported synchronously and never logged as faults.
var (
	ErrEmptyText       = errors.New("text is empty")
	ErrDuplicateText   = errors.New("duplicate of previous task")
	ErrNotFound        = errors.New("task not found")
	ErrNoPendingDelete = errors.New("no delete staged")
	ErrUndoExpired     = errors.New("nothing to undo")
)

// PersistError reports a key-value store write that failed after the
// in-memory mutation already applied. The list stays responsive; data may
// not survive a restart.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
