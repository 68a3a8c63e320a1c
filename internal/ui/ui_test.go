package ui

import (
	"errors"
	"testing"

	"todoheroes/internal/kv"
	"todoheroes/internal/task"
)

func TestClampCursor(t *testing.T) {
	tests := []struct {
		cur, n, want int
	}{
		{0, 0, 0},
		{-1, 3, 0},
		{1, 3, 1},
		{3, 3, 2},
		{5, 1, 0},
	}
	for _, tc := range tests {
		if got := clampCursor(tc.cur, tc.n); got != tc.want {
			t.Errorf("clampCursor(%d, %d) = %d, want %d", tc.cur, tc.n, got, tc.want)
		}
	}
}

func TestNextFilterCycles(t *testing.T) {
	f := task.FilterAll
	order := []task.Filter{task.FilterPending, task.FilterCompleted, task.FilterAll}
	for _, want := range order {
		f = nextFilter(f)
		if f != want {
			t.Fatalf("expected %s, got %s", want, f)
		}
	}
}

func TestCursorFor(t *testing.T) {
	visible := []task.Task{{ID: 10}, {ID: 20}, {ID: 30}}
	if got := cursorFor(visible, 20); got != 1 {
		t.Fatalf("expected cursor 1, got %d", got)
	}
	// Unknown ids land on the last visible row.
	if got := cursorFor(visible, 99); got != 2 {
		t.Fatalf("expected cursor 2, got %d", got)
	}
	if got := cursorFor(nil, 1); got != 0 {
		t.Fatalf("expected cursor 0 on empty list, got %d", got)
	}
}

func TestPersistWarn(t *testing.T) {
	if msg, ok := persistWarn(nil); ok || msg != "" {
		t.Fatalf("nil error must not warn, got %q", msg)
	}
	if _, ok := persistWarn(task.ErrNotFound); ok {
		t.Fatal("sentinel errors must not warn")
	}
	err := &task.PersistError{Key: "k", Err: errors.New("disk full")}
	msg, ok := persistWarn(err)
	if !ok {
		t.Fatal("expected a degraded-mode warning")
	}
	if msg == "" {
		t.Fatal("expected a non-empty warning message")
	}
}

func TestEmptyListLineReflectsFilter(t *testing.T) {
	s := task.New(kv.NewMemory(), nil)
	m := Model{store: s}

	if got := m.emptyListLine(); got != "No tasks yet. Press 'a' to add one." {
		t.Fatalf("unexpected empty-list line: %q", got)
	}

	added, err := s.Add("done thing")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.ToggleDone(added.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := s.SetFilter(task.FilterPending); err != nil {
		t.Fatalf("set filter: %v", err)
	}
	if got := m.emptyListLine(); got != "No pending tasks." {
		t.Fatalf("unexpected filtered empty line: %q", got)
	}
}
