package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todoheroes/internal/config"
	"todoheroes/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

// undoExpiredMsg clears the undo hint once the window closes. gen ties the
// tick to the deletion that scheduled it; a newer deletion supersedes it.
type undoExpiredMsg struct {
	gen int
}

var (
	doneStyle      = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	hintStyle      = lipgloss.NewStyle().Faint(true)
)

type Model struct {
	store  *task.Store
	cfg    config.Config
	cursor int
	mode   mode
	input  textinput.Model
	status string

	editID     int64
	confirmDel bool
	undoHint   bool
	undoGen    int
}

func Run(store *task.Store, cfg config.Config) error {
	ti := textinput.New()
	ti.Placeholder = "Task text"
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		store:  store,
		cfg:    cfg,
		cursor: 0,
		mode:   modeList,
		input:  ti,
		status: "Press 'a' to add, space to toggle, 'd' to delete, 'f' to filter.",
	}

	program := tea.NewProgram(m)
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg.String(), msg)
		case modeEdit:
			return m.updateEditMode(msg.String(), msg)
		default:
			return m.updateListMode(msg.String())
		}
	case undoExpiredMsg:
		if msg.gen == m.undoGen && m.undoHint {
			m.undoHint = false
			m.status = "Undo window closed"
		}
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	visible := m.store.VisibleTasks()
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(visible) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(visible))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(visible))
		}
	case m.cfg.Keys.Add:
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Placeholder = "Task text"
		m.input.Focus()
		m.status = "Add mode: type the task and press Enter"
	case m.cfg.Keys.Toggle:
		if len(visible) == 0 {
			return m, nil
		}
		done, err := m.store.ToggleDone(visible[m.cursor].ID)
		if warn, ok := persistWarn(err); ok {
			m.status = warn
		} else if err != nil {
			m.status = "Task not found"
		} else if done {
			m.status = "Marked done"
		} else {
			m.status = "Marked pending"
		}
		m.cursor = clampCursor(m.cursor, len(m.store.VisibleTasks()))
	case m.cfg.Keys.Delete:
		if len(visible) == 0 {
			return m, nil
		}
		if m.store.RequestDelete(visible[m.cursor].ID) {
			m.confirmDel = true
			_, text, _ := m.store.PendingDelete()
			m.status = fmt.Sprintf("Delete %q? y/n", text)
		}
	case m.cfg.Keys.Edit:
		if len(visible) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		t := visible[m.cursor]
		m.mode = modeEdit
		m.editID = t.ID
		m.input.SetValue(t.Text)
		m.input.Placeholder = "New text"
		m.input.Focus()
		m.status = "Edit mode: change the text and press Enter"
	case m.cfg.Keys.Undo:
		restored, err := m.store.UndoDelete()
		if errors.Is(err, task.ErrUndoExpired) {
			m.status = "Nothing to undo"
			return m, nil
		}
		m.undoHint = false
		if warn, ok := persistWarn(err); ok {
			m.status = warn
			return m, nil
		}
		m.status = fmt.Sprintf("Restored %q", restored.Text)
		m.cursor = cursorFor(m.store.VisibleTasks(), restored.ID)
	case m.cfg.Keys.ClearDone:
		n, err := m.store.ClearCompleted()
		if warn, ok := persistWarn(err); ok {
			m.status = warn
		} else if n == 0 {
			m.status = "No completed tasks"
		} else {
			m.status = fmt.Sprintf("Cleared %d completed", n)
		}
		m.cursor = clampCursor(m.cursor, len(m.store.VisibleTasks()))
	case m.cfg.Keys.Filter:
		next := nextFilter(m.store.Filter())
		if warn, ok := persistWarn(m.store.SetFilter(next)); ok {
			m.status = warn
		} else {
			m.status = "Filter: " + string(next)
		}
		m.cursor = clampCursor(m.cursor, len(m.store.VisibleTasks()))
	}
	return m, nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		added, err := m.store.Add(m.input.Value())
		switch {
		case errors.Is(err, task.ErrEmptyText):
			m.status = "Text cannot be empty"
			return m, nil
		case errors.Is(err, task.ErrDuplicateText):
			m.status = "Same as the previous task"
			return m, nil
		}
		if warn, ok := persistWarn(err); ok {
			m.status = warn
		} else {
			m.status = fmt.Sprintf("Added %q", added.Text)
		}
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		m.cursor = cursorFor(m.store.VisibleTasks(), added.ID)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateEditMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Edit cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		err := m.store.CommitEdit(m.editID, m.input.Value())
		if errors.Is(err, task.ErrEmptyText) {
			m.status = "Text cannot be empty"
			return m, nil
		}
		if warn, ok := persistWarn(err); ok {
			m.status = warn
		} else if errors.Is(err, task.ErrNotFound) {
			m.status = "Task not found"
		} else {
			m.status = "Saved"
		}
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.store.CancelDelete()
		m.confirmDel = false
		m.status = "Delete cancelled"
		return m, nil
	case "y", "Y":
		m.confirmDel = false
		removed, err := m.store.ConfirmDelete()
		if errors.Is(err, task.ErrNoPendingDelete) || errors.Is(err, task.ErrNotFound) {
			m.status = "Nothing to delete"
			return m, nil
		}
		if warn, ok := persistWarn(err); ok {
			m.status = warn
		} else {
			m.status = fmt.Sprintf("Deleted %q — press %s to undo", removed.Text, m.cfg.Keys.Undo)
		}
		m.cursor = clampCursor(m.cursor, len(m.store.VisibleTasks()))
		m.undoHint = true
		m.undoGen++
		gen := m.undoGen
		window, ok := m.store.UndoRemaining()
		if !ok {
			window = time.Second
		}
		return m, tea.Tick(window, func(time.Time) tea.Msg {
			return undoExpiredMsg{gen: gen}
		})
	default:
		return m, nil
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("ToDo Heroes")
	b.WriteString("\n\n")
	b.WriteString(m.renderFilterTabs())
	b.WriteString("\n\n")

	visible := m.store.VisibleTasks()
	if len(visible) == 0 {
		b.WriteString(m.emptyListLine())
	} else {
		b.WriteString(m.renderTaskList(visible))
	}

	b.WriteString("\n---\n")

	if m.mode == modeAdd || m.mode == modeEdit {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.undoHint {
		if remaining, ok := m.store.UndoRemaining(); ok {
			b.WriteString(hintStyle.Render(fmt.Sprintf("press %s to undo (%ds left)",
				m.cfg.Keys.Undo, int(remaining.Seconds())+1)))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(renderHelp(m.cfg.Keys))

	return b.String()
}

func (m Model) renderFilterTabs() string {
	counts := m.store.Counts()
	tabs := []struct {
		f task.Filter
		n int
	}{
		{task.FilterAll, counts.Total},
		{task.FilterPending, counts.Pending},
		{task.FilterCompleted, counts.Completed},
	}
	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		label := fmt.Sprintf("%s (%d)", tab.f, tab.n)
		if tab.f == m.store.Filter() {
			label = activeTabStyle.Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderTaskList(visible []task.Task) string {
	var b strings.Builder
	for i, t := range visible {
		cursor := " "
		if m.cursor == i && m.mode == modeList && !m.confirmDel {
			cursor = ">"
		}

		checkbox := "[ ]"
		text := t.Text
		if t.Done {
			checkbox = "[x]"
			text = doneStyle.Render(text)
		}

		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, checkbox, text))
	}
	return b.String()
}

func (m Model) emptyListLine() string {
	if m.store.Counts().Total == 0 {
		return "No tasks yet. Press 'a' to add one."
	}
	return fmt.Sprintf("No %s tasks.", m.store.Filter())
}

func (m Model) renderStatus() string {
	if strings.HasPrefix(m.status, "warning:") {
		return warnStyle.Render(m.status)
	}
	return m.status
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s edit • %s delete • %s undo • %s clear done • %s filter • %s quit",
		k.Up, k.Down, k.Add, k.Toggle, k.Edit, k.Delete, k.Undo, k.ClearDone, k.Filter, k.Quit)
}

// persistWarn turns a PersistError into a degraded-mode status line. The
// mutation already applied in memory, so the warning is informational.
func persistWarn(err error) (string, bool) {
	var pe *task.PersistError
	if errors.As(err, &pe) {
		return "warning: change kept in memory but not saved: " + pe.Err.Error(), true
	}
	return "", false
}

func nextFilter(f task.Filter) task.Filter {
	switch f {
	case task.FilterAll:
		return task.FilterPending
	case task.FilterPending:
		return task.FilterCompleted
	default:
		return task.FilterAll
	}
}

func cursorFor(visible []task.Task, id int64) int {
	for i, t := range visible {
		if t.ID == id {
			return i
		}
	}
	return clampCursor(len(visible)-1, len(visible))
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
