// Package ui provides the terminal presentation of a task list.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskpad/internal/config"
	"github.com/nibzard/taskpad/internal/tasklist"
)

// RunTUI runs the interactive list until the user quits or ctx ends.
// The caller owns ctrl and disposes it.
func RunTUI(ctx context.Context, cfg *config.Config, ctrl *tasklist.Controller) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(cfg, ctrl)
	defer model.close()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type focus int

const (
	focusInput focus = iota
	focusList
)

type tuiModel struct {
	ctrl        *tasklist.Controller
	title       string
	input       textinput.Model // new task field
	edit        textinput.Model // draft of the edit session
	changes     chan struct{}
	unsubscribe func()
	focus       focus
	cursor      int
	view        tasklist.View
	showHelp    bool
	styles      styles
}

// changeMsg reports that the controller state changed.
type changeMsg struct{}

func newTUIModel(cfg *config.Config, ctrl *tasklist.Controller) *tuiModel {
	input := textinput.New()
	input.Placeholder = placeholderText
	input.Prompt = "+ "
	input.CharLimit = cfg.CharLimit
	input.Width = 48
	input.Focus()

	edit := textinput.New()
	edit.Prompt = ""
	edit.CharLimit = cfg.CharLimit
	edit.Width = 48

	m := &tuiModel{
		ctrl:    ctrl,
		title:   cfg.Title,
		input:   input,
		edit:    edit,
		changes: make(chan struct{}, 1),
		focus:   focusInput,
		styles:  defaultStyles(),
	}
	// One pending signal is enough: the view is re-derived in full.
	m.unsubscribe = ctrl.Subscribe(func(tasklist.Event) {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})
	m.refresh()
	return m
}

func (m *tuiModel) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForChange(m.changes))
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return changeMsg{}
	}
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changeMsg:
		m.refresh()
		return m, waitForChange(m.changes)
	case tea.WindowSizeMsg:
		width := msg.Width - 10
		if width < 10 {
			width = 10
		}
		m.input.Width = width
		m.edit.Width = width
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		switch {
		case m.view.EditingID != "":
			cmd = m.updateEditing(msg)
		case m.focus == focusInput:
			cmd = m.updateInput(msg)
		default:
			cmd = m.updateList(msg)
		}
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	switch {
	case m.view.EditingID != "":
		m.edit, cmd = m.edit.Update(msg)
	case m.focus == focusInput:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *tuiModel) updateEditing(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.ctrl.CommitEdit(m.view.EditingID)
		m.edit.Blur()
		return nil
	case "esc":
		m.ctrl.CancelEdit()
		m.edit.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	m.ctrl.EditDraftText(m.edit.Value())
	return cmd
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		if _, ok := m.ctrl.CreateTask(m.ctrl.PendingText()); ok {
			m.input.SetValue("")
		}
		return nil
	case "tab", "down", "esc":
		m.focus = focusList
		m.input.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetPendingText(m.input.Value())
	return cmd
}

func (m *tuiModel) updateList(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "h", "?":
		m.showHelp = !m.showHelp
	case "tab", "a", "i":
		m.focus = focusInput
		return m.input.Focus()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		} else if msg.String() == "up" {
			m.focus = focusInput
			return m.input.Focus()
		}
	case "down", "j":
		if m.cursor < len(m.view.Rows)-1 {
			m.cursor++
		}
	}

	// Rows are hidden while loading; only populated lists take row actions.
	if m.view.Status != tasklist.StatusPopulated {
		return nil
	}
	switch msg.String() {
	case "enter", "e":
		if row, ok := m.view.Row(m.cursor); ok && m.ctrl.BeginEdit(row.ID) {
			m.edit.SetValue(row.Text)
			m.edit.CursorEnd()
			return m.edit.Focus()
		}
	case " ", "x":
		if row, ok := m.view.Row(m.cursor); ok {
			m.ctrl.ToggleCompleted(row.ID)
		}
	case "d", "delete":
		if row, ok := m.view.Row(m.cursor); ok {
			m.ctrl.DeleteTask(row.ID)
		}
	}
	return nil
}

// refresh re-derives the view and keeps the cursor and edit field consistent
// with it.
func (m *tuiModel) refresh() {
	m.view = m.ctrl.View()
	if m.cursor >= len(m.view.Rows) {
		m.cursor = len(m.view.Rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.view.EditingID == "" && m.edit.Focused() {
		m.edit.Blur()
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	st := m.styles
	writeTitle(&b, st, m.title)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, st)
		return b.String()
	}

	b.WriteString(m.input.View() + "  " + addButton(st, m.view.CanAdd) + "\n\n")
	writeBody(&b, st, m.view, func(i int, row tasklist.Row) string {
		marker := "  "
		if m.focus == focusList && i == m.cursor {
			marker = st.cursor.Render("> ")
		}
		if row.Editing {
			return marker + "[~] " + m.edit.View()
		}
		return marker + formatRow(st, row)
	})
	writeCounts(&b, st, m.view)
	writeFooter(&b, st)
	return b.String()
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  enter        Add task (input) / edit task (list) / save edit\n")
	b.WriteString("  e            Edit selected task\n")
	b.WriteString("  esc          Cancel edit / leave input\n")
	b.WriteString("  tab          Switch between input and list\n")
	b.WriteString("  up/k down/j  Move selection\n")
	b.WriteString("  space, x     Toggle completed\n")
	b.WriteString("  d, delete    Delete selected task\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n\n")
}

func writeFooter(b *strings.Builder, st styles) {
	b.WriteString(st.muted.Render("\nPress h for help | q to quit") + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
