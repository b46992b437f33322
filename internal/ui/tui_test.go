package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/taskpad/internal/config"
	"github.com/nibzard/taskpad/internal/tasklist"
)

func newTestModel(t *testing.T) (*tuiModel, *tasklist.Controller) {
	t.Helper()
	ctrl := tasklist.New(tasklist.WithLoadingDelay(0))
	t.Cleanup(ctrl.Dispose)

	cfg := &config.Config{Title: "Tasks", CharLimit: config.DefaultCharLimit}
	m := newTUIModel(cfg, ctrl)
	t.Cleanup(m.close)
	return m, ctrl
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func send(m *tuiModel, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestTUICreateTasks(t *testing.T) {
	m, ctrl := newTestModel(t)

	send(m, runes("Buy milk"))
	assert.Equal(t, "Buy milk", ctrl.PendingText())
	assert.True(t, m.view.CanAdd)

	send(m, key(tea.KeyEnter))
	send(m, runes("  Walk dog "), key(tea.KeyEnter))

	tasks := ctrl.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "Buy milk", tasks[0].Text)
	assert.Equal(t, "Walk dog", tasks[1].Text)
	assert.Equal(t, "", m.input.Value())
	assert.Equal(t, "", ctrl.PendingText())
	assert.Equal(t, tasklist.StatusPopulated, m.view.Status)
}

func TestTUIEnterOnBlankInputIsIgnored(t *testing.T) {
	m, ctrl := newTestModel(t)

	send(m, runes("   "), key(tea.KeyEnter))
	assert.Zero(t, ctrl.Len())
	assert.Equal(t, "   ", m.input.Value())
}

func TestTUIToggleAndDelete(t *testing.T) {
	m, ctrl := newTestModel(t)
	send(m, runes("Buy milk"), key(tea.KeyEnter), runes("Walk dog"), key(tea.KeyEnter))

	send(m, key(tea.KeyTab))
	assert.Equal(t, focusList, m.focus)
	assert.Equal(t, 0, m.cursor)

	send(m, key(tea.KeySpace))
	assert.True(t, ctrl.Tasks()[0].Completed)

	send(m, runes("j"), runes("x"))
	assert.True(t, ctrl.Tasks()[1].Completed)

	send(m, runes("d"))
	require.Equal(t, 1, ctrl.Len())
	assert.Equal(t, "Buy milk", ctrl.Tasks()[0].Text)
	assert.Equal(t, 0, m.cursor, "cursor clamps to the remaining row")

	send(m, runes("x"))
	assert.False(t, ctrl.Tasks()[0].Completed)
}

func TestTUIEditCommit(t *testing.T) {
	m, ctrl := newTestModel(t)
	send(m, runes("Buy milk"), key(tea.KeyEnter), key(tea.KeyTab))

	send(m, runes("e"))
	session, ok := ctrl.Session()
	require.True(t, ok)
	assert.Equal(t, ctrl.Tasks()[0].ID, session.TaskID)
	assert.Equal(t, "Buy milk", m.edit.Value())
	assert.True(t, m.edit.Focused())

	// Keys go to the draft while editing, not to list shortcuts.
	send(m, runes(" x"))
	assert.False(t, ctrl.Tasks()[0].Completed)
	session, _ = ctrl.Session()
	assert.Equal(t, "Buy milk x", session.Draft)

	send(m, key(tea.KeyEnter))
	_, ok = ctrl.Session()
	assert.False(t, ok)
	assert.False(t, m.edit.Focused())
	assert.Equal(t, "Buy milk x", ctrl.Tasks()[0].Text)
}

func TestTUIEditCancel(t *testing.T) {
	m, ctrl := newTestModel(t)
	send(m, runes("Buy milk"), key(tea.KeyEnter), key(tea.KeyTab), key(tea.KeyEnter))

	send(m, key(tea.KeyBackspace), key(tea.KeyBackspace))
	session, ok := ctrl.Session()
	require.True(t, ok)
	assert.Equal(t, "Buy mi", session.Draft)

	send(m, key(tea.KeyEsc))
	_, ok = ctrl.Session()
	assert.False(t, ok)
	assert.Equal(t, "Buy milk", ctrl.Tasks()[0].Text)
	assert.Equal(t, focusList, m.focus)
}

func TestTUIExternalDeleteEndsEdit(t *testing.T) {
	m, ctrl := newTestModel(t)
	send(m, runes("Buy milk"), key(tea.KeyEnter), key(tea.KeyTab), runes("e"))
	require.True(t, m.edit.Focused())

	ctrl.DeleteTask(ctrl.Tasks()[0].ID)
	send(m, changeMsg{})

	assert.Equal(t, "", m.view.EditingID)
	assert.False(t, m.edit.Focused())
	assert.Equal(t, tasklist.StatusEmpty, m.view.Status)
}

func TestTUIRowActionsIgnoredWhileLoading(t *testing.T) {
	ctrl := tasklist.New(tasklist.WithLoadingDelay(time.Hour))
	defer ctrl.Dispose()
	m := newTUIModel(&config.Config{Title: "Tasks"}, ctrl)
	defer m.close()

	send(m, runes("secret"), key(tea.KeyEnter), key(tea.KeyTab))
	require.Equal(t, 1, ctrl.Len())
	require.Equal(t, tasklist.StatusLoading, m.view.Status)

	send(m, runes("d"), key(tea.KeyDelete), key(tea.KeySpace), runes("x"), runes("e"), key(tea.KeyEnter))

	require.Equal(t, 1, ctrl.Len(), "hidden task must not be deleted")
	assert.False(t, ctrl.Tasks()[0].Completed)
	_, editing := ctrl.Session()
	assert.False(t, editing)
	assert.NotContains(t, m.View(), "secret")
}

func TestTUIEditReceivesBlink(t *testing.T) {
	m, ctrl := newTestModel(t)
	send(m, runes("Buy milk"), key(tea.KeyEnter), key(tea.KeyTab), runes("e"))
	require.True(t, m.edit.Focused())
	require.False(t, m.input.Focused())

	// Only a focused field schedules the next blink.
	assert.NotNil(t, send(m, textinput.Blink()), "blink should reach the edit field")
	assert.Equal(t, "Buy milk", ctrl.Tasks()[0].Text)

	send(m, key(tea.KeyEsc))
	assert.Nil(t, send(m, textinput.Blink()), "no focused field while the list has focus")
}

func TestTUIFocusSwitching(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, focusInput, m.focus)

	send(m, key(tea.KeyEsc))
	assert.Equal(t, focusList, m.focus)

	send(m, runes("a"))
	assert.Equal(t, focusInput, m.focus)
	assert.Equal(t, "", m.input.Value(), "the shortcut key is not typed")

	send(m, key(tea.KeyDown), key(tea.KeyUp))
	assert.Equal(t, focusInput, m.focus, "up from the first row returns to the input")
}

func TestTUIQuit(t *testing.T) {
	m, _ := newTestModel(t)

	send(m, runes("q"))
	assert.Equal(t, "q", m.input.Value(), "q is typed while the input has focus")
	assert.True(t, isQuit(send(m, key(tea.KeyCtrlC))))

	send(m, key(tea.KeyTab))
	assert.True(t, isQuit(send(m, runes("q"))))
}

func TestTUIHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, key(tea.KeyTab), runes("?"))
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	send(m, runes("h"))
	assert.False(t, m.showHelp)
}

func TestTUIViewStates(t *testing.T) {
	ctrl := tasklist.New(tasklist.WithLoadingDelay(time.Hour))
	defer ctrl.Dispose()
	m := newTUIModel(&config.Config{Title: "Tasks"}, ctrl)
	defer m.close()

	assert.Contains(t, m.View(), loadingText)

	m2, ctrl2 := newTestModel(t)
	assert.Contains(t, m2.View(), emptyTitle)

	ctrl2.CreateTask("Buy milk")
	send(m2, changeMsg{})
	view := m2.View()
	assert.Contains(t, view, "Buy milk")
	assert.Contains(t, view, "0 of 1 done")
}

func TestTUIChangeSignal(t *testing.T) {
	m, ctrl := newTestModel(t)

	ctrl.CreateTask("a")
	ctrl.CreateTask("b")
	select {
	case <-m.changes:
	default:
		t.Fatal("expected a change signal")
	}
	select {
	case <-m.changes:
		t.Fatal("signals should coalesce")
	default:
	}

	cmd := send(m, changeMsg{})
	require.NotNil(t, cmd)
	assert.Len(t, m.view.Rows, 2)
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}
