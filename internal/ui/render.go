package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskpad/internal/tasklist"
)

// Fixed display text.
const (
	subtitleText    = "enter/e on a task to edit • enter to save • esc to cancel"
	placeholderText = "What do you want to get done today?"
	loadingText     = "Loading..."
	emptyTitle      = "No tasks yet"
	emptyText       = "Add your first task above to get started!"
)

type styles struct {
	title     lipgloss.Style
	subtitle  lipgloss.Style
	completed lipgloss.Style
	editing   lipgloss.Style
	cursor    lipgloss.Style
	muted     lipgloss.Style
	enabled   lipgloss.Style
}

func defaultStyles() styles {
	accent := lipgloss.Color("#667eea")
	gray := lipgloss.Color("#6b7280")
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		subtitle:  lipgloss.NewStyle().Italic(true).Foreground(gray),
		completed: lipgloss.NewStyle().Strikethrough(true).Foreground(gray),
		editing:   lipgloss.NewStyle().Foreground(lipgloss.Color("#764ba2")),
		cursor:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		muted:     lipgloss.NewStyle().Foreground(gray),
		enabled:   lipgloss.NewStyle().Bold(true).Foreground(accent),
	}
}

func plainStyles() styles {
	s := lipgloss.NewStyle()
	return styles{title: s, subtitle: s, completed: s, editing: s, cursor: s, muted: s, enabled: s}
}

// Render writes a plain-text rendering of v to w.
func Render(w io.Writer, title string, v tasklist.View) error {
	var b strings.Builder
	st := plainStyles()
	writeTitle(&b, st, title)
	writePendingLine(&b, st, v.PendingText, v.CanAdd)
	writeBody(&b, st, v, func(_ int, row tasklist.Row) string {
		line := "  " + formatRow(st, row)
		if row.Editing {
			line += " (editing)"
		}
		return line
	})
	writeCounts(&b, st, v)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTitle(b *strings.Builder, st styles, title string) {
	b.WriteString(st.title.Render(title) + "\n")
	b.WriteString(st.title.Render(strings.Repeat("=", lipgloss.Width(title))) + "\n")
	b.WriteString(st.subtitle.Render(subtitleText) + "\n\n")
}

func writePendingLine(b *strings.Builder, st styles, pending string, canAdd bool) {
	text := pending
	if text == "" {
		text = st.muted.Render(placeholderText)
	}
	b.WriteString("New task: " + text + "  " + addButton(st, canAdd) + "\n\n")
}

func addButton(st styles, canAdd bool) string {
	if canAdd {
		return st.enabled.Render("[add]")
	}
	return st.muted.Render("[add: disabled]")
}

// writeBody writes the loading placeholder, the empty state, or one line per
// row produced by line.
func writeBody(b *strings.Builder, st styles, v tasklist.View, line func(int, tasklist.Row) string) {
	switch v.Status {
	case tasklist.StatusLoading:
		b.WriteString("  " + st.muted.Render(loadingText) + "\n\n")
	case tasklist.StatusEmpty:
		b.WriteString("  " + emptyTitle + "\n")
		b.WriteString("  " + st.muted.Render(emptyText) + "\n\n")
	default:
		for i, row := range v.Rows {
			b.WriteString(line(i, row) + "\n")
		}
		b.WriteString("\n")
	}
}

func formatRow(st styles, row tasklist.Row) string {
	if row.Editing {
		return "[~] " + st.editing.Render(row.Text)
	}
	if row.Completed {
		return "[x] " + st.completed.Render(row.Text)
	}
	return "[ ] " + row.Text
}

func writeCounts(b *strings.Builder, st styles, v tasklist.View) {
	if v.Status != tasklist.StatusPopulated {
		return
	}
	done, total := v.Counts()
	b.WriteString(st.muted.Render(fmt.Sprintf("%d of %d done", done, total)) + "\n")
}
