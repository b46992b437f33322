package tasklist

import "strings"

// Snapshot is a copy of controller state.
type Snapshot struct {
	Tasks       []Task
	PendingText string
	Session     *Session
	Loading     bool
}

// Status selects which body the list area shows.
type Status int

const (
	StatusLoading Status = iota
	StatusEmpty
	StatusPopulated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusEmpty:
		return "empty"
	case StatusPopulated:
		return "populated"
	default:
		return "unknown"
	}
}

// Row is one rendered task.
type Row struct {
	ID        string
	Text      string // draft text while editing
	Completed bool
	Editing   bool
}

// View is the renderable projection of a Snapshot.
type View struct {
	Rows        []Row
	PendingText string
	CanAdd      bool
	Status      Status
	EditingID   string
}

// Derive projects s into a View. Rows follow task order. A session whose task
// is missing is ignored.
func Derive(s Snapshot) View {
	v := View{
		PendingText: s.PendingText,
		CanAdd:      strings.TrimSpace(s.PendingText) != "",
		Rows:        make([]Row, 0, len(s.Tasks)),
	}

	for _, t := range s.Tasks {
		row := Row{ID: t.ID, Text: t.Text, Completed: t.Completed}
		if s.Session != nil && s.Session.TaskID == t.ID {
			row.Text = s.Session.Draft
			row.Editing = true
			v.EditingID = t.ID
		}
		v.Rows = append(v.Rows, row)
	}

	switch {
	case s.Loading:
		v.Status = StatusLoading
	case len(v.Rows) == 0:
		v.Status = StatusEmpty
	default:
		v.Status = StatusPopulated
	}
	return v
}

// Counts returns the number of completed rows and the total.
func (v View) Counts() (completed, total int) {
	for _, r := range v.Rows {
		if r.Completed {
			completed++
		}
	}
	return completed, len(v.Rows)
}

// Row returns the row at position i, or false if out of range.
func (v View) Row(i int) (Row, bool) {
	if i < 0 || i >= len(v.Rows) {
		return Row{}, false
	}
	return v.Rows[i], true
}
