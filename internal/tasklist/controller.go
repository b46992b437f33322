package tasklist

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultLoadingDelay is how long a new controller reports itself as loading.
const DefaultLoadingDelay = time.Second

// maxIDAttempts bounds calls to the ID generator before falling back to a
// counter suffix.
const maxIDAttempts = 8

// Option configures a Controller.
type Option func(*Controller)

// WithLoadingDelay sets the simulated loading delay. A non-positive delay
// starts the controller already loaded.
func WithLoadingDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.delay = d
	}
}

// WithClock sets the time source used for CreatedAt and IDs.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator replaces NewID.
func WithIDGenerator(gen func(time.Time) string) Option {
	return func(c *Controller) {
		if gen != nil {
			c.newID = gen
		}
	}
}

// WithLogger sets the logger for mutation traces.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.log = logger
		}
	}
}

// Controller owns a task list and the widget state around it.
// It is safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	tasks     []Task
	pending   string
	session   *Session
	loading   bool
	disposed  bool
	timer     *time.Timer
	listeners []subscription
	nextSubID int

	delay     time.Duration
	now       func() time.Time
	newID     func(time.Time) string
	log       *log.Logger
	sessionID string
}

// New creates a controller and starts its loading timer.
func New(opts ...Option) *Controller {
	c := &Controller{
		delay: DefaultLoadingDelay,
		now:   time.Now,
		newID: NewID,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
	}
	c.sessionID = uuid.NewString()
	c.log = c.log.With("session", c.sessionID)

	if c.delay > 0 {
		c.loading = true
		c.timer = time.AfterFunc(c.delay, c.finishLoading)
	}
	c.log.Debug("controller started", "loading_delay", c.delay)
	return c
}

// SessionID identifies this controller instance in logs.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// finishLoading runs on the timer goroutine.
func (c *Controller) finishLoading() {
	c.mu.Lock()
	if c.disposed || !c.loading {
		c.mu.Unlock()
		return
	}
	c.loading = false
	c.timer = nil
	c.mu.Unlock()

	c.log.Debug("loading finished")
	c.publish(Event{Kind: EventLoaded})
}

// Dispose stops the loading timer and drops all listeners. Later mutations
// are no-ops. Dispose is idempotent.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.disposed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.listeners = nil
	c.log.Debug("controller disposed", "tasks", len(c.tasks))
}

// Disposed reports whether Dispose has been called.
func (c *Controller) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// SetPendingText stores the raw text of the new-task field.
func (c *Controller) SetPendingText(text string) bool {
	c.mu.Lock()
	if c.disposed || c.pending == text {
		c.mu.Unlock()
		return false
	}
	c.pending = text
	c.mu.Unlock()

	c.publish(Event{Kind: EventPendingChanged})
	return true
}

// CreateTask appends a task with the trimmed text and clears the pending
// text. Blank text is ignored.
func (c *Controller) CreateTask(text string) (Task, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Task{}, false
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return Task{}, false
	}
	now := c.now()
	task := Task{
		ID:        c.uniqueIDLocked(now),
		Text:      trimmed,
		Completed: false,
		CreatedAt: now,
	}
	c.tasks = append(c.tasks, task)
	c.pending = ""
	c.mu.Unlock()

	c.log.Debug("task created", "task_id", task.ID)
	c.publish(Event{Kind: EventCreated, TaskID: task.ID})
	return task, true
}

func (c *Controller) uniqueIDLocked(now time.Time) string {
	base := c.newID(now)
	id := base
	for attempt := 1; c.indexLocked(id) >= 0; attempt++ {
		if attempt < maxIDAttempts {
			id = c.newID(now)
			continue
		}
		id = fmt.Sprintf("%s-%d", base, attempt)
	}
	return id
}

// BeginEdit opens an edit session on id, replacing any prior session.
func (c *Controller) BeginEdit(id string) bool {
	c.mu.Lock()
	i := c.indexLocked(id)
	if c.disposed || i < 0 {
		c.mu.Unlock()
		return false
	}
	c.session = &Session{TaskID: id, Draft: c.tasks[i].Text}
	c.mu.Unlock()

	c.log.Debug("edit began", "task_id", id)
	c.publish(Event{Kind: EventEditBegan, TaskID: id})
	return true
}

// EditDraftText replaces the draft of the active session.
func (c *Controller) EditDraftText(text string) bool {
	c.mu.Lock()
	s := c.activeSessionLocked()
	if c.disposed || s == nil || s.Draft == text {
		c.mu.Unlock()
		return false
	}
	s.Draft = text
	id := s.TaskID
	c.mu.Unlock()

	c.publish(Event{Kind: EventDraftChanged, TaskID: id})
	return true
}

// CommitEdit stores the trimmed draft as the task text and closes the
// session. id must match the session's task; otherwise nothing changes.
// An empty draft is stored as-is.
func (c *Controller) CommitEdit(id string) bool {
	c.mu.Lock()
	s := c.activeSessionLocked()
	if c.disposed || s == nil || s.TaskID != id {
		c.mu.Unlock()
		return false
	}
	i := c.indexLocked(id)
	c.tasks[i].Text = strings.TrimSpace(s.Draft)
	c.session = nil
	c.mu.Unlock()

	c.log.Debug("edit committed", "task_id", id)
	c.publish(Event{Kind: EventEditCommitted, TaskID: id})
	return true
}

// CancelEdit discards the active session.
func (c *Controller) CancelEdit() bool {
	c.mu.Lock()
	s := c.activeSessionLocked()
	if c.disposed || s == nil {
		c.mu.Unlock()
		return false
	}
	id := s.TaskID
	c.session = nil
	c.mu.Unlock()

	c.log.Debug("edit canceled", "task_id", id)
	c.publish(Event{Kind: EventEditCanceled, TaskID: id})
	return true
}

// ToggleCompleted flips the completed flag of id.
func (c *Controller) ToggleCompleted(id string) bool {
	c.mu.Lock()
	i := c.indexLocked(id)
	if c.disposed || i < 0 {
		c.mu.Unlock()
		return false
	}
	c.tasks[i].Completed = !c.tasks[i].Completed
	completed := c.tasks[i].Completed
	c.mu.Unlock()

	c.log.Debug("task toggled", "task_id", id, "completed", completed)
	c.publish(Event{Kind: EventToggled, TaskID: id})
	return true
}

// DeleteTask removes id and ends an edit session that targets it.
func (c *Controller) DeleteTask(id string) bool {
	c.mu.Lock()
	i := c.indexLocked(id)
	if c.disposed || i < 0 {
		c.mu.Unlock()
		return false
	}
	c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
	if c.session != nil && c.session.TaskID == id {
		c.session = nil
	}
	c.mu.Unlock()

	c.log.Debug("task deleted", "task_id", id)
	c.publish(Event{Kind: EventDeleted, TaskID: id})
	return true
}

// Tasks returns a copy of the list in display order.
func (c *Controller) Tasks() []Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Task(nil), c.tasks...)
}

// Task returns the task with id.
func (c *Controller) Task(id string) (Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return Task{}, false
	}
	return c.tasks[i], true
}

// Len returns the number of tasks.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks)
}

// Session returns a copy of the active edit session.
func (c *Controller) Session() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.activeSessionLocked()
	if s == nil {
		return Session{}, false
	}
	return *s, true
}

// IsEditing reports whether id is the target of the active session.
func (c *Controller) IsEditing(id string) bool {
	s, ok := c.Session()
	return ok && s.TaskID == id
}

// Loading reports whether the simulated initial load is still running.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// PendingText returns the raw text of the new-task field.
func (c *Controller) PendingText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// CanAdd reports whether the pending text would create a task.
func (c *Controller) CanAdd() bool {
	return strings.TrimSpace(c.PendingText()) != ""
}

// Snapshot copies the controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		Tasks:       append([]Task(nil), c.tasks...),
		PendingText: c.pending,
		Loading:     c.loading,
	}
	if s := c.activeSessionLocked(); s != nil {
		cp := *s
		snap.Session = &cp
	}
	return snap
}

// View derives the view model from the current state.
func (c *Controller) View() View {
	return Derive(c.Snapshot())
}

func (c *Controller) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// activeSessionLocked returns the session unless it is absent or its task
// no longer exists.
func (c *Controller) activeSessionLocked() *Session {
	if c.session == nil || c.indexLocked(c.session.TaskID) < 0 {
		return nil
	}
	return c.session
}
