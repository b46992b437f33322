package tasklist

// EventKind names a successful mutation.
type EventKind string

const (
	EventLoaded         EventKind = "loaded"
	EventPendingChanged EventKind = "pending_changed"
	EventCreated        EventKind = "created"
	EventEditBegan      EventKind = "edit_began"
	EventDraftChanged   EventKind = "draft_changed"
	EventEditCommitted  EventKind = "edit_committed"
	EventEditCanceled   EventKind = "edit_canceled"
	EventToggled        EventKind = "toggled"
	EventDeleted        EventKind = "deleted"
)

// Event is delivered to listeners after a mutation. TaskID is empty for
// events that do not concern one task.
type Event struct {
	Kind   EventKind
	TaskID string
}

// Listener receives controller events.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// Subscribe registers fn and returns a function that removes it.
// Listeners are called in registration order, outside the controller lock.
func (c *Controller) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return func() {}
	}
	c.nextSubID++
	id := c.nextSubID
	c.listeners = append(c.listeners, subscription{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, sub := range c.listeners {
			if sub.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) publish(ev Event) {
	c.mu.Lock()
	subs := c.listeners
	c.mu.Unlock()
	for _, sub := range subs {
		sub.fn(ev)
	}
}
