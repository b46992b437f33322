// Package tasklist holds an in-memory, ordered to-do list and the transient
// state of the widget that edits it.
//
// A Controller owns:
//
//   - the tasks, in insertion order, unique by ID
//   - the pending text of the "new task" field
//   - at most one edit session (task ID plus an uncommitted draft)
//   - a loading flag that starts true and clears after a fixed delay
//
// # Operations
//
// Mutations never return errors. Input that cannot apply (blank text, unknown
// IDs, no active edit session) is a no-op and the method reports false.
// Successful mutations notify subscribers with an Event after the controller's
// lock is released, so listeners may call back into the controller.
//
// # Edit sessions
//
// BeginEdit copies the task text into a draft. EditDraftText changes only the
// draft. CommitEdit trims the draft and stores it, even when the result is
// empty; only task creation rejects blank text. Deleting the edited task ends
// the session.
//
// # View model
//
// Derive is a pure function from a Snapshot to a View; Controller.View is
// Derive(c.Snapshot()).
package tasklist
