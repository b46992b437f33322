package script

import (
	"context"
	"fmt"

	"github.com/nibzard/taskpad/internal/tasklist"
)

// Step records the outcome of one action.
type Step struct {
	Index   int
	Op      Op
	TaskID  string // resolved task, empty when the action does not name one
	Changed bool   // false when the controller treated the action as a no-op
}

// Result summarizes a replay.
type Result struct {
	Steps []Step
}

// Changed returns the number of actions that mutated state.
func (r *Result) Changed() int {
	n := 0
	for _, s := range r.Steps {
		if s.Changed {
			n++
		}
	}
	return n
}

// Apply runs the script's actions against c in order. It only returns an
// error if ctx ends while waiting for the controller to finish loading.
func Apply(ctx context.Context, c *tasklist.Controller, s *Script) (*Result, error) {
	result := &Result{Steps: make([]Step, 0, len(s.Actions))}

	for i, a := range s.Actions {
		step := Step{Index: i, Op: a.Op}
		if a.Task > 0 {
			step.TaskID = taskAt(c, a.Task)
		}

		switch a.Op {
		case OpCreate:
			text := c.PendingText()
			if a.Text != nil {
				text = *a.Text
			}
			task, ok := c.CreateTask(text)
			step.Changed = ok
			step.TaskID = task.ID
		case OpType:
			step.Changed = c.SetPendingText(deref(a.Text))
		case OpBeginEdit:
			step.Changed = c.BeginEdit(step.TaskID)
		case OpDraft:
			step.Changed = c.EditDraftText(deref(a.Text))
		case OpCommit:
			step.Changed = c.CommitEdit(step.TaskID)
		case OpCancel:
			step.Changed = c.CancelEdit()
		case OpToggle:
			step.Changed = c.ToggleCompleted(step.TaskID)
		case OpDelete:
			step.Changed = c.DeleteTask(step.TaskID)
		case OpWaitLoaded:
			waited, err := WaitLoaded(ctx, c)
			if err != nil {
				return result, fmt.Errorf("action %d: %w", i, err)
			}
			step.Changed = waited
		default:
			return result, fmt.Errorf("action %d: unknown op %q", i, a.Op)
		}

		result.Steps = append(result.Steps, step)
	}

	return result, nil
}

// taskAt resolves a 1-based position to a task ID. Out-of-range positions
// resolve to "", which the controller ignores.
func taskAt(c *tasklist.Controller, pos int) string {
	tasks := c.Tasks()
	if pos < 1 || pos > len(tasks) {
		return ""
	}
	return tasks[pos-1].ID
}

// WaitLoaded blocks until c has finished loading or ctx ends. It reports
// whether it had to wait.
func WaitLoaded(ctx context.Context, c *tasklist.Controller) (bool, error) {
	loaded := make(chan struct{}, 1)
	unsubscribe := c.Subscribe(func(ev tasklist.Event) {
		if ev.Kind != tasklist.EventLoaded {
			return
		}
		select {
		case loaded <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	// Subscribe before checking so the event cannot slip between the two.
	if !c.Loading() {
		return false, nil
	}
	if c.Disposed() {
		return false, fmt.Errorf("controller disposed while loading")
	}

	select {
	case <-loaded:
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
