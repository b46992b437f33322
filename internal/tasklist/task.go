package tasklist

import (
	"math/rand"
	"strconv"
	"time"
)

// Task represents a single to-do entry.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// IsZero returns true if the task is empty (has no ID).
func (t Task) IsZero() bool {
	return t.ID == ""
}

// Session is an in-progress inline edit of one task.
type Session struct {
	TaskID string
	Draft  string
}

const (
	idAlphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
	idSuffixLength = 9
)

// NewID returns a base-36 millisecond timestamp followed by a random
// base-36 suffix.
func NewID(now time.Time) string {
	b := make([]byte, 0, 9+idSuffixLength)
	b = strconv.AppendInt(b, now.UnixMilli(), 36)
	for i := 0; i < idSuffixLength; i++ {
		b = append(b, idAlphabet[rand.Intn(len(idAlphabet))])
	}
	return string(b)
}
