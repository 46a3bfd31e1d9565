package models

import "time"

// Task lifecycle states. Only the Done flag and DueDate are stored;
// the state is recomputed on every read so the clock never drifts from
// a cached copy.
const (
	TaskInProgress = "in-progress"
	TaskCompleted  = "completed"
	TaskExpired    = "expired"
)

type Task struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Done        bool      `json:"done"`

	// Responsible is the email of the member the task is assigned to.
	Responsible string `json:"responsible"`
}

// Status derives the lifecycle state at the given instant. Completion
// dominates: a done task never reports expired, whatever its due date.
func (t *Task) Status(now time.Time) string {
	if t.Done {
		return TaskCompleted
	}

	if now.After(t.DueDate) {
		return TaskExpired
	}

	return TaskInProgress
}
