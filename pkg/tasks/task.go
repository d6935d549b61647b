package tasks

import "time"

// Urgency levels assignable to a task
const (
	UrgencyUrgent = "urgent"
	UrgencyHigh   = "high"
	UrgencyMedium = "medium"
	UrgencyLow    = "low"
)

// Status values a task moves through
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Task is the client-side model for a task
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Urgency     string    `json:"urgency"`
	Status      string    `json:"status"`
	Department  string    `json:"department"`
	ProjectID   string    `json:"projectId"`
	ProjectName string    `json:"projectName"`
	AssigneeID  string    `json:"assigneeId"`
	Deadline    time.Time `json:"deadline"`
	CompletedAt time.Time `json:"completedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	IsCompleted bool      `json:"isCompleted"`
}

// DeadlineClass buckets a task by time-to-deadline
type DeadlineClass string

// Deadline classes, from most to least pressing
const (
	DeadlineOverdue  DeadlineClass = "overdue"
	DeadlineCritical DeadlineClass = "critical" // due within 2 hours
	DeadlineSoon     DeadlineClass = "soon"     // due within 24 hours
	DeadlineNormal   DeadlineClass = "normal"
)

// ClassifyDeadline buckets the task's deadline relative to now. The
// deadline is a point in time but urgency is judged over a window.
func (t *Task) ClassifyDeadline(now time.Time) DeadlineClass {
	remaining := t.Deadline.Sub(now)

	switch {
	case remaining < 0:
		return DeadlineOverdue
	case remaining <= 2*time.Hour:
		return DeadlineCritical
	case remaining <= 24*time.Hour:
		return DeadlineSoon
	default:
		return DeadlineNormal
	}
}

// taskWire is the backend's shape of a task, camelCase with legacy
// snake_case fallbacks resolved here and nowhere else
type taskWire struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Urgency          string `json:"urgency"`
	Status           string `json:"status"`
	Department       string `json:"department"`
	ProjectID        string `json:"projectId"`
	ProjectIDSnake   string `json:"project_id"`
	ProjectName      string `json:"projectName"`
	ProjectNameSnake string `json:"project_name"`
	AssigneeID       string `json:"assigneeId"`
	AssigneeIDSnake  string `json:"assignee_id"`
	Deadline         string `json:"deadline"`
	DeadlineSnake    string `json:"due_date"`
	CompletedAt      string `json:"completedAt"`
	CompletedAtSnake string `json:"completed_at"`
	CreatedAt        string `json:"createdAt"`
	CreatedAtSnake   string `json:"created_at"`
	UpdatedAt        string `json:"updatedAt"`
	UpdatedAtSnake   string `json:"updated_at"`
	IsCompleted      *bool  `json:"isCompleted"`
	IsCompletedSnake *bool  `json:"is_completed"`
}

func normalizeTask(wire taskWire) Task {
	task := Task{
		ID:          wire.ID,
		Title:       wire.Title,
		Description: wire.Description,
		Urgency:     wire.Urgency,
		Status:      wire.Status,
		Department:  wire.Department,
		ProjectID:   firstNonEmpty(wire.ProjectID, wire.ProjectIDSnake),
		ProjectName: firstNonEmpty(wire.ProjectName, wire.ProjectNameSnake),
		AssigneeID:  firstNonEmpty(wire.AssigneeID, wire.AssigneeIDSnake),
		Deadline:    parseWireTime(firstNonEmpty(wire.Deadline, wire.DeadlineSnake)),
		CompletedAt: parseWireTime(firstNonEmpty(wire.CompletedAt, wire.CompletedAtSnake)),
		CreatedAt:   parseWireTime(firstNonEmpty(wire.CreatedAt, wire.CreatedAtSnake)),
		UpdatedAt:   parseWireTime(firstNonEmpty(wire.UpdatedAt, wire.UpdatedAtSnake)),
	}

	if wire.IsCompleted != nil {
		task.IsCompleted = *wire.IsCompleted
	} else if wire.IsCompletedSnake != nil {
		task.IsCompleted = *wire.IsCompletedSnake
	}
	if task.Status == StatusCompleted {
		task.IsCompleted = true
	}

	return task
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func parseWireTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed
		}
	}
	return time.Time{}
}
