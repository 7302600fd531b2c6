package model

import "time"

// ActivityStatus is the closed status set for activity log records.
type ActivityStatus string

const (
	ActivitySuccess ActivityStatus = "success"
	ActivityError   ActivityStatus = "error"
	ActivityPending ActivityStatus = "pending"
	ActivityInfo    ActivityStatus = "info"
)

func (s ActivityStatus) Valid() bool {
	switch s {
	case ActivitySuccess, ActivityError, ActivityPending, ActivityInfo:
		return true
	}
	return false
}

// TaskStatus is the closed status set for scheduled tasks.
type TaskStatus string

const (
	TaskScheduled  TaskStatus = "scheduled"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskScheduled, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

// Level is the shared low/medium/high scale used for task priority and
// memory importance.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

func (l Level) Valid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return true
	}
	return false
}

// Metadata is an opaque key/value payload attached to activity records.
// Keys are documented per action type:
//   - "analytics": users, activeSubscriptions, totalRevenue, syncedAt, error
//   - "social":    platform, action, creatorHandle, outreachStatus, notes,
//     likes, comments, shares, reach
//   - "deploy":    service, action
type Metadata map[string]any

// Activity is one append-mostly log record.
type Activity struct {
	ID          string         `json:"id"`
	ActionType  string         `json:"actionType"`
	Description string         `json:"description"`
	Status      ActivityStatus `json:"status"`
	Timestamp   time.Time      `json:"timestamp"`
	Metadata    Metadata       `json:"metadata,omitempty"`
}

// Task is a calendar-scheduled unit of work.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	ScheduledAt time.Time  `json:"scheduledAt"`
	Duration    *int       `json:"duration,omitempty"` // minutes
	Status      TaskStatus `json:"status"`
	Category    *string    `json:"category,omitempty"`
	Priority    Level      `json:"priority"`
	Color       *string    `json:"color,omitempty"` // display hint
}

// Document is a titled body of text with a free-form type tag.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Tags      []string  `json:"tags,omitempty"`
}

// Memory is a short note; append-and-delete only, never updated.
type Memory struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Category   *string   `json:"category,omitempty"`
	Importance Level     `json:"importance"`
	CreatedAt  time.Time `json:"createdAt"`
	Tags       []string  `json:"tags,omitempty"`
}

// TaskPatch carries a partial task update. Nil fields are left untouched
// by the store; only explicitly supplied fields change.
type TaskPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	ScheduledAt *time.Time  `json:"scheduledAt,omitempty"`
	Duration    *int        `json:"duration,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
	Category    *string     `json:"category,omitempty"`
	Priority    *Level      `json:"priority,omitempty"`
	Color       *string     `json:"color,omitempty"`
}

// IsZero reports whether the patch carries no fields.
func (p TaskPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.ScheduledAt == nil &&
		p.Duration == nil && p.Status == nil && p.Category == nil &&
		p.Priority == nil && p.Color == nil
}

// DocumentPatch carries a partial document update. The store refreshes
// UpdatedAt on every applied patch.
type DocumentPatch struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Type    *string   `json:"type,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

func (p DocumentPatch) IsZero() bool {
	return p.Title == nil && p.Content == nil && p.Type == nil && p.Tags == nil
}

// ListActivitiesRequest captures filters used when listing activities.
type ListActivitiesRequest struct {
	Status *ActivityStatus
	Limit  int
}

// ListTasksRequest captures the range filter used when listing tasks.
// Start/End bound ScheduledAt inclusively when both are set.
type ListTasksRequest struct {
	Start *time.Time
	End   *time.Time
	Limit int
}

// ListDocumentsRequest captures filters used when listing documents.
type ListDocumentsRequest struct {
	Type  *string
	Limit int
}

// ListMemoriesRequest captures filters used when listing memories.
type ListMemoriesRequest struct {
	Category   *string
	Importance *Level
	Limit      int
}
