package task

import (
	"time"

	"github.com/example/task-tracker/domain/user"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the known status values.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// DateLayout is the wire format for due dates.
const DateLayout = "2006-01-02"

// Task represents a to-do item owned by a single user.
type Task struct {
	ID          string    `gorm:"primaryKey;type:text"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text"`
	Status      Status    `gorm:"size:20;not null;default:new"`
	UserID      string    `gorm:"type:text;not null;index"`
	User        user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	DueDate     time.Time `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// IsOverdue reports whether the task's due date has passed without the task
// being done. Derived at read time, never stored.
func (t *Task) IsOverdue(now time.Time) bool {
	return DateOf(t.DueDate).Before(DateOf(now)) && t.Status != StatusDone
}

// DateOf truncates t to its calendar date in UTC. Due dates are calendar
// dates, so all comparisons happen at day granularity.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date.
func Today() time.Time {
	return DateOf(time.Now())
}
