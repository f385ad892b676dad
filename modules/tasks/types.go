package tasks

import (
	"github.com/example/task-tracker/domain/validation"
)

// TaskView is the read representation of a task. IsOverdue is derived at
// read time, never stored.
type TaskView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	User        string `json:"user"`
	DueDate     string `json:"due_date"`
	IsOverdue   bool   `json:"is_overdue"`
}

// CreateTaskRequest is the request for creating a task. UserID is the
// authenticated owner, set by the caller module and never by the client.
type CreateTaskRequest struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
	DueDate     string `json:"due_date"`
}

// CreateTaskResponse is the response for creating a task.
type CreateTaskResponse struct {
	Task   *TaskView              `json:"task,omitempty"`
	Errors validation.FieldErrors `json:"errors,omitempty"`
}

// GetTaskRequest is the request for retrieving a task by ID, scoped to the
// owner.
type GetTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// GetTaskResponse is the response for retrieving a task. NotFound covers both
// a missing task and a task owned by someone else.
type GetTaskResponse struct {
	Task     *TaskView `json:"task,omitempty"`
	NotFound bool      `json:"not_found,omitempty"`
}

// ListTasksRequest is the request for listing a user's tasks. The filter,
// sort and pagination parameters arrive as raw query strings and are
// validated together so all parameter errors are reported at once.
type ListTasksRequest struct {
	UserID string `json:"user_id"`
	Title  string `json:"title,omitempty"`
	Status string `json:"status,omitempty"`
	SortBy string `json:"sort_by,omitempty"`
	Order  string `json:"order,omitempty"`
	Limit  string `json:"limit,omitempty"`
	Offset string `json:"offset,omitempty"`
}

// ListTasksResponse is the response for listing tasks. Count is the total
// number of matches before pagination; the wrapper is identical whether or
// not limit/offset were supplied.
type ListTasksResponse struct {
	Count   int                    `json:"count"`
	Results []TaskView             `json:"results"`
	Errors  validation.FieldErrors `json:"errors,omitempty"`
}

// UpdateTaskRequest is the request for a full task update. All mutable
// fields are required.
type UpdateTaskRequest struct {
	UserID      string `json:"user_id"`
	TaskID      string `json:"task_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date"`
}

// PatchTaskRequest is the request for a partial update. Only non-nil fields
// are validated and applied.
type PatchTaskRequest struct {
	UserID      string  `json:"user_id"`
	TaskID      string  `json:"task_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

// UpdateTaskResponse is the response for full and partial updates.
type UpdateTaskResponse struct {
	Task     *TaskView              `json:"task,omitempty"`
	Errors   validation.FieldErrors `json:"errors,omitempty"`
	NotFound bool                   `json:"not_found,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Deleted  bool `json:"deleted"`
	NotFound bool `json:"not_found,omitempty"`
}
