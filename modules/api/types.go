package api

import (
	"github.com/example/task-tracker/domain/validation"
	"github.com/example/task-tracker/modules/tasks"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse represents an authentication token response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// TaskWriteRequest is the body of task creation and full update requests.
type TaskWriteRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date"`
}

// TaskPatchRequest is the body of a partial update. Absent fields stay nil
// and are left untouched.
type TaskPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	DueDate     *string `json:"due_date"`
}

// TaskListResponse is the page wrapper for task listings, used whether or
// not the caller paginated.
type TaskListResponse struct {
	Count   int              `json:"count"`
	Results []tasks.TaskView `json:"results"`
}

// MessageResponse is a success confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// DetailResponse is a generic failure body.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// FieldErrorsResponse carries collected validation errors, keyed by field.
type FieldErrorsResponse struct {
	Errors validation.FieldErrors `json:"errors"`
}

// ErrorResponse represents a transport-level error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
