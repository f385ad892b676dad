package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort defines the interface other modules use to access task
// functionality.
type TaskPort interface {
	Create(ctx context.Context, req CreateTaskRequest) (*CreateTaskResponse, error)
	Get(ctx context.Context, req GetTaskRequest) (*GetTaskResponse, error)
	List(ctx context.Context, req ListTasksRequest) (*ListTasksResponse, error)
	Update(ctx context.Context, req UpdateTaskRequest) (*UpdateTaskResponse, error)
	Patch(ctx context.Context, req PatchTaskRequest) (*UpdateTaskResponse, error)
	Delete(ctx context.Context, req DeleteTaskRequest) (*DeleteTaskResponse, error)
}

// TaskAdapter implements TaskPort over the service container.
type TaskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new TaskAdapter.
func NewTaskAdapter(container mono.ServiceContainer) *TaskAdapter {
	return &TaskAdapter{
		container: container,
	}
}

// Create creates a task for the authenticated owner.
func (a *TaskAdapter) Create(ctx context.Context, req CreateTaskRequest) (*CreateTaskResponse, error) {
	var resp CreateTaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "create-task", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("create-task request failed: %w", err)
	}
	return &resp, nil
}

// Get retrieves an owned task.
func (a *TaskAdapter) Get(ctx context.Context, req GetTaskRequest) (*GetTaskResponse, error) {
	var resp GetTaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "get-task", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("get-task request failed: %w", err)
	}
	return &resp, nil
}

// List lists the owner's tasks with optional filter, sort and pagination.
func (a *TaskAdapter) List(ctx context.Context, req ListTasksRequest) (*ListTasksResponse, error) {
	var resp ListTasksResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list-tasks", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("list-tasks request failed: %w", err)
	}
	return &resp, nil
}

// Update replaces all mutable fields of an owned task.
func (a *TaskAdapter) Update(ctx context.Context, req UpdateTaskRequest) (*UpdateTaskResponse, error) {
	var resp UpdateTaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "update-task", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("update-task request failed: %w", err)
	}
	return &resp, nil
}

// Patch applies only the supplied fields of an owned task.
func (a *TaskAdapter) Patch(ctx context.Context, req PatchTaskRequest) (*UpdateTaskResponse, error) {
	var resp UpdateTaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "patch-task", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("patch-task request failed: %w", err)
	}
	return &resp, nil
}

// Delete removes an owned task.
func (a *TaskAdapter) Delete(ctx context.Context, req DeleteTaskRequest) (*DeleteTaskResponse, error) {
	var resp DeleteTaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "delete-task", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("delete-task request failed: %w", err)
	}
	return &resp, nil
}
