package tasks

import (
	"context"
	"time"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/validation"
	"github.com/google/uuid"
)

// TaskService handles task business logic. Every operation takes the owner's
// user ID from the authenticated caller; a bare task ID is never trusted on
// its own.
type TaskService struct {
	repo *TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo *TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// ListResult is the filtered, ordered page of a user's tasks. Count is the
// total before pagination.
type ListResult struct {
	Count   int
	Results []TaskView
}

// Create validates and persists a new task for the owner. Validation
// failures come back as a *validation.Error with every field problem
// collected.
func (s *TaskService) Create(_ context.Context, req CreateTaskRequest) (*TaskView, error) {
	in := CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	}
	status, dueDate, errs := in.Validate(task.Today())

	if len(errs["title"]) == 0 {
		exists, err := s.repo.ActiveTitleExists(req.UserID, req.Title, "")
		if err != nil {
			return nil, err
		}
		if exists {
			errs.Add("title", "An incomplete task with this title already exists.")
		}
	}

	if !errs.Empty() {
		return nil, validation.NewError(errs)
	}

	now := time.Now()
	t := &task.Task{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		UserID:      req.UserID,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(t); err != nil {
		return nil, err
	}

	return viewOf(t), nil
}

// Get retrieves a single task scoped to its owner.
func (s *TaskService) Get(_ context.Context, userID, taskID string) (*TaskView, error) {
	t, err := s.repo.FindByID(userID, taskID)
	if err != nil {
		return nil, err
	}
	return viewOf(t), nil
}

// List returns the owner's tasks after applying the optional title, status,
// sort and pagination parameters.
func (s *TaskService) List(_ context.Context, req ListTasksRequest) (*ListResult, error) {
	query := ListQuery{
		Title:  req.Title,
		Status: req.Status,
		SortBy: req.SortBy,
		Order:  req.Order,
		Limit:  req.Limit,
		Offset: req.Offset,
	}
	filter, errs := query.Validate()
	if !errs.Empty() {
		return nil, validation.NewError(errs)
	}

	count, err := s.repo.Count(req.UserID, filter)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.List(req.UserID, filter)
	if err != nil {
		return nil, err
	}

	result := &ListResult{
		Count:   int(count),
		Results: make([]TaskView, 0, len(items)),
	}
	for _, t := range items {
		result.Results = append(result.Results, *viewOf(t))
	}
	return result, nil
}

// Update replaces every mutable field of an owned task. Unlike creation, any
// valid status is accepted.
func (s *TaskService) Update(_ context.Context, req UpdateTaskRequest) (*TaskView, error) {
	t, err := s.repo.FindByID(req.UserID, req.TaskID)
	if err != nil {
		return nil, err
	}

	in := UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	}
	status, dueDate, errs := in.Validate(task.Today())

	if len(errs["title"]) == 0 && len(errs["status"]) == 0 && status != task.StatusDone {
		exists, err := s.repo.ActiveTitleExists(req.UserID, req.Title, t.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			errs.Add("title", "An incomplete task with this title already exists.")
		}
	}

	if !errs.Empty() {
		return nil, validation.NewError(errs)
	}

	t.Title = req.Title
	t.Description = req.Description
	t.Status = status
	t.DueDate = dueDate
	t.UpdatedAt = time.Now()

	if err := s.repo.Save(t); err != nil {
		return nil, err
	}
	return viewOf(t), nil
}

// Patch applies only the supplied fields of an owned task, leaving the rest
// untouched.
func (s *TaskService) Patch(_ context.Context, req PatchTaskRequest) (*TaskView, error) {
	t, err := s.repo.FindByID(req.UserID, req.TaskID)
	if err != nil {
		return nil, err
	}

	in := PatchTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	}
	patch, errs := in.Validate(task.Today())

	// The non-done title invariant is checked against the task's effective
	// state after the patch.
	title := t.Title
	if patch.Title != nil {
		title = *patch.Title
	}
	status := t.Status
	if patch.Status != nil {
		status = *patch.Status
	}
	if errs.Empty() && status != task.StatusDone {
		exists, err := s.repo.ActiveTitleExists(req.UserID, title, t.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			errs.Add("title", "An incomplete task with this title already exists.")
		}
	}

	if !errs.Empty() {
		return nil, validation.NewError(errs)
	}

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.DueDate != nil {
		t.DueDate = *patch.DueDate
	}
	t.UpdatedAt = time.Now()

	if err := s.repo.Save(t); err != nil {
		return nil, err
	}
	return viewOf(t), nil
}

// Delete removes an owned task. Deleting an already-deleted or foreign task
// reports ErrTaskNotFound.
func (s *TaskService) Delete(_ context.Context, userID, taskID string) error {
	if err := s.repo.Delete(userID, taskID); err != nil {
		return err
	}
	return nil
}

func viewOf(t *task.Task) *TaskView {
	return &TaskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		User:        t.UserID,
		DueDate:     t.DueDate.Format(task.DateLayout),
		IsOverdue:   t.IsOverdue(time.Now()),
	}
}
