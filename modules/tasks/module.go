package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/validation"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TaskModule provides the per-user task CRUD services.
type TaskModule struct {
	db      *gorm.DB
	service *TaskService
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a new TaskModule.
func NewModule() *TaskModule {
	return &TaskModule{
		dbPath: databasePath(),
	}
}

// databasePath resolves the SQLite path shared by the auth and tasks modules.
func databasePath() string {
	if path := os.Getenv("TASK_TRACKER_DB_PATH"); path != "" {
		return path
	}
	return "task_tracker.db"
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "tasks"
}

// Start initializes the tasks module.
func (m *TaskModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.service = NewTaskService(NewTaskRepository(db))

	log.Printf("[tasks] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[tasks] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TaskModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		"create-task": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "create-task", json.Unmarshal, json.Marshal, m.handleCreate)
		},
		"get-task": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "get-task", json.Unmarshal, json.Marshal, m.handleGet)
		},
		"list-tasks": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "list-tasks", json.Unmarshal, json.Marshal, m.handleList)
		},
		"update-task": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "update-task", json.Unmarshal, json.Marshal, m.handleUpdate)
		},
		"patch-task": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "patch-task", json.Unmarshal, json.Marshal, m.handlePatch)
		},
		"delete-task": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "delete-task", json.Unmarshal, json.Marshal, m.handleDelete)
		},
	}

	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[tasks] Registered services: create-task, get-task, list-tasks, update-task, patch-task, delete-task")
	return nil
}

// Expected failures (validation, not found) travel in the response payload so
// their detail survives the service container boundary; only unexpected
// errors propagate as errors.

func (m *TaskModule) handleCreate(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (CreateTaskResponse, error) {
	view, err := m.service.Create(ctx, req)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return CreateTaskResponse{Errors: verr.Fields}, nil
		}
		return CreateTaskResponse{}, err
	}
	return CreateTaskResponse{Task: view}, nil
}

func (m *TaskModule) handleGet(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (GetTaskResponse, error) {
	view, err := m.service.Get(ctx, req.UserID, req.TaskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return GetTaskResponse{NotFound: true}, nil
		}
		return GetTaskResponse{}, err
	}
	return GetTaskResponse{Task: view}, nil
}

func (m *TaskModule) handleList(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	result, err := m.service.List(ctx, req)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return ListTasksResponse{Errors: verr.Fields}, nil
		}
		return ListTasksResponse{}, err
	}
	return ListTasksResponse{
		Count:   result.Count,
		Results: result.Results,
	}, nil
}

func (m *TaskModule) handleUpdate(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (UpdateTaskResponse, error) {
	view, err := m.service.Update(ctx, req)
	return updateResponse(view, err)
}

func (m *TaskModule) handlePatch(ctx context.Context, req PatchTaskRequest, _ *mono.Msg) (UpdateTaskResponse, error) {
	view, err := m.service.Patch(ctx, req)
	return updateResponse(view, err)
}

func (m *TaskModule) handleDelete(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.Delete(ctx, req.UserID, req.TaskID); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return DeleteTaskResponse{NotFound: true}, nil
		}
		return DeleteTaskResponse{}, err
	}
	return DeleteTaskResponse{Deleted: true}, nil
}

func updateResponse(view *TaskView, err error) (UpdateTaskResponse, error) {
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return UpdateTaskResponse{NotFound: true}, nil
		}
		var verr *validation.Error
		if errors.As(err, &verr) {
			return UpdateTaskResponse{Errors: verr.Fields}, nil
		}
		return UpdateTaskResponse{}, err
	}
	return UpdateTaskResponse{Task: view}, nil
}
