package tasks

import (
	"errors"
	"testing"
	"time"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestRepo creates a TaskRepository over an in-memory SQLite database.
func setupTestRepo(t *testing.T) *TaskRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&user.User{}, &task.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return NewTaskRepository(db)
}

func newTestTask(ownerID, title string, status task.Status, due time.Time) *task.Task {
	now := time.Now()
	return &task.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: "test task",
		Status:      status,
		UserID:      ownerID,
		DueDate:     due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestTaskRepository_FindByID_OwnerScoped(t *testing.T) {
	repo := setupTestRepo(t)
	due := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	mine := newTestTask("owner-1", "Mine", task.StatusNew, due)
	if err := repo.Create(mine); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("owner sees the task", func(t *testing.T) {
		found, err := repo.FindByID("owner-1", mine.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.Title != "Mine" {
			t.Errorf("found.Title = %v, want Mine", found.Title)
		}
	})

	t.Run("another user gets not found even with the right ID", func(t *testing.T) {
		if _, err := repo.FindByID("owner-2", mine.ID); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("FindByID() error = %v, want ErrTaskNotFound", err)
		}
	})

	t.Run("unknown ID", func(t *testing.T) {
		if _, err := repo.FindByID("owner-1", "no-such-id"); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("FindByID() error = %v, want ErrTaskNotFound", err)
		}
	})
}

func TestTaskRepository_List_NeverLeaksAcrossOwners(t *testing.T) {
	repo := setupTestRepo(t)
	due := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if err := repo.Create(newTestTask("owner-1", "Task "+string(rune('A'+i)), task.StatusNew, due)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if err := repo.Create(newTestTask("owner-2", "Other", task.StatusNew, due)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tasks, err := repo.List("owner-1", ListFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("List() returned %d tasks, want 3", len(tasks))
	}
	for _, item := range tasks {
		if item.UserID != "owner-1" {
			t.Errorf("List() leaked task owned by %v", item.UserID)
		}
	}
}

func TestTaskRepository_List_TitleFilter(t *testing.T) {
	repo := setupTestRepo(t)
	due := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	for _, title := range []string{"Write Report", "review report draft", "Buy milk"} {
		if err := repo.Create(newTestTask("owner-1", title, task.StatusNew, due)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	// Case-insensitive substring match.
	tasks, err := repo.List("owner-1", ListFilter{Title: "REPORT"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("List() returned %d tasks, want 2", len(tasks))
	}
}

func TestTaskRepository_List_TitleFilterMatchesWildcardsLiterally(t *testing.T) {
	repo := setupTestRepo(t)
	due := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	for _, title := range []string{"100% coverage", "laundry_day", "Buy milk"} {
		if err := repo.Create(newTestTask("owner-1", title, task.StatusNew, due)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tests := []struct {
		name   string
		filter string
		want   int
	}{
		{name: "percent is a literal, not a wildcard", filter: "%", want: 1},
		{name: "underscore is a literal, not a wildcard", filter: "y_d", want: 1},
		{name: "literal substring around percent", filter: "100% cov", want: 1},
		{name: "no match", filter: "%coverage_", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := repo.List("owner-1", ListFilter{Title: tt.filter})
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(tasks) != tt.want {
				t.Errorf("List() returned %d tasks, want %d", len(tasks), tt.want)
			}
		})
	}
}

func TestTaskRepository_List_StatusFilter(t *testing.T) {
	repo := setupTestRepo(t)
	due := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	if err := repo.Create(newTestTask("owner-1", "A", task.StatusNew, due)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(newTestTask("owner-1", "B", task.StatusDone, due)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tasks, err := repo.List("owner-1", ListFilter{Status: task.StatusDone})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "B" {
		t.Errorf("List() = %v, want only the done task", tasks)
	}
}

func TestTaskRepository_List_SortByDueDate(t *testing.T) {
	repo := setupTestRepo(t)
	base := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	// Insert out of order.
	for _, days := range []int{5, 1, 3} {
		if err := repo.Create(newTestTask("owner-1", uuid.New().String(), task.StatusNew, base.AddDate(0, 0, days))); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	t.Run("ascending", func(t *testing.T) {
		tasks, err := repo.List("owner-1", ListFilter{SortByDueDate: true})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		for i := 1; i < len(tasks); i++ {
			if tasks[i].DueDate.Before(tasks[i-1].DueDate) {
				t.Errorf("tasks not in non-decreasing due date order at %d", i)
			}
		}
	})

	t.Run("descending", func(t *testing.T) {
		tasks, err := repo.List("owner-1", ListFilter{SortByDueDate: true, Descending: true})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		for i := 1; i < len(tasks); i++ {
			if tasks[i].DueDate.After(tasks[i-1].DueDate) {
				t.Errorf("tasks not in non-increasing due date order at %d", i)
			}
		}
	})
}

func TestTaskRepository_List_Pagination(t *testing.T) {
	repo := setupTestRepo(t)
	base := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		tsk := newTestTask("owner-1", uuid.New().String(), task.StatusNew, base)
		tsk.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := repo.Create(tsk); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	limit, offset := 2, 1
	page, err := repo.List("owner-1", ListFilter{Limit: &limit, Offset: &offset})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page) != 2 {
		t.Errorf("List() returned %d tasks, want 2", len(page))
	}

	count, err := repo.Count("owner-1", ListFilter{Limit: &limit, Offset: &offset})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	// Count ignores pagination.
	if count != 5 {
		t.Errorf("Count() = %d, want 5", count)
	}
}

func TestTaskRepository_Delete(t *testing.T) {
	repo := setupTestRepo(t)
	due := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	tsk := newTestTask("owner-1", "Doomed", task.StatusNew, due)
	if err := repo.Create(tsk); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("other user cannot delete", func(t *testing.T) {
		if err := repo.Delete("owner-2", tsk.ID); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("Delete() error = %v, want ErrTaskNotFound", err)
		}
	})

	t.Run("first delete succeeds", func(t *testing.T) {
		if err := repo.Delete("owner-1", tsk.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
	})

	t.Run("second delete reports not found", func(t *testing.T) {
		if err := repo.Delete("owner-1", tsk.ID); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("Delete() error = %v, want ErrTaskNotFound", err)
		}
	})
}

func TestTaskRepository_ActiveTitleExists(t *testing.T) {
	repo := setupTestRepo(t)
	due := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	active := newTestTask("owner-1", "Report", task.StatusInProgress, due)
	done := newTestTask("owner-1", "Shipped", task.StatusDone, due)
	if err := repo.Create(active); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(done); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name      string
		ownerID   string
		title     string
		excludeID string
		want      bool
	}{
		{
			name:    "non-done task with same title",
			ownerID: "owner-1",
			title:   "Report",
			want:    true,
		},
		{
			name:    "done task does not block the title",
			ownerID: "owner-1",
			title:   "Shipped",
			want:    false,
		},
		{
			name:    "different owner is unaffected",
			ownerID: "owner-2",
			title:   "Report",
			want:    false,
		},
		{
			name:      "task excludes itself",
			ownerID:   "owner-1",
			title:     "Report",
			excludeID: active.ID,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ActiveTitleExists(tt.ownerID, tt.title, tt.excludeID)
			if err != nil {
				t.Fatalf("ActiveTitleExists() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ActiveTitleExists() = %v, want %v", got, tt.want)
			}
		})
	}
}
