package tasks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/task-tracker/domain/task"
	"gorm.io/gorm"
)

// ErrTaskNotFound is returned when a task does not exist or belongs to a
// different user. The two cases are indistinguishable so callers cannot probe
// for other users' task IDs.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository handles task persistence using GORM. Every query is scoped
// to an owner; there is no unscoped lookup.
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create saves a new task.
func (r *TaskRepository) Create(t *task.Task) error {
	if err := r.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by ID for the given owner.
func (r *TaskRepository) FindByID(ownerID, id string) (*task.Task, error) {
	var t task.Task
	if err := r.db.First(&t, "id = ? AND user_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// Save persists changes to an existing task.
func (r *TaskRepository) Save(t *task.Task) error {
	if err := r.db.Save(t).Error; err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// Delete removes a task by ID for the given owner.
func (r *TaskRepository) Delete(ownerID, id string) error {
	result := r.db.Delete(&task.Task{}, "id = ? AND user_id = ?", id, ownerID)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// List retrieves the owner's tasks matching the filter, ordered and
// paginated. Default order is creation order; sorting by due date replaces
// it.
func (r *TaskRepository) List(ownerID string, f ListFilter) ([]*task.Task, error) {
	q := r.filtered(ownerID, f)

	if f.SortByDueDate {
		if f.Descending {
			q = q.Order("due_date DESC")
		} else {
			q = q.Order("due_date ASC")
		}
	} else {
		q = q.Order("created_at ASC, id ASC")
	}

	if f.Limit != nil {
		q = q.Limit(*f.Limit)
	}
	if f.Offset != nil {
		q = q.Offset(*f.Offset)
	}

	var tasks []*task.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Count returns the number of the owner's tasks matching the filter,
// ignoring pagination.
func (r *TaskRepository) Count(ownerID string, f ListFilter) (int64, error) {
	var count int64
	if err := r.filtered(ownerID, f).Model(&task.Task{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// ActiveTitleExists checks whether the owner already has a non-done task with
// the given title, optionally excluding one task ID. Best-effort pre-check;
// there is no storage-level constraint backing it, so concurrent submissions
// can still race.
func (r *TaskRepository) ActiveTitleExists(ownerID, title, excludeID string) (bool, error) {
	q := r.db.Model(&task.Task{}).
		Where("user_id = ? AND title = ? AND status <> ?", ownerID, title, task.StatusDone)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check title uniqueness: %w", err)
	}
	return count > 0, nil
}

func (r *TaskRepository) filtered(ownerID string, f ListFilter) *gorm.DB {
	q := r.db.Where("user_id = ?", ownerID)
	if f.Title != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Title)) + "%"
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

// escapeLike neutralizes LIKE metacharacters so a filter value matches
// literally.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return replacer.Replace(s)
}
