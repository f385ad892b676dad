package tasks

import (
	"strconv"
	"strings"
	"time"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/validation"
)

const (
	maxTitleLength       = 200
	maxTitleFilterLength = 50
)

// CreateTaskInput validates input for task creation. A new task must start in
// status "new"; updates go through UpdateTaskInput, which accepts any status.
// Keeping the two paths separate makes the state-dependent rule visible in
// the types.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	DueDate     string
}

// Validate collects every field failure and returns the parsed status and
// due date alongside them. The parsed values are only meaningful when the
// returned FieldErrors is empty.
func (in CreateTaskInput) Validate(today time.Time) (task.Status, time.Time, validation.FieldErrors) {
	errs := validation.FieldErrors{}

	validateTitle(in.Title, errs)
	validateDescription(in.Description, errs)

	status := task.StatusNew
	if in.Status != "" {
		status = task.Status(in.Status)
		if !status.Valid() {
			errs.Add("status", "Status must be one of: new, in_progress, done.")
		} else if status != task.StatusNew {
			errs.Add("status", "A new task must start in status \"new\".")
		}
	}

	dueDate := validateDueDate(in.DueDate, today, errs)

	return status, dueDate, errs
}

// UpdateTaskInput validates input for a full task update. All mutable fields
// are required and any valid status is accepted.
type UpdateTaskInput struct {
	Title       string
	Description string
	Status      string
	DueDate     string
}

// Validate collects every field failure for a full update.
func (in UpdateTaskInput) Validate(today time.Time) (task.Status, time.Time, validation.FieldErrors) {
	errs := validation.FieldErrors{}

	validateTitle(in.Title, errs)
	validateDescription(in.Description, errs)

	status := task.Status(in.Status)
	if in.Status == "" {
		errs.Add("status", "This field is required.")
	} else if !status.Valid() {
		errs.Add("status", "Status must be one of: new, in_progress, done.")
	}

	dueDate := validateDueDate(in.DueDate, today, errs)

	return status, dueDate, errs
}

// TaskPatch holds the parsed changes of a partial update. Nil fields are left
// untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *task.Status
	DueDate     *time.Time
}

// PatchTaskInput validates input for a partial update. Only supplied fields
// are checked.
type PatchTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	DueDate     *string
}

// Validate collects failures for the supplied fields only.
func (in PatchTaskInput) Validate(today time.Time) (TaskPatch, validation.FieldErrors) {
	errs := validation.FieldErrors{}
	patch := TaskPatch{}

	if in.Title != nil {
		validateTitle(*in.Title, errs)
		patch.Title = in.Title
	}
	if in.Description != nil {
		validateDescription(*in.Description, errs)
		patch.Description = in.Description
	}
	if in.Status != nil {
		status := task.Status(*in.Status)
		if !status.Valid() {
			errs.Add("status", "Status must be one of: new, in_progress, done.")
		} else {
			patch.Status = &status
		}
	}
	if in.DueDate != nil {
		dueDate := validateDueDate(*in.DueDate, today, errs)
		patch.DueDate = &dueDate
	}

	return patch, errs
}

// ListQuery validates the optional list parameters: title substring filter,
// status filter, sort, and limit/offset pagination.
type ListQuery struct {
	Title  string
	Status string
	SortBy string
	Order  string
	Limit  string
	Offset string
}

// ListFilter is the validated form of ListQuery, consumed by the repository.
type ListFilter struct {
	Title         string
	Status        task.Status
	SortByDueDate bool
	Descending    bool
	Limit         *int
	Offset        *int
}

// Validate collects every parameter failure. sortBy and order are
// co-dependent: supplying one without the other names the missing field.
func (q ListQuery) Validate() (ListFilter, validation.FieldErrors) {
	errs := validation.FieldErrors{}
	filter := ListFilter{Title: q.Title}

	if len(q.Title) > maxTitleFilterLength {
		errs.Add("title", "Title filter must be at most 50 characters.")
	}

	if q.Status != "" {
		status := task.Status(q.Status)
		if !status.Valid() {
			errs.Add("status", "Status must be one of: new, in_progress, done.")
		}
		filter.Status = status
	}

	switch {
	case q.SortBy != "" && q.Order == "":
		errs.Add("order", "order is required when sortBy is supplied.")
	case q.Order != "" && q.SortBy == "":
		errs.Add("sortBy", "sortBy is required when order is supplied.")
	}

	if q.SortBy != "" {
		if q.SortBy != "due_date" {
			errs.Add("sortBy", "Sorting is only supported by due_date.")
		} else {
			filter.SortByDueDate = true
		}
	}

	if q.Order != "" {
		switch strings.ToLower(q.Order) {
		case "asc":
		case "desc":
			filter.Descending = true
		default:
			errs.Add("order", "Order must be \"asc\" or \"desc\".")
		}
	}

	filter.Limit = validatePageParam("limit", q.Limit, errs)
	filter.Offset = validatePageParam("offset", q.Offset, errs)

	return filter, errs
}

func validateTitle(title string, errs validation.FieldErrors) {
	if title == "" {
		errs.Add("title", "This field is required.")
	} else if len(title) > maxTitleLength {
		errs.Add("title", "Title must be at most 200 characters.")
	}
}

func validateDescription(description string, errs validation.FieldErrors) {
	if description == "" {
		errs.Add("description", "This field is required.")
	}
}

func validateDueDate(value string, today time.Time, errs validation.FieldErrors) time.Time {
	if value == "" {
		errs.Add("due_date", "This field is required.")
		return time.Time{}
	}
	dueDate, err := time.Parse(task.DateLayout, value)
	if err != nil {
		errs.Add("due_date", "Due date must be a valid date in YYYY-MM-DD format.")
		return time.Time{}
	}
	if dueDate.Before(task.DateOf(today)) {
		errs.Add("due_date", "Due date must not be in the past.")
	}
	return dueDate
}

func validatePageParam(name, value string, errs validation.FieldErrors) *int {
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		errs.Add(name, "Must be a non-negative integer.")
		return nil
	}
	return &n
}
