package validation

import (
	"fmt"
	"sort"
	"strings"
)

// FieldErrors collects validation messages keyed by field name. Rules append
// to it instead of failing fast, so a response can report every problem at
// once.
type FieldErrors map[string][]string

// Add appends a message for the given field.
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Merge appends all messages from other.
func (e FieldErrors) Merge(other FieldErrors) {
	for field, messages := range other {
		e[field] = append(e[field], messages...)
	}
}

// Empty reports whether no messages were collected.
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Error wraps FieldErrors so services can return collected validation
// failures through a plain error value.
type Error struct {
	Fields FieldErrors
}

// NewError creates a validation Error from collected field errors.
func NewError(fields FieldErrors) *Error {
	return &Error{Fields: fields}
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}
