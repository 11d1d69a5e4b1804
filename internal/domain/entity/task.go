package entity

import "time"

// Task is a to-do item owned by exactly one User.
type Task struct {
	ID          uint
	UserID      uint // Owning user; every task operation is filtered by it.
	Title       string
	Description string
	CreatedAt   time.Time // Set on creation, never changed.
}

// TaskChanges carries the fields a caller wants to overwrite on a task.
// A nil field keeps the stored value.
type TaskChanges struct {
	Title       *string
	Description *string
}

// Apply overwrites the supplied fields on t.
func (c TaskChanges) Apply(t *Task) {
	if c.Title != nil {
		t.Title = *c.Title
	}
	if c.Description != nil {
		t.Description = *c.Description
	}
}
