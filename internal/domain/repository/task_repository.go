package repository

import (
	"context"
	"errors"

	"tasktracker/internal/domain/entity"
)

// ErrTaskNotFound is returned when no task with the given ID belongs to the given user.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository persists tasks. Every read and write is scoped to the owning user.
type TaskRepository interface {
	// Create persists a new task and sets its generated ID and creation time.
	Create(ctx context.Context, task *entity.Task) error

	// FindByOwner returns all tasks of userID ordered by ID.
	FindByOwner(ctx context.Context, userID uint) ([]*entity.Task, error)

	// FindOwned returns the task with taskID if it belongs to userID.
	FindOwned(ctx context.Context, userID, taskID uint) (*entity.Task, error)

	// Update stores the title and description of a task owned by task.UserID.
	Update(ctx context.Context, task *entity.Task) error

	// DeleteOwned removes the task with taskID if it belongs to userID.
	DeleteOwned(ctx context.Context, userID, taskID uint) error
}
