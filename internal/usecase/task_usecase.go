package usecase

import (
	"context"

	"tasktracker/internal/domain/entity"
)

// CreateTaskInput defines a new task for the authenticated user.
type CreateTaskInput struct {
	Title       string
	Description string
}

// UpdateTaskInput carries the fields to overwrite. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
}

// TaskUsecase manages the tasks of the authenticated user.
// userID always comes from the verified access token, never from the request body.
type TaskUsecase interface {
	Create(ctx context.Context, userID uint, input *CreateTaskInput) (*entity.Task, error)
	List(ctx context.Context, userID uint) ([]*entity.Task, error)
	Update(ctx context.Context, userID, taskID uint, input *UpdateTaskInput) (*entity.Task, error)
	Delete(ctx context.Context, userID, taskID uint) error
}
