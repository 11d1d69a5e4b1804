package impl

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	deliverycontext "tasktracker/internal/delivery/context"
	"tasktracker/internal/domain/entity"
	domainerrors "tasktracker/internal/domain/errors"
	"tasktracker/internal/domain/repository"
	"tasktracker/internal/errors"
	"tasktracker/internal/infra/metrics"
	"tasktracker/internal/usecase"
)

// taskService implements the TaskUsecase interface.
type taskService struct {
	txManager repository.TransactionManager
	taskRepo  repository.TaskRepository
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// TaskServiceParams holds dependencies for taskService, injected by Fx.
type TaskServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	TaskRepo  repository.TaskRepository
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// NewTaskService is the constructor for taskService.
func NewTaskService(params TaskServiceParams) usecase.TaskUsecase {
	return &taskService{
		txManager: params.TxManager,
		taskRepo:  params.TaskRepo,
		metrics:   params.Metrics,
		logger:    params.Logger,
	}
}

func (srv *taskService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create adds a task owned by userID.
func (srv *taskService) Create(ctx context.Context, userID uint, input *usecase.CreateTaskInput) (task *entity.Task, err error) {
	defer func() { srv.metrics.RecordTaskOperation("create", err) }()

	if input.Title == "" {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("title is required"))
	}

	task = &entity.Task{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
	}
	if err = srv.taskRepo.Create(ctx, task); err != nil {
		srv.log(ctx).Error("Failed to create task", slog.Uint64("userID", uint64(userID)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create task")
	}

	srv.log(ctx).Debug("Task created", slog.Uint64("userID", uint64(userID)), slog.Uint64("taskID", uint64(task.ID)))

	return task, nil
}

// List returns the tasks of userID ordered by ID.
func (srv *taskService) List(ctx context.Context, userID uint) (tasks []*entity.Task, err error) {
	defer func() { srv.metrics.RecordTaskOperation("list", err) }()

	tasks, err = srv.taskRepo.FindByOwner(ctx, userID)
	if err != nil {
		srv.log(ctx).Error("Failed to list tasks", slog.Uint64("userID", uint64(userID)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list tasks")
	}

	return tasks, nil
}

// Update overwrites the supplied fields of a task owned by userID.
func (srv *taskService) Update(ctx context.Context, userID, taskID uint, input *usecase.UpdateTaskInput) (task *entity.Task, err error) {
	defer func() { srv.metrics.RecordTaskOperation("update", err) }()

	if input.Title != nil && *input.Title == "" {
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("title must not be empty"))
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		taskRepo := repoFactory.TaskRepo()

		current, findErr := taskRepo.FindOwned(ctx, userID, taskID)
		if findErr != nil {
			return findErr
		}

		entity.TaskChanges{Title: input.Title, Description: input.Description}.Apply(current)
		if updateErr := taskRepo.Update(ctx, current); updateErr != nil {
			return updateErr
		}
		task = current

		return nil
	})
	if err != nil {
		return nil, srv.taskError(ctx, err, userID, taskID, "update")
	}

	srv.log(ctx).Debug("Task updated", slog.Uint64("userID", uint64(userID)), slog.Uint64("taskID", uint64(taskID)))

	return task, nil
}

// Delete removes a task owned by userID.
func (srv *taskService) Delete(ctx context.Context, userID, taskID uint) (err error) {
	defer func() { srv.metrics.RecordTaskOperation("delete", err) }()

	if err = srv.taskRepo.DeleteOwned(ctx, userID, taskID); err != nil {
		return srv.taskError(ctx, err, userID, taskID, "delete")
	}

	srv.log(ctx).Debug("Task deleted", slog.Uint64("userID", uint64(userID)), slog.Uint64("taskID", uint64(taskID)))

	return nil
}

// taskError maps a missing or foreign task to ErrTaskNotFound so that the
// existence of other users' tasks is never revealed.
func (srv *taskService) taskError(ctx context.Context, err error, userID, taskID uint, operation string) error {
	attrs := []any{
		slog.String("operation", operation),
		slog.Uint64("userID", uint64(userID)),
		slog.Uint64("taskID", uint64(taskID)),
	}

	if errors.Is(err, repository.ErrTaskNotFound) {
		srv.log(ctx).Warn("Task not found for user", attrs...)

		return errors.Wrap(domainerrors.ErrTaskNotFound, operation+" task failed")
	}

	srv.log(ctx).Error("Task operation failed", append(attrs, slog.Any("error", err))...)

	return errors.Wrapf(err, "failed to %s task", operation)
}
