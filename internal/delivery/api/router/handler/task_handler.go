package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"tasktracker/internal/delivery/api/response"
	deliverycontext "tasktracker/internal/delivery/context"
	"tasktracker/internal/domain/entity"
	domainerrors "tasktracker/internal/domain/errors"
	"tasktracker/internal/errors"
	"tasktracker/internal/usecase"
)

// TaskHandlerParams holds dependencies for TaskHandler, injected by Fx.
type TaskHandlerParams struct {
	fx.In

	TaskUC usecase.TaskUsecase
	Logger *slog.Logger
}

// TaskHandler serves the task routes. All of them sit behind the access guard.
type TaskHandler struct {
	taskUC usecase.TaskUsecase
	logger *slog.Logger
}

// NewTaskHandler is the constructor for TaskHandler
func NewTaskHandler(params TaskHandlerParams) *TaskHandler {
	return &TaskHandler{
		taskUC: params.TaskUC,
		logger: params.Logger,
	}
}

// CreateTaskRequest is the body of POST /tasks/add.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
}

// UpdateTaskRequest is the body of PUT /tasks/:id. Absent fields keep their value.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description"`
}

// CreateTaskResponse is the body of a successful task creation.
type CreateTaskResponse struct {
	Message string `json:"message"`
	TaskID  uint   `json:"task_id"`
}

// TaskResponse is one element of the task list.
type TaskResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListTasksResponse is the body of GET /tasks/.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// Create handles POST /tasks/add.
func (h *TaskHandler) Create(c echo.Context) error {
	userID, err := authenticatedUser(c)
	if err != nil {
		return err
	}

	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("request body must be a JSON object"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.taskUC.Create(c.Request().Context(), userID, &usecase.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.JSON(c, http.StatusCreated, CreateTaskResponse{
		Message: "Task created successfully",
		TaskID:  task.ID,
	})
}

// List handles GET /tasks/.
func (h *TaskHandler) List(c echo.Context) error {
	userID, err := authenticatedUser(c)
	if err != nil {
		return err
	}

	tasks, err := h.taskUC.List(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.JSON(c, http.StatusOK, ListTasksResponse{Tasks: toTaskResponses(tasks)})
}

// Update handles PUT /tasks/:id.
func (h *TaskHandler) Update(c echo.Context) error {
	userID, err := authenticatedUser(c)
	if err != nil {
		return err
	}
	taskID, err := parseTaskID(c)
	if err != nil {
		return err
	}

	var req UpdateTaskRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("request body must be a JSON object"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.taskUC.Update(c.Request().Context(), userID, taskID, &usecase.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "Task updated successfully")
}

// Delete handles DELETE /tasks/:id.
func (h *TaskHandler) Delete(c echo.Context) error {
	userID, err := authenticatedUser(c)
	if err != nil {
		return err
	}
	taskID, err := parseTaskID(c)
	if err != nil {
		return err
	}

	if err := h.taskUC.Delete(c.Request().Context(), userID, taskID); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "Task deleted successfully")
}

func authenticatedUser(c echo.Context) (uint, error) {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return 0, errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	return userID, nil
}

// parseTaskID treats a malformed id like an unknown one.
func parseTaskID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Wrapf(domainerrors.ErrTaskNotFound, "invalid task id %q", c.Param("id"))
	}

	return uint(id), nil
}

func toTaskResponses(tasks []*entity.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, TaskResponse{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			CreatedAt:   task.CreatedAt,
		})
	}

	return out
}
