package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskboard/internal/auth"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/service"
)

// TaskHandler handles task endpoints. Every route behind it requires auth.Middleware.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title string `json:"title" validate:"required"`
}

// UpdateTaskRequest represents a partial task update. Omitted fields keep their value.
type UpdateTaskRequest struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Create godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "Task data"
// @Success 201 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return respondError(apperrors.ErrMissingToken)
	}

	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(apperrors.ErrValidation)
	}

	task, err := h.taskService.Create(c.Request().Context(), identity.UserID, req.Title)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

// List godoc
// @Summary List the caller's tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Task
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return respondError(apperrors.ErrMissingToken)
	}

	tasks, err := h.taskService.ListByUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, tasks)
}

// Update godoc
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to change"
// @Success 200 {object} model.Task
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return respondError(apperrors.ErrMissingToken)
	}

	taskID, err := parseTaskID(c)
	if err != nil {
		return respondError(err)
	}

	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	task, err := h.taskService.Update(c.Request().Context(), taskID, identity.UserID, model.TaskPatch{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// Delete godoc
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return respondError(apperrors.ErrMissingToken)
	}

	taskID, err := parseTaskID(c)
	if err != nil {
		return respondError(err)
	}

	if err := h.taskService.Delete(c.Request().Context(), taskID, identity.UserID); err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "task removed"})
}

// parseTaskID treats an id that cannot be a task id as an unknown task.
func parseTaskID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.ErrTaskNotFound
	}
	return id, nil
}
